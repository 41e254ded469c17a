package palette

import (
	"errors"
	"testing"
)

func TestShade(t *testing.T) {
	tests := []struct {
		register uint8
		index    uint8
		want     uint8
	}{
		{0xE4, 0, 0},
		{0xE4, 1, 1},
		{0xE4, 2, 2},
		{0xE4, 3, 3},
		{0x1B, 0, 3},
		{0x1B, 3, 0},
		{0xFC, 0, 0},
		{0xFC, 1, 3},
	}
	for _, tt := range tests {
		if got := Shade(tt.register, tt.index); got != tt.want {
			t.Errorf("Shade(0x%02x, %d): expected %d, got %d", tt.register, tt.index, tt.want, got)
		}
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("Green")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != Green {
		t.Errorf("expected green palette, got %v", p)
	}

	p, err = Parse("ffffff, #AA5500,555555,000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Colors[1] != [3]uint8{0xAA, 0x55, 0x00} {
		t.Errorf("expected AA5500, got %v", p.Colors[1])
	}

	for _, bad := range []string{"sepia", "ffffff,000000", "ffffff,zzzzzz,555555,000000", "fff,aaa,555,000"} {
		if _, err := Parse(bad); !errors.Is(err, ErrUnknownPalette) {
			t.Errorf("%q: expected ErrUnknownPalette, got %v", bad, err)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 3 || names[0] != "green" || names[1] != "greyscale" || names[2] != "pocket" {
		t.Errorf("expected [green greyscale pocket], got %v", names)
	}
}
