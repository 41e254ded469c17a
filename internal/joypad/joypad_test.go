package joypad

import (
	"testing"

	"github.com/thelolagemann/gomeboy-dmg/internal/interrupts"
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
)

func TestState_Read(t *testing.T) {
	tests := []struct {
		name    string
		pressed []Button
		sel     uint8
		want    uint8
	}{
		{"none selected", []Button{ButtonA, ButtonUp}, 0x30, 0xFF},
		{"both low selects none", []Button{ButtonA}, 0x00, 0xFF},
		{"action idle", nil, 0x10, 0xDF},
		{"direction idle", nil, 0x20, 0xEF},
		{"A pressed", []Button{ButtonA}, 0x10, 0xDE},
		{"start pressed", []Button{ButtonStart}, 0x10, 0xD7},
		{"A ignored in direction", []Button{ButtonA}, 0x20, 0xEF},
		{"right pressed", []Button{ButtonRight}, 0x20, 0xEE},
		{"down and left", []Button{ButtonDown, ButtonLeft}, 0x20, 0xE5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(interrupts.NewService())
			for _, b := range tt.pressed {
				s.Press(b)
			}
			s.Write(types.P1, tt.sel)
			if got := s.Read(types.P1); got != tt.want {
				t.Errorf("expected 0x%02x, got 0x%02x", tt.want, got)
			}
		})
	}
}

func TestState_PressRequestsInterrupt(t *testing.T) {
	irq := interrupts.NewService()
	s := New(irq)
	s.Press(ButtonSelect)
	if irq.Flag&interrupts.JoypadFlag == 0 {
		t.Errorf("expected joypad interrupt to be requested")
	}
	if !s.Pressed(ButtonSelect) {
		t.Errorf("expected select to be pressed")
	}
	s.Release(ButtonSelect)
	if s.Pressed(ButtonSelect) {
		t.Errorf("expected select to be released")
	}
}
