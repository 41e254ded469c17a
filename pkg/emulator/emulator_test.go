package emulator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSavePath(t *testing.T) {
	tests := map[string]string{
		"roms/tetris.gb":     "roms/tetris.sav",
		"zelda.gbc":          "zelda.sav",
		"/abs/path/game.zip": "/abs/path/game.sav",
		"noext":              "noext.sav",
	}
	for rom, expected := range tests {
		if got := SavePath(rom); got != expected {
			t.Errorf("%s: expected %s, got %s", rom, expected, got)
		}
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.sav")

	s, err := LoadSave(path)
	if err != nil {
		t.Fatalf("expected a missing save to load, got %v", err)
	}
	if len(s.Bytes()) != 0 {
		t.Errorf("expected an empty save, got %d bytes", len(s.Bytes()))
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected an empty save not to be written")
	}

	data := []byte{1, 2, 3, 4}
	if !s.SetBytes(data) {
		t.Errorf("expected new data to be reported as changed")
	}
	if s.SetBytes(data) {
		t.Errorf("expected identical data to be reported as unchanged")
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	s, err = LoadSave(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(s.Bytes(), data) {
		t.Errorf("expected %v, got %v", data, s.Bytes())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("expected the temporary file to be renamed")
	}
}

func TestSetSpeed(t *testing.T) {
	p := SetSpeed(2.5)
	if p.Command != CommandSetSpeed {
		t.Errorf("expected %s, got %s", CommandSetSpeed, p.Command)
	}
	speed, ok := p.Speed()
	if !ok || speed != 2.5 {
		t.Errorf("expected 2.5, got %f (%t)", speed, ok)
	}

	for _, bad := range []CommandPacket{
		{Command: CommandSetSpeed},
		SetSpeed(0),
		SetSpeed(-1),
	} {
		if _, ok := bad.Speed(); ok {
			t.Errorf("expected %v to be rejected", bad.Data)
		}
	}
}
