package emulator

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SavePath returns the path of the battery save for the given ROM,
// which sits next to it with the extension replaced by .sav.
func SavePath(romPath string) string {
	return strings.TrimSuffix(romPath, filepath.Ext(romPath)) + ".sav"
}

// Save represents a save file, holding the raw contents of the
// cartridge's external RAM.
type Save struct {
	b    []byte // the save file data
	Path string // the path to the save file
}

// LoadSave loads the save file at the given path. A save file that
// doesn't exist yet is not an error, and results in an empty Save
// that will be created on the first Flush.
func LoadSave(path string) (*Save, error) {
	s := &Save{Path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("emulator: reading save %s: %w", path, err)
	}
	s.b = b
	return s, nil
}

// Bytes returns the save file data.
func (s *Save) Bytes() []byte {
	return s.b
}

// SetBytes sets the save file data, returning true if it differs
// from what was there before.
func (s *Save) SetBytes(b []byte) bool {
	if bytes.Equal(s.b, b) {
		return false
	}
	s.b = bytes.Clone(b)
	return true
}

// Flush writes the save file data to disk. The data is written to a
// temporary file first and renamed over the save file, so that a
// crash halfway through never leaves a corrupt save behind.
func (s *Save) Flush() error {
	if len(s.b) == 0 {
		return nil
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, s.b, 0644); err != nil {
		return fmt.Errorf("emulator: writing save: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("emulator: writing save: %w", err)
	}
	return nil
}
