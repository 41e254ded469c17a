package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

var rom = []byte{0x00, 0xC3, 0x50, 0x01, 0xCE, 0xED}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func zipped(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var b bytes.Buffer
	w := zip.NewWriter(&b)
	for name, data := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		f.Write(data)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func TestLoadFile(t *testing.T) {
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	w.Write(rom)
	w.Close()

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"plain", "game.gb", rom},
		{"unknown extension", "game.rom", rom},
		{"gzip", "game.gb.gz", gz.Bytes()},
		{"zip", "game.zip", zipped(t, map[string][]byte{"readme.txt": []byte("hello"), "game.gb": rom})},
		{"zip upper case", "GAME.ZIP", zipped(t, map[string][]byte{"GAME.GB": rom})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadFile(writeFile(t, tt.file, tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, rom) {
				t.Errorf("expected %v, got %v", rom, got)
			}
		})
	}
}

func TestDecompress(t *testing.T) {
	got, err := Decompress("dropped.zip", zipped(t, map[string][]byte{"game.gb": rom}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, rom) {
		t.Errorf("expected %v, got %v", rom, got)
	}
	if _, err := Decompress("dropped.zip", zipped(t, nil)); !errors.Is(err, ErrNoROM) {
		t.Errorf("expected %v, got %v", ErrNoROM, err)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.gb")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected %v, got %v", os.ErrNotExist, err)
	}

	path := writeFile(t, "game.zip", zipped(t, map[string][]byte{"readme.txt": []byte("hello")}))
	if _, err := LoadFile(path); !errors.Is(err, ErrNoROM) {
		t.Errorf("expected %v, got %v", ErrNoROM, err)
	}

	for _, name := range []string{"bad.zip", "bad.7z", "bad.gz"} {
		if _, err := LoadFile(writeFile(t, name, []byte("not an archive"))); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestImage(t *testing.T) {
	fb := make([]byte, 2*2*3)
	fb[0], fb[1], fb[2] = 0xFF, 0x80, 0x01

	if _, err := FrameImage(fb[:5], 2, 2); err == nil {
		t.Errorf("expected a short frame buffer to be rejected")
	}
	img, err := FrameImage(fb, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	scaled := ScaleImage(img, 3)
	if b := scaled.Bounds(); b.Dx() != 6 || b.Dy() != 6 {
		t.Fatalf("expected 6x6, got %dx%d", b.Dx(), b.Dy())
	}
	for _, p := range [][2]int{{0, 0}, {2, 2}, {0, 2}} {
		r, g, b, a := scaled.At(p[0], p[1]).RGBA()
		if r>>8 != 0xFF || g>>8 != 0x80 || b>>8 != 0x01 || a>>8 != 0xFF {
			t.Errorf("(%d, %d): expected the top left pixel, got %02X%02X%02X%02X", p[0], p[1], r>>8, g>>8, b>>8, a>>8)
		}
	}
	if r, _, _, _ := scaled.At(3, 0).RGBA(); r != 0 {
		t.Errorf("expected (3, 0) to be black, got red %d", r>>8)
	}

	path := filepath.Join(t.TempDir(), "shot.png")
	if err := SaveImage(path, scaled); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != scaled.Bounds() {
		t.Errorf("expected %v, got %v", scaled.Bounds(), decoded.Bounds())
	}
}
