// Package utils holds the file handling shared by the frontends:
// loading ROMs out of archives, and writing screenshots.
package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// ErrNoROM is returned when an archive doesn't contain a ROM.
var ErrNoROM = errors.New("utils: no rom found in archive")

// romExtensions are the extensions looked for inside an archive.
var romExtensions = []string{".gb", ".gbc", ".bin"}

// LoadFile loads the given file and performs decompression if
// necessary. gzip files are decompressed, while for zip and 7z
// archives the first file with a ROM extension is extracted.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Decompress(filename, data)
}

// Decompress decompresses data read from the file with the given name,
// choosing the format by its extension in the same way as LoadFile.
func Decompress(filename string, data []byte) ([]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("utils: %s: %w", filename, err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case ".zip":
		r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("utils: %s: %w", filename, err)
		}
		for _, f := range r.File {
			if isROM(f.Name) {
				return readArchived(f.Open)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNoROM, filename)
	case ".7z":
		r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("utils: %s: %w", filename, err)
		}
		for _, f := range r.File {
			if isROM(f.Name) {
				return readArchived(f.Open)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNoROM, filename)
	default:
		// return the data as is
		return data, nil
	}
}

func isROM(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range romExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func readArchived(open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
