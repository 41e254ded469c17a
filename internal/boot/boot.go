// Package boot provides a boot ROM implementation for the Game Boy. Whilst
// this package is not strictly required for the emulator to function, it
// can be used to emulate the boot process of the Game Boy.
package boot

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
)

// Size is the size of a DMG boot ROM.
const Size = 256

// ErrBootROMSize is returned when a boot ROM is not 256 bytes long.
var ErrBootROMSize = errors.New("boot: invalid boot rom length")

// ROM represents a boot ROM for the Game Boy. When the Game Boy first
// powers on, the boot ROM is mapped to memory addresses 0x0000 - 0x00FF.
//
// The boot ROM performs a series of tasks, such as initializing the
// hardware, setting the stack pointer, scrolling the Nintendo logo, etc.
//
// Once the boot ROM has completed its tasks, it is unmapped from memory
// (by writing to the types.BDIS register), and the cartridge is mapped
// over the boot ROM, thus starting the cartridge execution, and preventing
// the boot ROM from being executed again.
type ROM struct {
	raw      [Size]byte
	checksum string
}

// Load copies b into a new ROM. Only the 256 byte boot ROMs of the
// DMG family are accepted.
func Load(b []byte) (*ROM, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("%w: %d bytes", ErrBootROMSize, len(b))
	}

	r := &ROM{}
	copy(r.raw[:], b)
	sum := md5.Sum(b)
	r.checksum = hex.EncodeToString(sum[:])
	return r, nil
}

// Read returns the byte at the given address.
func (b *ROM) Read(addr uint16) byte {
	return b.raw[addr&0xFF]
}

// Checksum returns the MD5 checksum of the boot rom.
func (b *ROM) Checksum() string {
	if b == nil {
		return ""
	}
	return b.checksum
}

// Model returns the model of the boot rom. The model
// is determined by the checksum of the boot rom.
func (b *ROM) Model() string {
	if b == nil {
		return "none"
	}
	if model, ok := knownBootROMChecksums[b.checksum]; ok {
		return model
	}
	return "unknown"
}

// knownBootROMChecksums is a map of known boot rom checksums,
// with the key being the checksum, and the value being the
// model of the boot rom.
var knownBootROMChecksums = map[string]string{
	DMG0:        "Game Boy (DMG-0)",
	DMG:         "Game Boy (DMG-01)",
	MGB:         "Game Boy Pocket",
	SGB:         "Super Game Boy",
	SGB2:        "Super Game Boy 2",
	Fortune:     "Fortune/Bitman 3000B",
	GameFighter: "Game Fighter",
	MaxStation:  "Max Station",
}

const (
	// DMG0 is the checksum of the early DMG boot ROM, only found
	// in very early Japanese units. On a failed logo check it flashes
	// the screen rather than hanging.
	DMG0 = "a8f84a0ac44da5d3f0ee19f9cea80a8c"
	// DMG is the checksum of the boot ROM of the DMG-01.
	DMG = "32fbbd84168d3482956eb3c5051637f5"
	// MGB differs from DMG by a single byte, it loads 0xFF into A
	// instead of 0x01, which games use to detect a Pocket.
	MGB = "71a378e71ff30b2d8a1f02bf5c7896aa"
	// SGB sends the cartridge header to the SNES instead of
	// scrolling the logo.
	SGB = "d574d4f9c12f305074798f54c091a8b4"
	// SGB2 is to SGB what MGB is to DMG.
	SGB2 = "e0430bca9925fb9882148fd2dc2418c1"

	// Fortune, GameFighter and MaxStation are found in Game Boy clones.
	Fortune     = "92ed4eca17d61fcd53f8a64c3ce84743"
	GameFighter = "6a7b8ee12a793f66a969c6a2b8926cc9"
	MaxStation  = "77a7021db824010a678791f6d062943d"
)
