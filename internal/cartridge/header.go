package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTruncated is returned when the ROM is too short to hold
	// a header, or is not a whole number of 16kB banks.
	ErrTruncated = errors.New("cartridge: rom data truncated")
	// ErrBadLogo is returned when the logo at 0x0104-0x0133 does
	// not match the Nintendo logo. The boot ROM refuses to run
	// these cartridges.
	ErrBadLogo = errors.New("cartridge: invalid nintendo logo")
	// ErrHeaderChecksum is returned when the checksum computed over
	// 0x0134-0x014C does not match the byte at 0x014D.
	ErrHeaderChecksum = errors.New("cartridge: header checksum mismatch")
	// ErrUnsupportedType is returned for cartridge types that are
	// unknown, or known but have no memory bank controller here.
	ErrUnsupportedType = errors.New("cartridge: unsupported cartridge type")
	// ErrROMSize is returned for an unknown ROM size code.
	ErrROMSize = errors.New("cartridge: invalid rom size")
	// ErrRAMSize is returned for an unknown RAM size code.
	ErrRAMSize = errors.New("cartridge: invalid ram size")
	// ErrRegion is returned for an unknown destination code.
	ErrRegion = errors.New("cartridge: invalid destination code")
)

// Logo is the bitmap the boot ROM scrolls down the screen, and
// compares against the copy held in each cartridge header.
var Logo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83,
	0x00, 0x0C, 0x00, 0x0D, 0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99, 0xBB, 0xBB, 0x67, 0x63,
	0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Flag is the CGB compatibility flag held at 0x0143.
type Flag uint8

const (
	FlagOnlyDMG Flag = iota
	FlagSupportsCGB
	FlagOnlyCGB
)

// ramSizes maps the RAM size code at 0x0149 to the size
// of the external RAM in bytes.
var ramSizes = map[uint8]uint{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header represents the header of a cartridge, each cartridge has a header and is
// located at the address space 0x0100-0x014F. The header contains information about
// the cartridge itself, and the hardware it expects to run on.
type Header struct {
	// 0x0134-0x0143 - Title of the game, in upper case ASCII. Newer
	// cartridges use the last bytes for the manufacturer code and
	// CGB flag, leaving 11 or 15 characters.
	Title string

	// 0x013F-0x0142 - ManufacturerCode of the game.
	ManufacturerCode string

	// 0x0143 - CartridgeGBMode of the game. In older cartridges this byte was part
	// of the title, but the Colour Game Boy and later models interpret this byte
	// to determine if the cartridge is compatible with the Colour Game Boy.
	CartridgeGBMode Flag

	// 0x0144-0x0145 - NewLicenseeCode of the game. Only used when
	// OldLicenseeCode is 0x33.
	NewLicenseeCode string
	// 0x0146 - SGBFlag, 0x03 when the game supports SGB functions.
	SGBFlag uint8
	// 0x0147 - CartridgeType, the memory bank controller and any
	// additional hardware on the cartridge.
	CartridgeType Type
	// 0x0148 - ROMSize in bytes (32kB << n).
	ROMSize uint
	// 0x0149 - RAMSize in bytes of the external RAM.
	RAMSize uint
	// 0x014A - DestinationCode, 0x00 Japan and 0x01 overseas.
	DestinationCode uint8
	// 0x014B - OldLicenseeCode of the game.
	OldLicenseeCode uint8
	// 0x014C - MaskROMVersion of the game, usually 0x00.
	MaskROMVersion uint8
	// 0x014D - HeaderChecksum over 0x0134-0x014C.
	HeaderChecksum uint8
	// 0x014E-0x014F - GlobalChecksum, big endian sum of every byte
	// of the ROM excluding these two.
	GlobalChecksum uint16

	// Warnings holds the problems found while parsing that real
	// hardware ignores.
	Warnings []string

	raw [0x50]byte
}

// ParseHeader parses and validates the header of the given ROM.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < 0x8000 || len(rom)%0x4000 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(rom))
	}

	h := &Header{}
	copy(h.raw[:], rom[0x100:0x150])
	header := h.raw[:]

	if !bytes.Equal(header[0x04:0x34], Logo[:]) {
		return nil, ErrBadLogo
	}

	h.HeaderChecksum = header[0x4D]
	if sum := HeaderChecksum(rom); sum != h.HeaderChecksum {
		return nil, fmt.Errorf("%w: computed %02X, header %02X", ErrHeaderChecksum, sum, h.HeaderChecksum)
	}

	// parse the mode of the cartridge and parse the title accordingly
	switch header[0x43] {
	case 0x80:
		h.CartridgeGBMode = FlagSupportsCGB
	case 0xC0:
		h.CartridgeGBMode = FlagOnlyCGB
	default:
		h.CartridgeGBMode = FlagOnlyDMG
	}
	if h.CartridgeGBMode == FlagOnlyDMG {
		h.Title = cleanString(header[0x34:0x44])
	} else {
		h.Title = cleanString(header[0x34:0x3F])
		h.ManufacturerCode = cleanString(header[0x3F:0x43])
	}

	h.NewLicenseeCode = string(header[0x44:0x46])

	h.SGBFlag = header[0x46]
	if h.SGBFlag != 0x00 && h.SGBFlag != 0x03 {
		h.Warnings = append(h.Warnings, fmt.Sprintf("unexpected SGB flag %02X, treating as 0x00", h.SGBFlag))
		h.SGBFlag = 0x00
	}

	h.CartridgeType = Type(header[0x47])
	if _, ok := typeNames[h.CartridgeType]; !ok {
		return nil, fmt.Errorf("%w: %02X", ErrUnsupportedType, header[0x47])
	}

	if header[0x48] > 0x08 {
		return nil, fmt.Errorf("%w: code %02X", ErrROMSize, header[0x48])
	}
	h.ROMSize = 0x8000 << header[0x48]
	if uint(len(rom)) != h.ROMSize {
		h.Warnings = append(h.Warnings, fmt.Sprintf("header declares %dkB of ROM, image holds %dkB", h.ROMSize/1024, len(rom)/1024))
	}

	ramSize, ok := ramSizes[header[0x49]]
	if !ok {
		return nil, fmt.Errorf("%w: code %02X", ErrRAMSize, header[0x49])
	}
	h.RAMSize = ramSize

	h.DestinationCode = header[0x4A]
	if h.DestinationCode > 0x01 {
		return nil, fmt.Errorf("%w: %02X", ErrRegion, h.DestinationCode)
	}

	h.OldLicenseeCode = header[0x4B]
	h.MaskROMVersion = header[0x4C]

	h.GlobalChecksum = uint16(header[0x4E])<<8 | uint16(header[0x4F])
	if sum := GlobalChecksum(rom); sum != h.GlobalChecksum {
		h.Warnings = append(h.Warnings, fmt.Sprintf("global checksum mismatch: computed %04X, header %04X", sum, h.GlobalChecksum))
	}

	return h, nil
}

// HeaderChecksum computes the header checksum of the given ROM,
// the same way the boot ROM does.
func HeaderChecksum(rom []byte) uint8 {
	var sum uint8
	for _, b := range rom[0x134:0x14D] {
		sum = sum - b - 1
	}
	return sum
}

// GlobalChecksum computes the sum of every byte of the ROM,
// excluding the two global checksum bytes themselves.
func GlobalChecksum(rom []byte) uint16 {
	var sum uint16
	for i, b := range rom {
		if i == 0x14E || i == 0x14F {
			continue
		}
		sum += uint16(b)
	}
	return sum
}

// cleanString trims the NUL padding used by header strings.
func cleanString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b))
}

// Raw returns the 0x50 header bytes (0x0100-0x014F).
func (h *Header) Raw() []byte {
	return h.raw[:]
}

// ROMBanks returns the number of 16kB ROM banks.
func (h *Header) ROMBanks() int {
	return int(h.ROMSize / 0x4000)
}

// RAMBanks returns the number of 8kB RAM banks. A 2kB RAM
// counts as a single bank.
func (h *Header) RAMBanks() int {
	if h.RAMSize == 0 {
		return 0
	}
	if h.RAMSize < 0x2000 {
		return 1
	}
	return int(h.RAMSize / 0x2000)
}

// Licensee returns the name of the licensee, using the new
// licensee code when the old one says so.
func (h *Header) Licensee() string {
	if h.OldLicenseeCode == 0x33 {
		if name, ok := newLicensees[h.NewLicenseeCode]; ok {
			return name
		}
		return "Unknown (" + h.NewLicenseeCode + ")"
	}
	if name, ok := oldLicensees[h.OldLicenseeCode]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%02X)", h.OldLicenseeCode)
}

// Region returns the destination of the cartridge.
func (h *Header) Region() string {
	if h.DestinationCode == 0x00 {
		return "Japan"
	}
	return "Overseas"
}

func (h *Header) GameboyColor() bool {
	return h.CartridgeGBMode == FlagOnlyCGB || h.CartridgeGBMode == FlagSupportsCGB
}

func (h *Header) Hardware() string {
	switch h.CartridgeGBMode {
	case FlagSupportsCGB, FlagOnlyCGB:
		return "CGB"
	default:
		return "DMG"
	}
}

// Matches returns true if o was parsed from a ROM with the same
// header bytes, 0x0100-0x014F, as h.
func (h *Header) Matches(o *Header) bool {
	return o != nil && h.raw == o.raw
}

func (h *Header) String() string {
	return fmt.Sprintf("%s Mode: %s | Type: %s | ROM Size: %dkB | RAM Size: %dkB | Licensee: %s",
		h.Title, h.Hardware(), h.CartridgeType, h.ROMSize/1024, h.RAMSize/1024, h.Licensee())
}
