// Package cartridge provides the game cartridges of the DMG. A
// cartridge holds the game ROM and any external RAM, and one of
// several memory bank controllers (MBC) that map banks of either
// into the CPU address space.
package cartridge

import (
	"fmt"

	"github.com/thelolagemann/gomeboy-dmg/internal/types"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// Cartridge represents a game cartridge. Reads and writes are
// passed through for the ranges 0x0000-0x7FFF and 0xA000-0xBFFF.
type Cartridge interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	Header() *Header
	// RAM returns the external RAM of the cartridge, which is
	// what gets written to a .sav file for battery backed carts.
	RAM() []byte
	// LoadRAM copies previously saved RAM into the cartridge.
	LoadRAM(data []byte)

	types.Stater
}

// New parses the header of the given ROM and returns a cartridge
// with the memory bank controller it asks for. The cartridge logs
// its soft errors to l. Header warnings are left in Header().Warnings
// for the caller to report.
func New(rom []byte, l log.Logger) (Cartridge, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}

	b := newBase(rom, header, l)
	switch header.CartridgeType {
	case ROM, ROMRAM, ROMRAMBATT:
		return NewROM(b), nil
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return NewMemoryBankedCartridge1(b), nil
	case MBC2, MBC2BATT:
		return NewMemoryBankedCartridge2(b), nil
	case MBC3, MBC3RAM, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT:
		return NewMemoryBankedCartridge3(b), nil
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		return NewMemoryBankedCartridge5(b), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, header.CartridgeType)
}

// base holds what every memory bank controller shares, the
// ROM, the external RAM and the parsed header.
type base struct {
	rom      []byte
	ram      []byte
	romBanks int
	ramBanks int

	header *Header
	log    log.Logger
}

func newBase(rom []byte, header *Header, l log.Logger) *base {
	b := &base{
		rom:      rom,
		ram:      make([]byte, header.RAMSize),
		romBanks: len(rom) / romBankSize,
		ramBanks: header.RAMBanks(),
		header:   header,
		log:      l,
	}
	return b
}

func (b *base) Header() *Header {
	return b.header
}

func (b *base) RAM() []byte {
	return b.ram
}

func (b *base) LoadRAM(data []byte) {
	if len(data) != len(b.ram) {
		b.log.Warnf("cartridge: save data is %d bytes, cartridge RAM is %d bytes", len(data), len(b.ram))
	}
	copy(b.ram, data)
}

// readROM reads from the given ROM bank.
func (b *base) readROM(bank int, address uint16) uint8 {
	return b.rom[bank*romBankSize+int(address&0x3FFF)]
}

// readRAM reads from the given RAM bank. Smaller RAM chips are
// mirrored across the 8kB window.
func (b *base) readRAM(bank int, address uint16) uint8 {
	if len(b.ram) == 0 {
		return 0xFF
	}
	return b.ram[(bank*ramBankSize+int(address&0x1FFF))%len(b.ram)]
}

func (b *base) writeRAM(bank int, address uint16, value uint8) {
	if len(b.ram) == 0 {
		return
	}
	b.ram[(bank*ramBankSize+int(address&0x1FFF))%len(b.ram)] = value
}

// clampROMBank wraps the bank into the number of banks the
// ROM holds.
func (b *base) clampROMBank(bank int) int {
	return bank % b.romBanks
}

func (b *base) disabledRead(address uint16) uint8 {
	b.log.Warnf("cartridge: read from disabled RAM at %04X", address)
	return 0xFF
}

func (b *base) disabledWrite(address uint16, value uint8) {
	b.log.Warnf("cartridge: dropped write %02X to disabled RAM at %04X", value, address)
}

func (b *base) loadRAM(s *types.State) {
	s.ReadData(b.ram)
}

func (b *base) saveRAM(s *types.State) {
	s.WriteData(b.ram)
}
