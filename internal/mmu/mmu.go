// Package mmu provides a memory management unit for the Game Boy. The
// MMU owns no hardware state of its own beyond work RAM and high RAM,
// and routes every other read and write to the component that owns the
// address through the IOBus interface.
package mmu

import (
	"errors"
	"fmt"

	"github.com/thelolagemann/gomeboy-dmg/internal/apu"
	"github.com/thelolagemann/gomeboy-dmg/internal/boot"
	"github.com/thelolagemann/gomeboy-dmg/internal/cartridge"
	"github.com/thelolagemann/gomeboy-dmg/internal/interrupts"
	"github.com/thelolagemann/gomeboy-dmg/internal/joypad"
	"github.com/thelolagemann/gomeboy-dmg/internal/ppu"
	"github.com/thelolagemann/gomeboy-dmg/internal/ram"
	"github.com/thelolagemann/gomeboy-dmg/internal/serial"
	"github.com/thelolagemann/gomeboy-dmg/internal/timer"
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

// ErrUnmapped is the panic value used when an address falls
// through every range of the memory map.
var ErrUnmapped = errors.New("mmu: unmapped address")

// IOBus is the interface that the MMU uses to communicate with the other
// components.
type IOBus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// MMU is the memory management unit for the Game Boy. It handles all
// memory reads and writes to the Game Boy's 64kB of memory, and
// delegates to the other components through the IOBus interface.
type MMU struct {
	// 0x0000 - 0x00FF - BOOT ROM (256B)
	bootROM     *boot.ROM
	bootROMDone bool

	// 0x0000 - 0x7FFF - ROM (32kB)
	// 0xA000 - 0xBFFF - External RAM (8kB)
	Cart cartridge.Cartridge

	// 0x8000 - 0x9FFF - Video RAM (8kB)
	// 0xFE00 - 0xFE9F - Sprite Attribute Table (160B)
	// 0xFF40 - 0xFF4B - LCD registers
	Video *ppu.PPU
	// 0xFF46 - OAM DMA
	DMA *ppu.DMA

	// 0xC000 - 0xDFFF - Work RAM (8kB)
	// 0xE000 - 0xFDFF - Echo RAM (7.5kB)
	wRAM *ram.RAM

	// 0xFF00 - joypad
	Pad IOBus
	// 0xFF01 - 0xFF02 - serial
	Serial IOBus
	// 0xFF04 - 0xFF07 - timer
	Timer IOBus
	// 0xFF0F & 0xFFFF - interrupt flag & enable
	IRQ *interrupts.Service
	// 0xFF10 - 0xFF3F - sound registers and wave RAM
	Sound IOBus

	// 0xFF80 - 0xFFFE - High RAM (127B)
	hRAM *ram.RAM

	Log log.Logger
}

// New returns a new MMU wired to the given components. The
// cartridge is attached separately with AttachCartridge.
func New(
	irq *interrupts.Service,
	video *ppu.PPU,
	dma *ppu.DMA,
	pad *joypad.State,
	ser *serial.Controller,
	tim *timer.Controller,
	sound *apu.APU,
	l log.Logger,
) *MMU {
	return &MMU{
		bootROMDone: true,
		Video:       video,
		DMA:         dma,
		wRAM:        ram.New(0x2000),
		Pad:         pad,
		Serial:      ser,
		Timer:       tim,
		IRQ:         irq,
		Sound:       sound,
		hRAM:        ram.New(0x7F),
		Log:         l,
	}
}

// AttachCartridge inserts the cartridge into the MMU. Until a
// cartridge is attached, its ranges read 0xFF.
func (m *MMU) AttachCartridge(cart cartridge.Cartridge) {
	m.Cart = cart
}

// SetBootROM maps the boot ROM over the start of the cartridge ROM,
// until a non-zero value is written to types.BDIS. A nil ROM marks
// the boot as already done.
func (m *MMU) SetBootROM(rom *boot.ROM) {
	m.bootROM = rom
	m.bootROMDone = rom == nil
}

// BootROMDone returns true once the boot ROM has been unmapped.
func (m *MMU) BootROMDone() bool {
	return m.bootROMDone
}

// Reset clears work RAM and high RAM and maps the boot ROM
// back in, if one was given.
func (m *MMU) Reset() {
	m.wRAM.Reset()
	m.hRAM.Reset()
	m.bootROMDone = m.bootROM == nil
}

func (m *MMU) readCart(address uint16) uint8 {
	if !m.bootROMDone && address < boot.Size {
		return m.bootROM.Read(address)
	}
	if m.Cart == nil {
		return 0xFF
	}
	return m.Cart.Read(address)
}

func (m *MMU) writeCart(address uint16, value uint8) {
	if m.Cart != nil {
		m.Cart.Write(address, value)
	}
}

// Read returns the value at the given address.
func (m *MMU) Read(address uint16) uint8 {
	switch {
	case address < 0x8000:
		return m.readCart(address)
	case address < 0xA000:
		return m.Video.Read(address)
	case address < 0xC000:
		return m.readCart(address)
	case address < 0xFE00:
		return m.wRAM.Read(address & 0x1FFF)
	case address < 0xFEA0:
		return m.Video.Read(address)
	case address < 0xFF00:
		return 0xFF
	case address < 0xFF80:
		return m.readIO(address)
	case address < 0xFFFF:
		return m.hRAM.Read(address - 0xFF80)
	case address == types.IE:
		return m.IRQ.Read(address)
	}

	panic(fmt.Errorf("%w: read 0x%04X", ErrUnmapped, address))
}

// Write writes the value to the given address.
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address < 0x8000:
		m.writeCart(address, value)
	case address < 0xA000:
		m.Video.Write(address, value)
	case address < 0xC000:
		m.writeCart(address, value)
	case address < 0xFE00:
		m.wRAM.Write(address&0x1FFF, value)
	case address < 0xFEA0:
		m.Video.Write(address, value)
	case address < 0xFF00:
		// unusable
	case address < 0xFF80:
		m.writeIO(address, value)
	case address < 0xFFFF:
		m.hRAM.Write(address-0xFF80, value)
	case address == types.IE:
		m.IRQ.Write(address, value)
	default:
		panic(fmt.Errorf("%w: write 0x%04X", ErrUnmapped, address))
	}
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == types.P1:
		return m.Pad.Read(address)
	case address == types.SB, address == types.SC:
		return m.Serial.Read(address)
	case address >= types.DIV && address <= types.TAC:
		return m.Timer.Read(address)
	case address == types.IF:
		return m.IRQ.Read(address)
	case address >= types.NR10 && address < types.LCDC:
		return m.Sound.Read(address)
	case address == types.DMA:
		return m.DMA.Read()
	case address >= types.LCDC && address <= types.WX:
		return m.Video.Read(address)
	case address == types.BDIS:
		return 0xFF
	}

	m.Log.Debugf("mmu: read from unmapped IO register 0x%04X", address)
	return 0xFF
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == types.P1:
		m.Pad.Write(address, value)
	case address == types.SB, address == types.SC:
		m.Serial.Write(address, value)
	case address >= types.DIV && address <= types.TAC:
		m.Timer.Write(address, value)
	case address == types.IF:
		m.IRQ.Write(address, value)
	case address >= types.NR10 && address < types.LCDC:
		m.Sound.Write(address, value)
	case address == types.DMA:
		m.DMA.Write(value)
	case address >= types.LCDC && address <= types.WX:
		m.Video.Write(address, value)
	case address == types.BDIS:
		// any non-zero write latches the boot ROM off until reset
		if value != 0 && !m.bootROMDone {
			m.Log.Debugf("mmu: boot rom unmapped")
			m.bootROMDone = true
		}
	default:
		m.Log.Debugf("mmu: write 0x%02X to unmapped IO register 0x%04X", value, address)
	}
}

var _ types.Stater = (*MMU)(nil)

// Load restores work RAM, high RAM and the boot latch. The
// components behind the IOBus save themselves.
func (m *MMU) Load(s *types.State) {
	m.wRAM.Load(s)
	m.hRAM.Load(s)
	m.bootROMDone = s.ReadBool()
}

// Save stores work RAM, high RAM and the boot latch.
func (m *MMU) Save(s *types.State) {
	m.wRAM.Save(s)
	m.hRAM.Save(s)
	s.WriteBool(m.bootROMDone)
}
