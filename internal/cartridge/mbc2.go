package cartridge

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// MemoryBankedCartridge2 represents a MemoryBankedCartridge2 cartridge. It supports
// up to 256kB of ROM, and has 512 half bytes of RAM built into the controller.
//
// Both registers live in 0x0000-0x3FFF, bit 8 of the address selects between
// them:
//
//	bit 8 clear - RAM Enable (write 0x0A to the lower nibble)
//	bit 8 set   - ROM Bank Number (lower 4 bits)
type MemoryBankedCartridge2 struct {
	*base

	romBank    uint8
	ramEnabled bool
}

// NewMemoryBankedCartridge2 returns a new MemoryBankedCartridge2 cartridge.
func NewMemoryBankedCartridge2(b *base) *MemoryBankedCartridge2 {
	b.ram = make([]byte, 512)
	return &MemoryBankedCartridge2{
		base:    b,
		romBank: 1,
	}
}

// ROMBank returns the bank mapped into 0x4000-0x7FFF.
func (m *MemoryBankedCartridge2) ROMBank() int {
	bank := m.clampROMBank(int(m.romBank))
	if bank == 0 {
		bank = 1
	}
	return bank
}

func (m *MemoryBankedCartridge2) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom[address]
	case address < 0x8000:
		return m.readROM(m.ROMBank(), address)
	default:
		if !m.ramEnabled {
			return m.disabledRead(address)
		}
		// only the lower nibble is stored, the upper reads high
		return 0xF0 | m.ram[address&0x1FF]
	}
}

func (m *MemoryBankedCartridge2) Write(address uint16, value uint8) {
	switch {
	case address < 0x4000:
		if address&0x100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
		} else {
			m.romBank = value & 0x0F
		}
	case address < 0x8000:
		m.log.Debugf("cartridge: ignored write %02X to ROM at %04X", value, address)
	default:
		if !m.ramEnabled {
			m.disabledWrite(address, value)
			return
		}
		m.ram[address&0x1FF] = value & 0x0F
	}
}

var _ types.Stater = (*MemoryBankedCartridge2)(nil)

func (m *MemoryBankedCartridge2) Load(s *types.State) {
	m.romBank = s.Read8()
	m.ramEnabled = s.ReadBool()
	m.loadRAM(s)
}

func (m *MemoryBankedCartridge2) Save(s *types.State) {
	s.Write8(m.romBank)
	s.WriteBool(m.ramEnabled)
	m.saveRAM(s)
}
