package cartridge

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// MemoryBankedCartridge5 represents a MemoryBankedCartridge5 cartridge. It supports
// up to 8MB of ROM and 128kB of RAM.
//
//	0x0000 - 0x1FFF - RAM Enable (write 0x0A to the lower nibble)
//	0x2000 - 0x2FFF - ROM Bank Number (lower 8 bits)
//	0x3000 - 0x3FFF - ROM Bank Number (bit 8)
//	0x4000 - 0x5FFF - RAM Bank Number (bit 3 drives the motor on rumble carts)
//
// Unlike the other controllers, the MBC5 maps bank 0 into 0x4000-0x7FFF when
// asked to.
type MemoryBankedCartridge5 struct {
	*base

	romBank    uint16
	ramBank    uint8
	ramEnabled bool
}

// NewMemoryBankedCartridge5 returns a new MemoryBankedCartridge5 cartridge.
func NewMemoryBankedCartridge5(b *base) *MemoryBankedCartridge5 {
	return &MemoryBankedCartridge5{
		base:    b,
		romBank: 1,
	}
}

// ROMBank returns the bank mapped into 0x4000-0x7FFF.
func (m *MemoryBankedCartridge5) ROMBank() int {
	return m.clampROMBank(int(m.romBank))
}

func (m *MemoryBankedCartridge5) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom[address]
	case address < 0x8000:
		return m.readROM(m.ROMBank(), address)
	default:
		if !m.ramEnabled {
			return m.disabledRead(address)
		}
		return m.readRAM(int(m.ramBank), address)
	}
}

func (m *MemoryBankedCartridge5) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x3000:
		m.romBank = m.romBank&0x100 | uint16(value)
	case address < 0x4000:
		m.romBank = m.romBank&0xFF | uint16(value&0x01)<<8
	case address < 0x6000:
		if m.header.CartridgeType.HasRumble() {
			value &= 0x07
		}
		m.ramBank = value & 0x0F
		if m.ramBanks > 0 {
			m.ramBank %= uint8(m.ramBanks)
		}
	case address < 0x8000:
		m.log.Debugf("cartridge: ignored write %02X to ROM at %04X", value, address)
	default:
		if !m.ramEnabled {
			m.disabledWrite(address, value)
			return
		}
		m.writeRAM(int(m.ramBank), address, value)
	}
}

var _ types.Stater = (*MemoryBankedCartridge5)(nil)

func (m *MemoryBankedCartridge5) Load(s *types.State) {
	m.romBank = s.Read16()
	m.ramBank = s.Read8()
	m.ramEnabled = s.ReadBool()
	m.loadRAM(s)
}

func (m *MemoryBankedCartridge5) Save(s *types.State) {
	s.Write16(m.romBank)
	s.Write8(m.ramBank)
	s.WriteBool(m.ramEnabled)
	m.saveRAM(s)
}
