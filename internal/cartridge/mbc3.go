package cartridge

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// MemoryBankedCartridge3 represents a MemoryBankedCartridge3 cartridge. It supports
// up to 2MB of ROM and 32kB of RAM, and on some cartridges a real time clock.
//
//	0x0000 - 0x1FFF - RAM and RTC Enable (write 0x0A to the lower nibble)
//	0x2000 - 0x3FFF - ROM Bank Number (7 bits)
//	0x4000 - 0x5FFF - RAM Bank Number (0x00-0x03) or RTC Register Select (0x08-0x0C)
//	0x6000 - 0x7FFF - Latch Clock Data (write 0x00 then 0x01)
//
// The clock registers can be selected, latched, read and written, but the
// clock itself does not tick.
type MemoryBankedCartridge3 struct {
	*base

	romBank    uint8
	ramBank    uint8 // 0x00-0x03 RAM bank, 0x08-0x0C RTC register
	ramEnabled bool

	rtc        [5]uint8
	rtcLatched [5]uint8
	latch      uint8
}

// NewMemoryBankedCartridge3 returns a new MemoryBankedCartridge3 cartridge.
func NewMemoryBankedCartridge3(b *base) *MemoryBankedCartridge3 {
	return &MemoryBankedCartridge3{
		base:    b,
		romBank: 1,
		latch:   0xFF,
	}
}

// ROMBank returns the bank mapped into 0x4000-0x7FFF.
func (m *MemoryBankedCartridge3) ROMBank() int {
	bank := m.clampROMBank(int(m.romBank))
	if bank == 0 {
		bank = 1
	}
	return bank
}

func (m *MemoryBankedCartridge3) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom[address]
	case address < 0x8000:
		return m.readROM(m.ROMBank(), address)
	default:
		if !m.ramEnabled {
			return m.disabledRead(address)
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			return m.rtcLatched[m.ramBank-0x08]
		}
		return m.readRAM(int(m.ramBank&0x03), address)
	}
}

func (m *MemoryBankedCartridge3) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		m.romBank = value & 0x7F
	case address < 0x6000:
		m.ramBank = value & 0x0F
	case address < 0x8000:
		if m.latch == 0x00 && value == 0x01 {
			m.rtcLatched = m.rtc
		}
		m.latch = value
	default:
		if !m.ramEnabled {
			m.disabledWrite(address, value)
			return
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.rtc[m.ramBank-0x08] = value
			return
		}
		m.writeRAM(int(m.ramBank&0x03), address, value)
	}
}

var _ types.Stater = (*MemoryBankedCartridge3)(nil)

func (m *MemoryBankedCartridge3) Load(s *types.State) {
	m.romBank = s.Read8()
	m.ramBank = s.Read8()
	m.ramEnabled = s.ReadBool()
	m.latch = s.Read8()
	for i := range m.rtc {
		m.rtc[i] = s.Read8()
	}
	for i := range m.rtcLatched {
		m.rtcLatched[i] = s.Read8()
	}
	m.loadRAM(s)
}

func (m *MemoryBankedCartridge3) Save(s *types.State) {
	s.Write8(m.romBank)
	s.Write8(m.ramBank)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.latch)
	for _, v := range m.rtc {
		s.Write8(v)
	}
	for _, v := range m.rtcLatched {
		s.Write8(v)
	}
	m.saveRAM(s)
}
