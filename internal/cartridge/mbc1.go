package cartridge

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// MemoryBankedCartridge1 represents a MemoryBankedCartridge1 cartridge. This cartridge
// type supports up to 2MB of ROM (125 banks) and 32kB of RAM (4 banks).
//
//	0x0000 - 0x1FFF - RAM Enable (write 0x0A to the lower nibble)
//	0x2000 - 0x3FFF - ROM Bank Number (lower 5 bits)
//	0x4000 - 0x5FFF - RAM Bank Number or upper bits of ROM Bank Number
//	0x6000 - 0x7FFF - Banking Mode Select
type MemoryBankedCartridge1 struct {
	*base

	bank1 uint8 // 5 bit ROM bank register
	bank2 uint8 // 2 bit RAM bank/upper ROM bank register

	ramEnabled bool
	mode       bool // false = simple banking, true = advanced banking
}

// NewMemoryBankedCartridge1 returns a new MemoryBankedCartridge1 cartridge.
func NewMemoryBankedCartridge1(b *base) *MemoryBankedCartridge1 {
	return &MemoryBankedCartridge1{
		base:  b,
		bank1: 1,
	}
}

// ROMBank returns the bank currently mapped into 0x4000-0x7FFF. Bank 0 is
// never mapped there, a register value that would select it maps bank 1.
func (m *MemoryBankedCartridge1) ROMBank() int {
	bank1 := int(m.bank1)
	if bank1 == 0 {
		bank1 = 1
	}
	bank := m.clampROMBank(int(m.bank2)<<5 | bank1)
	if bank == 0 {
		bank = 1
	}
	return bank
}

// zeroBank returns the bank mapped into 0x0000-0x3FFF, which is only
// ever non-zero for large ROMs in advanced banking mode.
func (m *MemoryBankedCartridge1) zeroBank() int {
	if !m.mode {
		return 0
	}
	return m.clampROMBank(int(m.bank2) << 5)
}

// RAMBank returns the RAM bank mapped into 0xA000-0xBFFF.
func (m *MemoryBankedCartridge1) RAMBank() int {
	if !m.mode || m.ramBanks == 0 {
		return 0
	}
	return int(m.bank2) % m.ramBanks
}

// Read returns the value from the cartridges ROM or RAM, depending on the bank
// selected.
func (m *MemoryBankedCartridge1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.readROM(m.zeroBank(), address)
	case address < 0x8000:
		return m.readROM(m.ROMBank(), address)
	default:
		if !m.ramEnabled {
			return m.disabledRead(address)
		}
		return m.readRAM(m.RAMBank(), address)
	}
}

// Write attempts to switch the ROM or RAM bank.
func (m *MemoryBankedCartridge1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		m.bank1 = value & 0x1F
	case address < 0x6000:
		m.bank2 = value & 0x03
	case address < 0x8000:
		m.mode = value&0x01 == 0x01
	default:
		if !m.ramEnabled {
			m.disabledWrite(address, value)
			return
		}
		m.writeRAM(m.RAMBank(), address, value)
	}
}

var _ types.Stater = (*MemoryBankedCartridge1)(nil)

func (m *MemoryBankedCartridge1) Load(s *types.State) {
	m.bank1 = s.Read8()
	m.bank2 = s.Read8()
	m.ramEnabled = s.ReadBool()
	m.mode = s.ReadBool()
	m.loadRAM(s)
}

func (m *MemoryBankedCartridge1) Save(s *types.State) {
	s.Write8(m.bank1)
	s.Write8(m.bank2)
	s.WriteBool(m.ramEnabled)
	s.WriteBool(m.mode)
	m.saveRAM(s)
}
