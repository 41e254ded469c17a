package cartridge

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// ROMCartridge is a cartridge without a memory bank controller,
// 32kB of ROM mapped directly into 0x0000-0x7FFF, optionally with
// up to 8kB of RAM at 0xA000-0xBFFF.
type ROMCartridge struct {
	*base
}

// NewROM returns a new ROMCartridge.
func NewROM(b *base) *ROMCartridge {
	return &ROMCartridge{base: b}
}

// Read returns the value at the given address.
func (r *ROMCartridge) Read(address uint16) uint8 {
	switch {
	case address < 0x8000:
		if int(address) < len(r.rom) {
			return r.rom[address]
		}
		return 0xFF
	default:
		return r.readRAM(0, address)
	}
}

// Write only affects the RAM, as there are no bank registers to
// write to.
func (r *ROMCartridge) Write(address uint16, value uint8) {
	if address >= 0xA000 {
		r.writeRAM(0, address, value)
		return
	}
	r.log.Debugf("cartridge: ignored write %02X to ROM at %04X", value, address)
}

var _ types.Stater = (*ROMCartridge)(nil)

func (r *ROMCartridge) Load(s *types.State) { r.loadRAM(s) }
func (r *ROMCartridge) Save(s *types.State) { r.saveRAM(s) }
