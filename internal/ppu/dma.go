package ppu

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// dmaCycles is the length of an OAM DMA transfer, 160 bytes at 4
// cycles a byte.
const dmaCycles = 640

// Reader is the bus a DMA transfer copies from.
type Reader interface {
	Read(address uint16) uint8
}

// DMA is the OAM DMA controller. A write to 0xFF46 selects a source page,
// and 640 cycles later the 160 bytes at that page are copied into OAM.
//
// The CPU keeps full access to the bus while a transfer is pending.
type DMA struct {
	active    bool
	source    uint16
	value     uint8
	remaining uint16

	bus Reader
	ppu *PPU
}

// NewDMA returns a new DMA controller that copies into the OAM of the
// given PPU.
func NewDMA(ppu *PPU) *DMA {
	return &DMA{ppu: ppu}
}

// Attach sets the bus the controller reads from.
func (d *DMA) Attach(bus Reader) {
	d.bus = bus
}

// Reset stops any transfer in progress.
func (d *DMA) Reset() {
	d.active = false
	d.source = 0
	d.value = 0
	d.remaining = 0
}

// Read returns the last value written to 0xFF46.
func (d *DMA) Read() uint8 {
	return d.value
}

// Write starts a transfer from the page selected by value. A write
// during a transfer restarts it.
func (d *DMA) Write(value uint8) {
	d.value = value
	d.source = uint16(value) << 8
	d.remaining = dmaCycles
	d.active = true
}

// Active reports whether a transfer is pending.
func (d *DMA) Active() bool {
	return d.active
}

// Tick advances the transfer by the given number of cycles, copying
// the whole page once the countdown runs out.
func (d *DMA) Tick(cycles uint16) {
	if !d.active {
		return
	}
	if cycles < d.remaining {
		d.remaining -= cycles
		return
	}

	for i := uint16(0); i < 0xA0; i++ {
		source := d.source + i
		// the DMA can't see OAM, pages above 0xDF read from WRAM instead
		if source >= 0xE000 {
			source &^= 0x2000
		}
		d.ppu.writeOAM(i, d.bus.Read(source))
	}
	d.active = false
	d.remaining = 0
}

var _ types.Stater = (*DMA)(nil)

func (d *DMA) Load(s *types.State) {
	d.active = s.ReadBool()
	d.source = s.Read16()
	d.value = s.Read8()
	d.remaining = s.Read16()
}

func (d *DMA) Save(s *types.State) {
	s.WriteBool(d.active)
	s.Write16(d.source)
	s.Write8(d.value)
	s.Write16(d.remaining)
}
