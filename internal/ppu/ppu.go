// Package ppu provides the (P)ixel (P)rocessing (U)nit of the DMG. It
// owns VRAM and OAM, steps the scanline state machine and renders each
// line into a buffer of shades, which is turned into RGB on demand.
//
// References:
//   - [Pan Docs](https://gbdev.io/pandocs/Graphics.html)
//   - [Hacktix GBEDG](https://hacktix.github.io/GBEDG/ppu/)
package ppu

import (
	"github.com/thelolagemann/gomeboy-dmg/internal/interrupts"
	"github.com/thelolagemann/gomeboy-dmg/internal/ppu/lcd"
	"github.com/thelolagemann/gomeboy-dmg/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

const (
	// ScreenWidth is the width of the screen in pixels.
	ScreenWidth = 160
	// ScreenHeight is the height of the screen in pixels.
	ScreenHeight = 144

	// LineDots is the number of dots in a single line.
	LineDots = 456
	// Lines is the number of lines in a frame, including VBlank.
	Lines = 154
	// FrameDots is the number of dots in a single frame.
	FrameDots = LineDots * Lines

	// TileCount is the number of tiles in the tile data area.
	TileCount = 384
	// ObjectCount is the number of objects in OAM.
	ObjectCount = 40
)

// PPU implements the Game Boy's (P)ixel (P)rocessing (U)nit.
type PPU struct {
	*lcd.Controller
	*lcd.Status

	vRAM [0x2000]uint8
	oam  [0xA0]uint8

	tiles       [TileCount]Tile
	objects     [ObjectCount]Object
	lineObjects []*Object

	scy, scx uint8
	ly, lyc  uint8
	wy, wx   uint8

	bgp, obp0, obp1 uint8

	dot        uint16
	windowLine uint8
	statLine   bool
	frame      uint16

	shades  [ScreenHeight][ScreenWidth]uint8
	bgIndex [ScreenWidth]uint8

	palette  palette.Palette
	rgb      []byte
	rgbFrame uint16
	rgbValid bool

	irq *interrupts.Service
	log log.Logger
}

// New returns a new PPU that requests its interrupts through irq.
func New(irq *interrupts.Service, l log.Logger) *PPU {
	p := &PPU{
		Controller:  lcd.NewController(),
		Status:      lcd.NewStatus(),
		lineObjects: make([]*Object, 0, maxObjectsPerLine),
		palette:     palette.Greyscale,
		rgb:         make([]byte, ScreenWidth*ScreenHeight*3),
		irq:         irq,
		log:         l,
	}
	p.Reset()
	return p
}

// Reset returns the PPU to its power on state, with the LCD off and
// VRAM and OAM cleared.
func (p *PPU) Reset() {
	p.Controller.Write(0)
	p.Status.Write(0)
	p.Status.Mode = lcd.HBlank
	p.Status.Coincidence = false

	p.vRAM = [0x2000]uint8{}
	p.oam = [0xA0]uint8{}
	p.tiles = [TileCount]Tile{}
	p.objects = [ObjectCount]Object{}
	for i := range p.objects {
		p.objects[i] = Object{Y: -16, X: -8, Index: uint8(i)}
	}

	p.scy, p.scx, p.ly, p.lyc, p.wy, p.wx = 0, 0, 0, 0, 0, 0
	p.bgp, p.obp0, p.obp1 = 0, 0, 0

	p.dot = 0
	p.windowLine = 0
	p.statLine = false
	p.frame = 0

	p.shades = [ScreenHeight][ScreenWidth]uint8{}
	p.rgbValid = false
}

// SetPalette sets the colours used to build the frame buffer.
func (p *PPU) SetPalette(pal palette.Palette) {
	p.palette = pal
	p.rgbValid = false
}

// Frame returns the index of the last completed frame. It is
// incremented every time the PPU enters VBlank, and wraps.
func (p *PPU) Frame() uint16 {
	return p.frame
}

// LY returns the line currently being drawn.
func (p *PPU) LY() uint8 {
	return p.ly
}

// Dot returns the number of dots spent in the current mode.
func (p *PPU) Dot() uint16 {
	return p.dot
}

// Shade returns the shade (0-3) of the pixel at x, y.
func (p *PPU) Shade(x, y int) uint8 {
	return p.shades[y][x]
}

// Tile returns the decoded tile at the given index of the tile cache.
func (p *PPU) Tile(index int) Tile {
	return p.tiles[index]
}

// Object returns the decoded object at the given index of OAM.
func (p *PPU) Object(index int) Object {
	return p.objects[index]
}

// FrameBuffer returns the last rendered frame as RGB24, 3 bytes per
// pixel, row by row. The buffer is only rebuilt when the frame index
// has moved on since the last call, and is reused between calls.
func (p *PPU) FrameBuffer() []byte {
	if p.rgbValid && p.rgbFrame == p.frame {
		return p.rgb
	}

	i := 0
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			c := p.palette.Colour(p.shades[y][x])
			p.rgb[i], p.rgb[i+1], p.rgb[i+2] = c[0], c[1], c[2]
			i += 3
		}
	}
	p.rgbFrame, p.rgbValid = p.frame, true
	return p.rgb
}

// Tick advances the PPU by the given number of dots, stepping through
// as many mode transitions as they cover.
//
//	OAM (80) -> VRAM (172) -> HBlank (204)   lines 0-143
//	VBlank (456)                             lines 144-153
func (p *PPU) Tick(cycles uint16) {
	if !p.Enabled {
		return
	}

	p.dot += cycles
	for p.dot >= p.Mode.Duration() {
		p.dot -= p.Mode.Duration()

		switch p.Mode {
		case lcd.OAM:
			p.setMode(lcd.VRAM)
		case lcd.VRAM:
			p.renderLine()
			p.setMode(lcd.HBlank)
		case lcd.HBlank:
			p.setLY(p.ly + 1)
			if p.ly == ScreenHeight {
				p.setMode(lcd.VBlank)
				p.irq.Request(interrupts.VBlankFlag)
				p.frame++
			} else {
				p.setMode(lcd.OAM)
			}
		case lcd.VBlank:
			if p.ly == Lines-1 {
				p.windowLine = 0
				p.setLY(0)
				p.setMode(lcd.OAM)
			} else {
				p.setLY(p.ly + 1)
			}
		}
	}
}

func (p *PPU) setMode(mode lcd.Mode) {
	p.Mode = mode
	p.updateStat()
}

func (p *PPU) setLY(ly uint8) {
	p.ly = ly
	p.Coincidence = p.ly == p.lyc
	p.updateStat()
}

// updateStat recomputes the STAT interrupt line, requesting the
// interrupt on a rising edge.
func (p *PPU) updateStat() {
	line := p.Enabled && p.Status.Line()
	if line && !p.statLine {
		p.irq.Request(interrupts.LCDFlag)
	}
	p.statLine = line
}

// writeLCDC handles a write to LCDC, starting or stopping the PPU when
// bit 7 changes.
func (p *PPU) writeLCDC(value uint8) {
	wasEnabled := p.Enabled
	p.Controller.Write(value)

	switch {
	case wasEnabled && !p.Enabled:
		if p.Mode != lcd.VBlank {
			p.log.Debugf("ppu: LCD turned off outside of VBlank on line %d", p.ly)
		}
		p.Mode = lcd.HBlank
		p.dot = 0
		p.ly = 0
		p.Coincidence = p.lyc == 0
		p.statLine = false
		p.windowLine = 0
	case !wasEnabled && p.Enabled:
		p.dot = 0
		p.setLY(0)
		p.setMode(lcd.OAM)
	}
}

// Read returns the value of VRAM, OAM or one of the LCD registers.
func (p *PPU) Read(address uint16) uint8 {
	switch {
	case address >= 0x8000 && address <= 0x9FFF:
		return p.vRAM[address&0x1FFF]
	case address >= 0xFE00 && address <= 0xFE9F:
		return p.oam[address&0xFF]
	}

	switch address {
	case types.LCDC:
		return p.Controller.Read()
	case types.STAT:
		return p.Status.Read()
	case types.SCY:
		return p.scy
	case types.SCX:
		return p.scx
	case types.LY:
		return p.ly
	case types.LYC:
		return p.lyc
	case types.BGP:
		return p.bgp
	case types.OBP0:
		return p.obp0
	case types.OBP1:
		return p.obp1
	case types.WY:
		return p.wy
	case types.WX:
		return p.wx
	}

	p.log.Debugf("ppu: read from unknown address %04X", address)
	return 0xFF
}

// Write updates VRAM, OAM or one of the LCD registers, keeping the tile
// and object caches in step.
func (p *PPU) Write(address uint16, value uint8) {
	switch {
	case address >= 0x8000 && address <= 0x9FFF:
		p.vRAM[address&0x1FFF] = value
		if address < 0x9800 {
			p.updateTile(address)
		}
		return
	case address >= 0xFE00 && address <= 0xFE9F:
		p.writeOAM(address&0xFF, value)
		return
	}

	switch address {
	case types.LCDC:
		p.writeLCDC(value)
	case types.STAT:
		p.Status.Write(value)
		p.updateStat()
	case types.SCY:
		p.scy = value
	case types.SCX:
		p.scx = value
	case types.LY:
		// read only
	case types.LYC:
		p.lyc = value
		p.Coincidence = p.ly == p.lyc
		p.updateStat()
	case types.BGP:
		p.bgp = value
	case types.OBP0:
		p.obp0 = value
	case types.OBP1:
		p.obp1 = value
	case types.WY:
		p.wy = value
	case types.WX:
		p.wx = value
	default:
		p.log.Debugf("ppu: write %02X to unknown address %04X", value, address)
	}
}

func (p *PPU) writeOAM(offset uint16, value uint8) {
	p.oam[offset] = value
	p.updateObject(offset, value)
}

var _ types.Stater = (*PPU)(nil)

// Load restores the PPU, rebuilding the tile and object caches
// from VRAM and OAM.
func (p *PPU) Load(s *types.State) {
	p.Controller.Write(s.Read8())
	p.Status.Write(s.Read8())
	p.Mode = lcd.Mode(s.Read8())
	p.scy, p.scx = s.Read8(), s.Read8()
	p.ly, p.lyc = s.Read8(), s.Read8()
	p.wy, p.wx = s.Read8(), s.Read8()
	p.bgp, p.obp0, p.obp1 = s.Read8(), s.Read8(), s.Read8()
	p.dot = s.Read16()
	p.windowLine = s.Read8()
	p.statLine = s.ReadBool()
	p.frame = s.Read16()
	p.Coincidence = p.ly == p.lyc

	s.ReadData(p.vRAM[:])
	s.ReadData(p.oam[:])
	for y := range p.shades {
		s.ReadData(p.shades[y][:])
	}

	for addr := uint16(0x8000); addr < 0x9800; addr += 2 {
		p.updateTile(addr)
	}
	for i, v := range p.oam {
		p.updateObject(uint16(i), v)
	}
	p.rgbValid = false
}

func (p *PPU) Save(s *types.State) {
	s.Write8(p.Controller.Read())
	s.Write8(p.Status.Read())
	s.Write8(uint8(p.Mode))
	s.Write8(p.scy)
	s.Write8(p.scx)
	s.Write8(p.ly)
	s.Write8(p.lyc)
	s.Write8(p.wy)
	s.Write8(p.wx)
	s.Write8(p.bgp)
	s.Write8(p.obp0)
	s.Write8(p.obp1)
	s.Write16(p.dot)
	s.Write8(p.windowLine)
	s.WriteBool(p.statLine)
	s.Write16(p.frame)

	s.WriteData(p.vRAM[:])
	s.WriteData(p.oam[:])
	for y := range p.shades {
		s.WriteData(p.shades[y][:])
	}
}
