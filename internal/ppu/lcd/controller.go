// Package lcd provides the LCD control and status registers of
// the PPU.
package lcd

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// Controller is the LCD controller. It is responsible for controlling various
// aspects of the LCD, such as enabling the background and window display.
//
// Its value is stored in the LCD Control Register (0xFF40) as follows:
//
//	Bit 7 - LCD Enable                     (0=Off, 1=On)
//	Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 5 - Window Display Enable          (0=Off, 1=On)
//	Bit 4 - BG & Window Tile Data Select   (0=8800-97FF, 1=8000-8FFF)
//	Bit 3 - BG Tile Map Display Select     (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 2 - OBJ (Sprite) Size              (0=8x8, 1=8x16)
//	Bit 1 - OBJ (Sprite) Display Enable    (0=Off, 1=On)
//	Bit 0 - BG/Window Display              (0=Off, 1=On)
type Controller struct {
	// Enabled is the LCD Enable bit. When cleared the PPU stops and LY
	// reads 0.
	Enabled bool
	// WindowTileMap is the start address of the tile map used by the
	// window, either 0x9800 or 0x9C00.
	WindowTileMap uint16
	// WindowEnabled is the Window Display Enable bit.
	WindowEnabled bool
	// UnsignedTileData is the BG & Window Tile Data Select bit. When set,
	// tile indices address 0x8000-0x8FFF, otherwise they are signed
	// offsets from 0x9000.
	UnsignedTileData bool
	// BackgroundTileMap is the start address of the tile map used by the
	// background, either 0x9800 or 0x9C00.
	BackgroundTileMap uint16
	// SpriteSize is the height of a sprite in pixels, 8 or 16.
	SpriteSize uint8
	// SpriteEnabled is the OBJ Display Enable bit.
	SpriteEnabled bool
	// BackgroundEnabled is the BG/Window Display bit. On the DMG clearing it
	// blanks both the background and the window.
	BackgroundEnabled bool
}

// NewController returns a new LCD controller, in the state of a
// zero write to LCDC.
func NewController() *Controller {
	c := &Controller{}
	c.Write(0)
	return c
}

// Write decodes the value of the LCDC register.
func (c *Controller) Write(value uint8) {
	c.Enabled = value&types.Bit7 != 0
	c.WindowTileMap = tileMap(value&types.Bit6 != 0)
	c.WindowEnabled = value&types.Bit5 != 0
	c.UnsignedTileData = value&types.Bit4 != 0
	c.BackgroundTileMap = tileMap(value&types.Bit3 != 0)
	c.SpriteSize = 8
	if value&types.Bit2 != 0 {
		c.SpriteSize = 16
	}
	c.SpriteEnabled = value&types.Bit1 != 0
	c.BackgroundEnabled = value&types.Bit0 != 0
}

// Read encodes the controller back into the LCDC register.
func (c *Controller) Read() uint8 {
	var value uint8
	if c.Enabled {
		value |= types.Bit7
	}
	if c.WindowTileMap == 0x9C00 {
		value |= types.Bit6
	}
	if c.WindowEnabled {
		value |= types.Bit5
	}
	if c.UnsignedTileData {
		value |= types.Bit4
	}
	if c.BackgroundTileMap == 0x9C00 {
		value |= types.Bit3
	}
	if c.SpriteSize == 16 {
		value |= types.Bit2
	}
	if c.SpriteEnabled {
		value |= types.Bit1
	}
	if c.BackgroundEnabled {
		value |= types.Bit0
	}
	return value
}

// TileIndex converts an index read from a tile map into an index into
// the 384 tile cache. In signed mode indices 0-127 address the tiles
// at 0x9000-0x97FF, which sit at 256-383 in the cache.
func (c *Controller) TileIndex(index uint8) int {
	if !c.UnsignedTileData && index < 128 {
		return int(index) + 256
	}
	return int(index)
}

func tileMap(high bool) uint16 {
	if high {
		return 0x9C00
	}
	return 0x9800
}
