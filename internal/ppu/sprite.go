package ppu

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// Object is a decoded entry of OAM. The coordinates already have the
// hardware offsets of 16 and 8 removed, so they address the screen
// directly.
type Object struct {
	Y, X int16
	Tile uint8
	// Palette selects OBP0 (0) or OBP1 (1).
	Palette uint8
	FlipX   bool
	FlipY   bool
	// BGOver hides the object behind background colours 1-3.
	BGOver bool
	Index  uint8
}

// updateObject decodes the byte of the object touched by a write to OAM.
//
//	Byte 0 - Y position + 16
//	Byte 1 - X position + 8
//	Byte 2 - Tile index
//	Byte 3 - Attributes
//		Bit 7 - OBJ-to-BG priority (0=OBJ Above BG, 1=OBJ Behind BG color 1-3)
//		Bit 6 - Y flip
//		Bit 5 - X flip
//		Bit 4 - Palette number (0=OBP0, 1=OBP1)
func (p *PPU) updateObject(address uint16, value uint8) {
	index := address >> 2
	obj := &p.objects[index]
	obj.Index = uint8(index)

	switch address & 0x03 {
	case 0:
		obj.Y = int16(value) - 16
	case 1:
		obj.X = int16(value) - 8
	case 2:
		obj.Tile = value
	case 3:
		obj.BGOver = value&types.Bit7 != 0
		obj.FlipY = value&types.Bit6 != 0
		obj.FlipX = value&types.Bit5 != 0
		obj.Palette = value & types.Bit4 >> 4
	}
}
