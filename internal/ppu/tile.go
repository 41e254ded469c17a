package ppu

// Tile represents a tile. Each tile has a size of 8x8 pixels and a color
// depth of 4 colors/gray shades. Tiles can be displayed as sprites or as
// background/window tiles. Pixels are stored row by row as colour
// indices 0-3.
type Tile [64]uint8

// Row returns the 8 colour indices of the given row.
func (t *Tile) Row(y int) []uint8 {
	return t[y*8 : y*8+8]
}

// updateTile decodes the row of the tile touched by a write to the
// tile data area (0x8000-0x97FF). Each row is stored as two bytes, the
// first holding the low bit of every pixel and the second the high bit.
func (p *PPU) updateTile(address uint16) {
	offset := address & 0x1FFE
	tile := &p.tiles[offset>>4]
	y := int(offset>>1) & 0x07

	lo, hi := p.vRAM[offset], p.vRAM[offset+1]
	for x := 0; x < 8; x++ {
		mask := uint8(1) << (7 - x)
		var index uint8
		if lo&mask != 0 {
			index |= 0x01
		}
		if hi&mask != 0 {
			index |= 0x02
		}
		tile[y*8+x] = index
	}
}
