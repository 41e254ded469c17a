package ppu

import (
	"sort"

	"github.com/thelolagemann/gomeboy-dmg/internal/ppu/palette"
)

// maxObjectsPerLine is the number of objects the OAM scan can select
// for a single line.
const maxObjectsPerLine = 10

// renderLine draws the current line into the shade buffer. It runs once
// per line, on the transition from VRAM to HBlank.
func (p *PPU) renderLine() {
	line := &p.shades[p.ly]

	if p.BackgroundEnabled {
		p.renderMap(line, p.BackgroundTileMap, p.scx, p.scy+p.ly, 0)
	} else {
		for x := range line {
			line[x] = 0
			p.bgIndex[x] = 0
		}
	}

	if p.windowVisible() {
		start := int(p.wx) - 7
		if start < 0 {
			start = 0
		}
		p.renderMap(line, p.WindowTileMap, uint8(-start), p.windowLine, start)
		p.windowLine++
	}

	if p.SpriteEnabled {
		p.renderObjects(line)
	}
}

// windowVisible reports whether the window covers any of the current
// line.
func (p *PPU) windowVisible() bool {
	return p.WindowEnabled && p.BackgroundEnabled && p.wy <= p.ly && p.wx <= 166
}

// renderMap draws a tile map from column start to the end of the line.
// scrollX is added to the screen column to find the map column, and y
// selects the map row, both wrapping around the 256x256 map.
func (p *PPU) renderMap(line *[ScreenWidth]uint8, tileMap uint16, scrollX, y uint8, start int) {
	rowOffset := tileMap - 0x8000 + uint16(y>>3)*32
	tileY := int(y & 7)

	for x := start; x < ScreenWidth; x++ {
		mapX := uint8(x) + scrollX
		index := p.vRAM[rowOffset+uint16(mapX>>3)]
		tile := &p.tiles[p.TileIndex(index)]

		colour := tile[tileY*8+int(mapX&7)]
		p.bgIndex[x] = colour
		line[x] = palette.Shade(p.bgp, colour)
	}
}

// renderObjects draws the objects on the current line. The first 10
// objects in OAM order that cover the line are selected, and where they
// overlap the one with the lowest X wins, with ties going to the one
// first in OAM.
func (p *PPU) renderObjects(line *[ScreenWidth]uint8) {
	height := int16(p.SpriteSize)
	ly := int16(p.ly)

	selected := p.lineObjects[:0]
	for i := range p.objects {
		obj := &p.objects[i]
		if obj.Y <= ly && ly < obj.Y+height {
			selected = append(selected, obj)
			if len(selected) == maxObjectsPerLine {
				break
			}
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].X < selected[j].X
	})

	for x := int16(0); x < ScreenWidth; x++ {
		for _, obj := range selected {
			if x < obj.X || x >= obj.X+8 {
				continue
			}
			colour := p.objectPixel(obj, x-obj.X, ly-obj.Y)
			if colour == 0 {
				// transparent, the next object may still draw here
				continue
			}
			if !obj.BGOver || p.bgIndex[x] == 0 {
				obp := p.obp0
				if obj.Palette == 1 {
					obp = p.obp1
				}
				line[x] = palette.Shade(obp, colour)
			}
			break
		}
	}
	p.lineObjects = selected
}

// objectPixel returns the colour index of an object at the given
// offset into it.
func (p *PPU) objectPixel(obj *Object, col, row int16) uint8 {
	if obj.FlipY {
		row = int16(p.SpriteSize) - 1 - row
	}
	if obj.FlipX {
		col = 7 - col
	}

	tile := int(obj.Tile)
	if p.SpriteSize == 16 {
		if row < 8 {
			tile &= 0xFE
		} else {
			tile |= 0x01
			row -= 8
		}
	}
	return p.tiles[tile][int(row)*8+int(col)]
}
