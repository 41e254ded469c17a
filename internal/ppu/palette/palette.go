// Package palette provides the colours used to turn the four DMG
// shades into RGB.
package palette

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownPalette is returned when a palette can neither be found by
// name nor parsed as a list of colours.
var ErrUnknownPalette = errors.New("palette: unknown palette")

// Palette represents a palette. A palette is an array of 4 RGB values,
// indexed by shade, from lightest (0) to darkest (3).
type Palette struct {
	Name   string
	Colors [4][3]uint8
}

var (
	// Greyscale is the default greyscale palette.
	Greyscale = Palette{
		Name: "greyscale",
		Colors: [4][3]uint8{
			{0xFF, 0xFF, 0xFF},
			{0xC0, 0xC0, 0xC0},
			{0x60, 0x60, 0x60},
			{0x00, 0x00, 0x00},
		},
	}
	// Green attempts to emulate the colours of the original
	// DMG screen.
	Green = Palette{
		Name: "green",
		Colors: [4][3]uint8{
			{0x9B, 0xBC, 0x0F},
			{0x8B, 0xAC, 0x0F},
			{0x30, 0x62, 0x30},
			{0x0F, 0x38, 0x0F},
		},
	}
	// Pocket is the palette of the Game Boy Pocket.
	Pocket = Palette{
		Name: "pocket",
		Colors: [4][3]uint8{
			{0xC4, 0xCF, 0xA1},
			{0x8B, 0x95, 0x6D},
			{0x4D, 0x53, 0x3C},
			{0x1F, 0x1F, 0x1F},
		},
	}
)

var palettes = map[string]Palette{
	Greyscale.Name: Greyscale,
	Green.Name:     Green,
	Pocket.Name:    Pocket,
}

// Names returns the names of the preset palettes, sorted.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns the preset palette with the given name.
func ByName(name string) (Palette, error) {
	p, ok := palettes[strings.ToLower(name)]
	if !ok {
		return Palette{}, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
	}
	return p, nil
}

// Parse returns the preset palette with the given name, or failing
// that, a palette built from four comma separated hex colours, e.g.
//
//	ffffff,aaaaaa,555555,000000
func Parse(s string) (Palette, error) {
	if p, err := ByName(s); err == nil {
		return p, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Palette{}, fmt.Errorf("%w: %q", ErrUnknownPalette, s)
	}
	p := Palette{Name: "custom"}
	for i, part := range parts {
		part = strings.TrimPrefix(strings.TrimSpace(part), "#")
		c, err := strconv.ParseUint(part, 16, 24)
		if err != nil || len(part) != 6 {
			return Palette{}, fmt.Errorf("%w: bad colour %q", ErrUnknownPalette, part)
		}
		p.Colors[i] = [3]uint8{uint8(c >> 16), uint8(c >> 8), uint8(c)}
	}
	return p, nil
}

// Colour returns the RGB colour of the given shade.
func (p Palette) Colour(shade uint8) [3]uint8 {
	return p.Colors[shade&0x03]
}

// Shade maps a colour index through a DMG palette register
// (BGP, OBP0 or OBP1) to a shade.
func Shade(register uint8, index uint8) uint8 {
	return register >> (index * 2) & 0x03
}
