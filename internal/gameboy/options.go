package gameboy

import (
	"io"

	"github.com/thelolagemann/gomeboy-dmg/internal/boot"
	"github.com/thelolagemann/gomeboy-dmg/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

// Opt is a function that modifies a GameBoy
// instance.
type Opt func(gb *GameBoy)

// Debug enables the LD B, B software breakpoint.
func Debug() Opt {
	return func(gb *GameBoy) {
		gb.debug = true
	}
}

func WithLogger(log log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Logger = log
	}
}

// WithBootROM sets the boot ROM for the emulator. Without one, the
// emulator starts at 0x0100 with the registers set to the values
// upon completion of the boot ROM.
func WithBootROM(rom *boot.ROM) Opt {
	return func(gb *GameBoy) {
		gb.bootROM = rom
	}
}

// WithPalette sets the colours the frame buffer is drawn with.
func WithPalette(p palette.Palette) Opt {
	return func(gb *GameBoy) {
		gb.palette = p
	}
}

// WithSerialWriter forwards every byte sent over the serial port
// to w.
func WithSerialWriter(w io.Writer) Opt {
	return func(gb *GameBoy) {
		gb.serialOut = w
	}
}

// Speed sets the speed multiplier Start runs at.
func Speed(speed float64) Opt {
	return func(gb *GameBoy) {
		if speed > 0 {
			gb.speed = speed
		}
	}
}
