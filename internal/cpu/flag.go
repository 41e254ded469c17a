package cpu

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// Flag is a bit of the F register.
type Flag = uint8

const (
	flagZero      Flag = types.Bit7
	flagSubtract  Flag = types.Bit6
	flagHalfCarry Flag = types.Bit5
	flagCarry     Flag = types.Bit4
)

// setFlags sets all four flags at once. The lower nibble of F
// is always cleared.
func (c *CPU) setFlags(zero, subtract, halfCarry, carry bool) {
	c.F = 0
	if zero {
		c.F |= flagZero
	}
	if subtract {
		c.F |= flagSubtract
	}
	if halfCarry {
		c.F |= flagHalfCarry
	}
	if carry {
		c.F |= flagCarry
	}
}

// clearFlag clears a flag from the F register.
func (c *CPU) clearFlag(flag Flag) {
	c.F &^= flag
}

// isFlagSet returns true if the given flag is set.
func (c *CPU) isFlagSet(flag Flag) bool {
	return c.F&flag != 0
}
