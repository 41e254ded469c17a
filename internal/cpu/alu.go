package cpu

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// and, or and xor apply their operation to A and n, leaving the
// result in A. Z is set from the result, N and C are reset, and H is
// set by AND alone.
func (c *CPU) and(n uint8) {
	c.A &= n
	c.setFlags(c.A == 0, false, true, false)
}

func (c *CPU) or(n uint8) {
	c.A |= n
	c.setFlags(c.A == 0, false, false, false)
}

func (c *CPU) xor(n uint8) {
	c.A ^= n
	c.setFlags(c.A == 0, false, false, false)
}

// compare compares n to the A Register.
//
//	CP n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if borrow.
func (c *CPU) compare(n uint8) {
	c.setFlags(c.A == n, true, n&0x0F > c.A&0x0F, n > c.A)
}

// add is a helper function for adding two bytes together and
// setting the flags accordingly.
//
// Used by:
//
//	ADD A, n
//	ADC A, n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) add(n uint8, shouldCarry bool) {
	var carry uint16
	if shouldCarry && c.isFlagSet(flagCarry) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(n) + carry
	half := uint16(c.A&0xF) + uint16(n&0xF) + carry
	c.setFlags(uint8(sum) == 0, false, half > 0xF, sum > 0xFF)
	c.A = uint8(sum)
}

// sub is a helper function for subtracting two bytes and
// setting the flags accordingly.
//
// Used by:
//
//	SUB A, n
//	SBC A, n
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if borrow.
func (c *CPU) sub(n uint8, shouldCarry bool) {
	var carry int16
	if shouldCarry && c.isFlagSet(flagCarry) {
		carry = 1
	}
	diff := int16(c.A) - int16(n) - carry
	half := int16(c.A&0xF) - int16(n&0xF) - carry
	c.setFlags(uint8(diff) == 0, true, half < 0, diff < 0)
	c.A = uint8(diff)
}

// increment n by 1 and set the flags accordingly.
//
//	INC n
//	n = 8-bit value
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from lower nibble.
//	C - Not affected.
func (c *CPU) increment(n uint8) uint8 {
	incremented := n + 1
	c.setFlags(incremented == 0, false, n&0xF == 0xF, c.isFlagSet(flagCarry))
	return incremented
}

// decrement n by 1 and set the flags accordingly.
//
//	DEC n
//	n = 8-bit value
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Not affected.
func (c *CPU) decrement(n uint8) uint8 {
	decremented := n - 1
	c.setFlags(decremented == 0, true, n&0xF == 0x0, c.isFlagSet(flagCarry))
	return decremented
}

// addHL adds the given value to the HL RegisterPair.
//
//	ADD HL, nn
//	nn = BC, DE, HL, SP
//
// Flags affected:
//
//	Z - Not affected.
//	N - Reset.
//	H - Set if carry from bit 11.
//	C - Set if carry from bit 15.
func (c *CPU) addHL(n uint16) {
	hl := c.HL.Uint16()
	sum := uint32(hl) + uint32(n)
	c.setFlags(c.isFlagSet(flagZero), false, (hl&0xFFF)+(n&0xFFF) > 0xFFF, sum > 0xFFFF)
	c.HL.SetUint16(uint16(sum))
}

// addSPSigned adds the next signed operand to SP, returning the
// result without storing it.
//
//	ADD SP, e8
//	LD HL, SP+e8
//
// Flags affected:
//
//	Z - Reset.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) addSPSigned() uint16 {
	value := c.fetch()
	result := uint16(int32(c.SP) + int32(int8(value)))

	carries := c.SP ^ uint16(int8(value)) ^ result
	c.setFlags(false, false, carries&0x10 == 0x10, carries&0x100 == 0x100)

	return result
}

// daa adjusts the A Register to a binary coded decimal, after
// an addition or subtraction of two BCD numbers.
//
//	DAA
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Not affected.
//	H - Reset.
//	C - Set or reset according to operation.
func (c *CPU) daa() {
	carry := c.isFlagSet(flagCarry)
	if !c.isFlagSet(flagSubtract) {
		if carry || c.A > 0x99 {
			c.A += 0x60
			carry = true
		}
		if c.isFlagSet(flagHalfCarry) || c.A&0xF > 0x9 {
			c.A += 0x06
		}
	} else {
		if carry {
			c.A -= 0x60
		}
		if c.isFlagSet(flagHalfCarry) {
			c.A -= 0x06
		}
	}
	c.setFlags(c.A == 0, c.isFlagSet(flagSubtract), false, carry)
}

// The rotates and shifts of the CB table (RLC, RRC, RL, RR, SLA, SRA,
// SRL and SWAP) all set Z from the result, reset N and H, and put the
// bit shifted out in C. SWAP resets C.

func (c *CPU) rotateLeftCarry(n uint8) uint8 {
	out := n<<1 | n>>7
	c.setFlags(out == 0, false, false, n&types.Bit7 != 0)
	return out
}

func (c *CPU) rotateRightCarry(n uint8) uint8 {
	out := n>>1 | n<<7
	c.setFlags(out == 0, false, false, n&types.Bit0 != 0)
	return out
}

// rotateLeftThroughCarry rotates the old carry into bit 0.
func (c *CPU) rotateLeftThroughCarry(n uint8) uint8 {
	out := n << 1
	if c.isFlagSet(flagCarry) {
		out |= types.Bit0
	}
	c.setFlags(out == 0, false, false, n&types.Bit7 != 0)
	return out
}

// rotateRightThroughCarry rotates the old carry into bit 7.
func (c *CPU) rotateRightThroughCarry(n uint8) uint8 {
	out := n >> 1
	if c.isFlagSet(flagCarry) {
		out |= types.Bit7
	}
	c.setFlags(out == 0, false, false, n&types.Bit0 != 0)
	return out
}

func (c *CPU) shiftLeftArithmetic(n uint8) uint8 {
	out := n << 1
	c.setFlags(out == 0, false, false, n&types.Bit7 != 0)
	return out
}

// shiftRightArithmetic keeps bit 7, preserving the sign.
func (c *CPU) shiftRightArithmetic(n uint8) uint8 {
	out := n>>1 | n&types.Bit7
	c.setFlags(out == 0, false, false, n&types.Bit0 != 0)
	return out
}

func (c *CPU) shiftRightLogical(n uint8) uint8 {
	out := n >> 1
	c.setFlags(out == 0, false, false, n&types.Bit0 != 0)
	return out
}

func (c *CPU) swap(n uint8) uint8 {
	out := n<<4 | n>>4
	c.setFlags(out == 0, false, false, false)
	return out
}

// testBit tests the bit at the given position in n.
//
//	BIT b, r
//	b = 0-7
//	r = A, B, C, D, E, H, L, (HL)
//
// Flags affected:
//
//	Z - Set if bit b of n is 0.
//	N - Reset.
//	H - Set.
//	C - Not affected.
func (c *CPU) testBit(n uint8, bit uint8) {
	c.setFlags(n&(1<<bit) == 0, false, true, c.isFlagSet(flagCarry))
}
