package cpu

// push pushes the two bytes onto the stack, high byte first.
func (c *CPU) push(high, low uint8) {
	c.SP--
	c.b.Write(c.SP, high)
	c.SP--
	c.b.Write(c.SP, low)
}

// pop pops a 16-bit value off the stack.
func (c *CPU) pop() uint16 {
	low := uint16(c.b.Read(c.SP))
	c.SP++
	high := uint16(c.b.Read(c.SP))
	c.SP++
	return high<<8 | low
}

// call pushes the address of the next instruction onto the stack and jumps to
// the address operand, if the condition is true. The operand is always read.
//
//	CALL nn
//	CALL cc, nn
//	cc = NZ, Z, NC, C
func (c *CPU) call(condition bool) bool {
	address := c.fetch16()
	if condition {
		c.push(uint8(c.PC>>8), uint8(c.PC))
		c.PC = address
	}
	return condition
}

// ret pops the return address off the stack, if the condition
// is true.
//
//	RET
//	RET cc
//	cc = NZ, Z, NC, C
func (c *CPU) ret(condition bool) bool {
	if condition {
		c.PC = c.pop()
	}
	return condition
}

// jumpAbsolute jumps to the address operand if the condition is true.
//
//	JP nn
//	JP cc, nn
//	cc = NZ, Z, NC, C
func (c *CPU) jumpAbsolute(condition bool) bool {
	address := c.fetch16()
	if condition {
		c.PC = address
	}
	return condition
}

// jumpRelative jumps by the signed operand if the condition is true.
//
//	JR e
//	JR cc, e
//	cc = NZ, Z, NC, C
func (c *CPU) jumpRelative(condition bool) bool {
	offset := int8(c.fetch())
	if condition {
		c.PC = uint16(int32(c.PC) + int32(offset))
	}
	return condition
}

// restart pushes PC and jumps to one of the 8 fixed vectors.
//
//	RST n
//	n = 0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38
func (c *CPU) restart(vector uint16) {
	c.push(uint8(c.PC>>8), uint8(c.PC))
	c.PC = vector
}
