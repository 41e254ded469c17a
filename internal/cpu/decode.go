package cpu

// decode executes a single opcode, with PC already past it. It
// returns true when a conditional instruction took its branch,
// so that the extra cycles can be accounted for.
//
// Opcodes that can't be decoded from their bit pattern are
// handled first, the rest are decoded as
//
//	00 000 000
//	^^ ^^^ ^^^
//	op dst src
func (c *CPU) decode(instr uint8) bool {
	switch instr {
	case 0x00: // NOP
	case 0x07: // RLCA
		c.A = c.rotateLeftCarry(c.A)
		c.clearFlag(flagZero)
	case 0x08: // LD (a16), SP
		address := c.fetch16()
		c.b.Write(address, uint8(c.SP))
		c.b.Write(address+1, uint8(c.SP>>8))
	case 0x0F: // RRCA
		c.A = c.rotateRightCarry(c.A)
		c.clearFlag(flagZero)
	case 0x10: // STOP
		c.fetch()
		c.mode = ModeStop
	case 0x17: // RLA
		c.A = c.rotateLeftThroughCarry(c.A)
		c.clearFlag(flagZero)
	case 0x18: // JR s8
		return c.jumpRelative(true)
	case 0x1F: // RRA
		c.A = c.rotateRightThroughCarry(c.A)
		c.clearFlag(flagZero)
	case 0x27: // DAA
		c.daa()
	case 0x2F: // CPL
		c.A = ^c.A
		c.setFlags(c.isFlagSet(flagZero), true, true, c.isFlagSet(flagCarry))
	case 0x37: // SCF
		c.setFlags(c.isFlagSet(flagZero), false, false, true)
	case 0x3F: // CCF
		c.setFlags(c.isFlagSet(flagZero), false, false, !c.isFlagSet(flagCarry))
	case 0x40: // LD B, B
		if c.Debug {
			c.DebugBreakpoint = true
		}
	case 0x76: // HALT
		c.halt()
	case 0xC3: // JP a16
		return c.jumpAbsolute(true)
	case 0xC9: // RET
		return c.ret(true)
	case 0xCD: // CALL a16
		return c.call(true)
	case 0xD9: // RETI
		c.irq.IME = true
		c.eiDelay = 0
		return c.ret(true)
	case 0xE0: // LDH (a8), A
		c.b.Write(0xFF00+uint16(c.fetch()), c.A)
	case 0xE2: // LD (C), A
		c.b.Write(0xFF00+uint16(c.C), c.A)
	case 0xE8: // ADD SP, s8
		c.SP = c.addSPSigned()
	case 0xE9: // JP HL
		c.PC = c.HL.Uint16()
	case 0xEA: // LD (a16), A
		c.b.Write(c.fetch16(), c.A)
	case 0xF0: // LDH A, (a8)
		c.A = c.b.Read(0xFF00 + uint16(c.fetch()))
	case 0xF2: // LD A, (C)
		c.A = c.b.Read(0xFF00 + uint16(c.C))
	case 0xF3: // DI
		c.irq.IME = false
		c.eiDelay = 0
	case 0xF8: // LD HL, SP+s8
		c.HL.SetUint16(c.addSPSigned())
	case 0xF9: // LD SP, HL
		c.SP = c.HL.Uint16()
	case 0xFA: // LD A, (a16)
		c.A = c.b.Read(c.fetch16())
	case 0xFB: // EI
		// IME is set after the instruction following EI
		if !c.irq.IME && c.eiDelay == 0 {
			c.eiDelay = 2
		}
	default:
		switch instr >> 6 {
		case 0: // 0x00 - 0x3F
			switch instr & 0x7 {
			case 0: // JR cc, s8
				return c.jumpRelative(c.condition(instr))
			case 1:
				if instr&0x08 != 0 { // ADD HL, nn
					c.addHL(c.registerPair(instr >> 4))
				} else { // LD nn, d16
					c.setRegisterPair(instr>>4, c.fetch16())
				}
			case 2:
				address := c.indirectAddress(instr)
				if instr&0x08 != 0 { // LD A, (nn)
					c.A = c.b.Read(address)
				} else { // LD (nn), A
					c.b.Write(address, c.A)
				}
			case 3: // INC/DEC nn
				if instr&0x08 != 0 {
					c.setRegisterPair(instr>>4, c.registerPair(instr>>4)-1)
				} else {
					c.setRegisterPair(instr>>4, c.registerPair(instr>>4)+1)
				}
			case 4: // INC n
				c.writeRegister(instr>>3, c.increment(c.readRegister(instr>>3)))
			case 5: // DEC n
				c.writeRegister(instr>>3, c.decrement(c.readRegister(instr>>3)))
			case 6: // LD n, d8
				c.writeRegister(instr>>3, c.fetch())
			}
		case 1: // 0x40 - 0x7F LD n, n
			c.writeRegister(instr>>3, c.readRegister(instr))
		case 2: // 0x80 - 0xBF ALU A, n
			c.decodeALU(instr, c.readRegister(instr))
		case 3: // 0xC0 - 0xFF
			switch instr & 0x7 {
			case 0: // RET cc
				return c.ret(c.condition(instr))
			case 1: // POP nn
				value := c.pop()
				switch instr >> 4 & 0x3 {
				case 0:
					c.BC.SetUint16(value)
				case 1:
					c.DE.SetUint16(value)
				case 2:
					c.HL.SetUint16(value)
				case 3:
					c.AF.SetUint16(value & 0xFFF0) // the lower nibble of F is always 0
				}
			case 2: // JP cc, a16
				return c.jumpAbsolute(c.condition(instr))
			case 4: // CALL cc, a16
				return c.call(c.condition(instr))
			case 5: // PUSH nn
				var value uint16
				switch instr >> 4 & 0x3 {
				case 0:
					value = c.BC.Uint16()
				case 1:
					value = c.DE.Uint16()
				case 2:
					value = c.HL.Uint16()
				case 3:
					value = c.AF.Uint16()
				}
				c.push(uint8(value>>8), uint8(value))
			case 6: // ALU A, d8
				c.decodeALU(instr, c.fetch())
			case 7: // RST
				c.restart(uint16(instr & 0x38))
			}
		}
	}

	return false
}

// decodeCB decodes a CB-prefixed instruction.
//
//	00 000 000
//	^^ ^^^ ^^^
//	op bit reg
func (c *CPU) decodeCB(instr uint8) {
	reg := instr & 0x7
	bit := instr >> 3 & 0x7
	value := c.readRegister(reg)

	switch instr >> 6 {
	case 0:
		switch bit {
		case 0:
			value = c.rotateLeftCarry(value)
		case 1:
			value = c.rotateRightCarry(value)
		case 2:
			value = c.rotateLeftThroughCarry(value)
		case 3:
			value = c.rotateRightThroughCarry(value)
		case 4:
			value = c.shiftLeftArithmetic(value)
		case 5:
			value = c.shiftRightArithmetic(value)
		case 6:
			value = c.swap(value)
		case 7:
			value = c.shiftRightLogical(value)
		}
	case 1: // BIT
		c.testBit(value, bit)
		return // BIT doesn't write back
	case 2: // RES
		value &^= 1 << bit
	case 3: // SET
		value |= 1 << bit
	}

	c.writeRegister(reg, value)
}

// decodeALU performs one of the 8 ALU operations on the A
// register, selected by bits 3-5 of the instruction.
func (c *CPU) decodeALU(instr, n uint8) {
	switch instr >> 3 & 0x7 {
	case 0: // ADD
		c.add(n, false)
	case 1: // ADC
		c.add(n, true)
	case 2: // SUB
		c.sub(n, false)
	case 3: // SBC
		c.sub(n, true)
	case 4: // AND
		c.and(n)
	case 5: // XOR
		c.xor(n)
	case 6: // OR
		c.or(n)
	case 7: // CP
		c.compare(n)
	}
}

// readRegister returns the value of the register selected by the
// lower 3 bits of reg, reading the bus for (HL).
func (c *CPU) readRegister(reg uint8) uint8 {
	reg &= 0x7
	if reg == 6 {
		return c.b.Read(c.HL.Uint16())
	}
	return *c.registerPointers[reg]
}

// writeRegister sets the register selected by the lower 3 bits of
// reg, writing the bus for (HL).
func (c *CPU) writeRegister(reg, value uint8) {
	reg &= 0x7
	if reg == 6 {
		c.b.Write(c.HL.Uint16(), value)
		return
	}
	*c.registerPointers[reg] = value
}

// registerPair returns the value of BC, DE, HL or SP, selected by
// the lower 2 bits of index.
func (c *CPU) registerPair(index uint8) uint16 {
	switch index & 0x3 {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.HL.Uint16()
	default:
		return c.SP
	}
}

// setRegisterPair sets BC, DE, HL or SP, selected by the lower 2
// bits of index.
func (c *CPU) setRegisterPair(index uint8, value uint16) {
	switch index & 0x3 {
	case 0:
		c.BC.SetUint16(value)
	case 1:
		c.DE.SetUint16(value)
	case 2:
		c.HL.SetUint16(value)
	default:
		c.SP = value
	}
}

// indirectAddress returns the address of the (BC), (DE), (HL+) and
// (HL-) operands, incrementing or decrementing HL as needed.
func (c *CPU) indirectAddress(instr uint8) uint16 {
	switch instr >> 4 & 0x3 {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		hl := c.HL.Uint16()
		c.HL.SetUint16(hl + 1)
		return hl
	default:
		hl := c.HL.Uint16()
		c.HL.SetUint16(hl - 1)
		return hl
	}
}

// condition returns the state of the NZ, Z, NC or C condition
// selected by bits 3-4 of the instruction.
func (c *CPU) condition(instr uint8) bool {
	switch instr >> 3 & 0x3 {
	case 0:
		return !c.isFlagSet(flagZero)
	case 1:
		return c.isFlagSet(flagZero)
	case 2:
		return !c.isFlagSet(flagCarry)
	default:
		return c.isFlagSet(flagCarry)
	}
}
