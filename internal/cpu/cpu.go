// Package cpu provides an implementation of the Sharp SM83, the CPU of
// the Game Boy. The CPU executes one instruction (or services one
// interrupt) per Step, and reports how many cycles that took, leaving
// it to the caller to advance the rest of the hardware.
package cpu

import (
	"errors"
	"fmt"

	"github.com/thelolagemann/gomeboy-dmg/internal/interrupts"
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
)

const (
	// ClockSpeed is the clock speed of the CPU.
	ClockSpeed = 4194304
)

// ErrIllegalOpcode is the panic value used when the CPU fetches
// one of the 11 opcodes that don't exist on the SM83.
var ErrIllegalOpcode = errors.New("cpu: illegal opcode")

// Bus is the memory the CPU reads and writes.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

type mode = uint8

const (
	// ModeNormal is the normal CPU mode.
	ModeNormal mode = iota
	// ModeHalt is entered by HALT and left once an interrupt
	// is pending.
	ModeHalt
	// ModeStop is entered by STOP and left once a button
	// is pressed.
	ModeStop
)

// CPU represents the Gameboy CPU. It is responsible for executing instructions.
type CPU struct {
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16
	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
	// Registers contains the 8-bit registers, as well as the 16-bit register pairs.
	Registers

	b   Bus
	irq *interrupts.Service

	mode mode
	// haltBug is set when HALT was executed with IME clear and an
	// interrupt pending, the next fetch won't increment PC.
	haltBug bool
	// eiDelay counts down the instructions until IME is set by EI.
	eiDelay uint8

	// Debug enables the LD B, B software breakpoint.
	Debug           bool
	DebugBreakpoint bool

	// registerPointers maps the 3-bit register operand of an opcode
	// to its register, index 6 is (HL) and has no register.
	registerPointers [8]*Register
}

// NewCPU creates a new CPU that reads and writes through b.
func NewCPU(b Bus, irq *interrupts.Service) *CPU {
	c := &CPU{
		b:   b,
		irq: irq,
	}
	c.initPairs()
	c.registerPointers = [8]*Register{&c.B, &c.C, &c.D, &c.E, &c.H, &c.L, nil, &c.A}

	return c
}

// Reset clears every register, leaving PC at 0x0000 where the
// boot ROM starts.
func (c *CPU) Reset() {
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0, 0, 0
	c.PC, c.SP = 0, 0
	c.mode = ModeNormal
	c.haltBug = false
	c.eiDelay = 0
	c.DebugBreakpoint = false
}

// SkipBoot puts the registers in the state the DMG boot ROM
// leaves them in when it hands over to the cartridge.
func (c *CPU) SkipBoot() {
	c.AF.SetUint16(0x01B0)
	c.BC.SetUint16(0x0013)
	c.DE.SetUint16(0x00D8)
	c.HL.SetUint16(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100
}

// Mode returns the current mode of the CPU.
func (c *CPU) Mode() uint8 {
	return c.mode
}

// Step executes a single instruction slot, which is one of
// servicing an interrupt, idling while halted or stopped, or
// executing an instruction. It returns the number of clock
// cycles the slot took.
func (c *CPU) Step() uint8 {
	if c.irq.IME && c.irq.HasInterrupts() {
		return c.dispatch()
	}

	switch c.mode {
	case ModeHalt:
		// with IME clear, a pending interrupt wakes the CPU
		// without servicing it
		if c.irq.HasInterrupts() {
			c.mode = ModeNormal
		}
		return 4
	case ModeStop:
		if c.irq.Flag&interrupts.JoypadFlag != 0 {
			c.mode = ModeNormal
		}
		return 4
	}

	pc := c.PC
	opcode := c.fetch()

	var cycles uint8
	if opcode == 0xCB {
		cb := c.fetch()
		c.decodeCB(cb)
		cycles = InstructionsCB[cb].Cycles
	} else {
		instruction := Instructions[opcode]
		if instruction.Illegal() {
			panic(fmt.Errorf("%w: 0x%02X at 0x%04X", ErrIllegalOpcode, opcode, pc))
		}
		cycles = instruction.Cycles
		if c.decode(opcode) {
			cycles += instruction.Extra
		}
	}

	if c.eiDelay > 0 {
		c.eiDelay--
		if c.eiDelay == 0 {
			c.irq.IME = true
		}
	}

	return cycles
}

// dispatch services the highest priority pending interrupt,
// pushing PC and jumping to its vector.
func (c *CPU) dispatch() uint8 {
	c.irq.IME = false
	c.mode = ModeNormal

	c.push(uint8(c.PC>>8), uint8(c.PC))
	c.PC = c.irq.Vector()

	return interrupts.DispatchCycles
}

// fetch reads the byte at PC and advances PC, unless the HALT
// bug is pending, in which case the byte will be read twice.
func (c *CPU) fetch() uint8 {
	value := c.b.Read(c.PC)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.PC++
	}
	return value
}

// fetch16 reads a little endian 16-bit operand.
func (c *CPU) fetch16() uint16 {
	return uint16(c.fetch()) | uint16(c.fetch())<<8
}

// halt puts the CPU to sleep until an interrupt is pending. When IME
// is clear and an interrupt is already pending the CPU doesn't halt,
// but fails to increment PC on the next fetch.
func (c *CPU) halt() {
	if !c.irq.IME && c.irq.HasInterrupts() {
		c.haltBug = true
		return
	}
	c.mode = ModeHalt
}

var _ types.Stater = (*CPU)(nil)

func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = s.Read8()
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.mode = s.Read8()
	c.haltBug = s.ReadBool()
	c.eiDelay = s.Read8()
}

func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.Write8(c.mode)
	s.WriteBool(c.haltBug)
	s.Write8(c.eiDelay)
}
