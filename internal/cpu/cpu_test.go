package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/thelolagemann/gomeboy-dmg/internal/interrupts"
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
)

// testBus is a flat 64kB of RAM.
type testBus [0x10000]uint8

func (b *testBus) Read(address uint16) uint8         { return b[address] }
func (b *testBus) Write(address uint16, value uint8) { b[address] = value }

const programStart = 0xC000

// newTestCPU returns a CPU with the program loaded at programStart,
// and SP and HL pointing at unused RAM.
func newTestCPU(program ...uint8) (*CPU, *testBus, *interrupts.Service) {
	bus := &testBus{}
	irq := interrupts.NewService()
	c := NewCPU(bus, irq)
	copy(bus[programStart:], program)
	c.PC = programStart
	c.SP = 0xDFF0
	c.HL.SetUint16(0xD000)
	return c, bus, irq
}

func TestRegisterPair(t *testing.T) {
	c, _, _ := newTestCPU()
	c.BC.SetUint16(0x1234)
	if c.B != 0x12 || c.C != 0x34 {
		t.Errorf("expected B=0x12 C=0x34, got B=0x%02X C=0x%02X", c.B, c.C)
	}
	c.D, c.E = 0xAB, 0xCD
	if c.DE.Uint16() != 0xABCD {
		t.Errorf("expected DE 0xABCD, got 0x%04X", c.DE.Uint16())
	}
}

func TestCPU_SkipBoot(t *testing.T) {
	c, _, _ := newTestCPU()
	c.SkipBoot()
	for _, r := range []struct {
		name     string
		got, exp uint16
	}{
		{"AF", c.AF.Uint16(), 0x01B0},
		{"BC", c.BC.Uint16(), 0x0013},
		{"DE", c.DE.Uint16(), 0x00D8},
		{"HL", c.HL.Uint16(), 0x014D},
		{"SP", c.SP, 0xFFFE},
		{"PC", c.PC, 0x0100},
	} {
		if r.got != r.exp {
			t.Errorf("%s: expected 0x%04X, got 0x%04X", r.name, r.exp, r.got)
		}
	}
}

func TestCPU_InterruptPriority(t *testing.T) {
	c, bus, irq := newTestCPU(0x00)
	irq.Enable = 0x1F
	irq.Request(interrupts.JoypadFlag)
	irq.Request(interrupts.VBlankFlag)
	irq.IME = true

	if cycles := c.Step(); cycles != 20 {
		t.Errorf("expected dispatch to take 20 cycles, got %d", cycles)
	}
	if c.PC != 0x0040 {
		t.Errorf("expected PC 0x0040, got 0x%04X", c.PC)
	}
	if irq.Flag != interrupts.JoypadFlag {
		t.Errorf("expected joypad to stay pending, got IF 0x%02X", irq.Flag)
	}
	if irq.IME {
		t.Errorf("expected IME to be cleared")
	}
	if ret := uint16(bus[c.SP+1])<<8 | uint16(bus[c.SP]); ret != programStart {
		t.Errorf("expected return address 0x%04X on the stack, got 0x%04X", programStart, ret)
	}
}

func TestCPU_InterruptVectors(t *testing.T) {
	tests := []struct {
		flag   uint8
		vector uint16
	}{
		{interrupts.VBlankFlag, 0x40},
		{interrupts.LCDFlag, 0x48},
		{interrupts.TimerFlag, 0x50},
		{interrupts.SerialFlag, 0x58},
		{interrupts.JoypadFlag, 0x60},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("0x%02X", tt.vector), func(t *testing.T) {
			c, _, irq := newTestCPU(0x00)
			irq.Enable = 0x1F
			irq.IME = true
			irq.Request(tt.flag)
			c.Step()
			if c.PC != tt.vector {
				t.Errorf("expected PC 0x%04X, got 0x%04X", tt.vector, c.PC)
			}
		})
	}
}

func TestCPU_InterruptDisabled(t *testing.T) {
	c, _, irq := newTestCPU(0x00, 0x00)
	irq.Enable = interrupts.TimerFlag
	irq.Request(interrupts.VBlankFlag)
	irq.IME = true

	if cycles := c.Step(); cycles != 4 {
		t.Errorf("expected NOP to take 4 cycles, got %d", cycles)
	}
	if c.PC != programStart+1 {
		t.Errorf("expected masked interrupt to be ignored, PC 0x%04X", c.PC)
	}
}

func TestCPU_Halt(t *testing.T) {
	t.Run("IME set", func(t *testing.T) {
		c, _, irq := newTestCPU(0x76, 0x00)
		irq.Enable = interrupts.TimerFlag
		irq.IME = true

		c.Step()
		if c.Mode() != ModeHalt {
			t.Fatalf("expected CPU to be halted")
		}
		for i := 0; i < 10; i++ {
			if cycles := c.Step(); cycles != 4 {
				t.Errorf("expected halted step to take 4 cycles, got %d", cycles)
			}
		}
		if c.PC != programStart+1 {
			t.Errorf("expected PC to stay at 0x%04X, got 0x%04X", programStart+1, c.PC)
		}

		irq.Request(interrupts.TimerFlag)
		if cycles := c.Step(); cycles != 20 {
			t.Errorf("expected dispatch, got %d cycles", cycles)
		}
		if c.PC != 0x50 || c.Mode() != ModeNormal {
			t.Errorf("expected to wake at 0x0050, got PC 0x%04X mode %d", c.PC, c.Mode())
		}
	})
	t.Run("IME clear", func(t *testing.T) {
		c, _, irq := newTestCPU(0x76, 0x3C)
		irq.Enable = interrupts.TimerFlag

		c.Step()
		if c.Mode() != ModeHalt {
			t.Fatalf("expected CPU to be halted")
		}
		irq.Request(interrupts.TimerFlag)
		c.Step()
		if c.Mode() != ModeNormal {
			t.Fatalf("expected CPU to wake")
		}
		c.Step()
		if c.A != 1 || c.PC != programStart+2 {
			t.Errorf("expected INC A after HALT, got A=%d PC=0x%04X", c.A, c.PC)
		}
		if irq.Flag != interrupts.TimerFlag {
			t.Errorf("expected interrupt to stay pending, got IF 0x%02X", irq.Flag)
		}
	})
}

func TestCPU_HaltBug(t *testing.T) {
	c, _, irq := newTestCPU(0x76, 0x3C, 0x00)
	irq.Enable = interrupts.VBlankFlag
	irq.Request(interrupts.VBlankFlag)

	c.Step() // HALT
	if c.Mode() == ModeHalt {
		t.Fatalf("expected HALT to be skipped with an interrupt pending")
	}
	c.Step() // INC A, PC not incremented
	c.Step() // INC A
	if c.A != 2 {
		t.Errorf("expected INC A to execute twice, got A=%d", c.A)
	}
	if c.PC != programStart+2 {
		t.Errorf("expected PC 0x%04X, got 0x%04X", programStart+2, c.PC)
	}
}

func TestCPU_EIDelay(t *testing.T) {
	c, _, irq := newTestCPU(0xFB, 0x00, 0x00)
	irq.Enable = interrupts.VBlankFlag
	irq.Request(interrupts.VBlankFlag)

	c.Step() // EI
	if irq.IME {
		t.Fatalf("expected IME to be set after the next instruction")
	}
	if cycles := c.Step(); cycles != 4 { // NOP
		t.Errorf("expected NOP after EI to execute, got %d cycles", cycles)
	}
	if !irq.IME {
		t.Fatalf("expected IME to be set")
	}
	if cycles := c.Step(); cycles != 20 {
		t.Errorf("expected dispatch, got %d cycles", cycles)
	}
	if c.PC != 0x40 {
		t.Errorf("expected PC 0x0040, got 0x%04X", c.PC)
	}
}

func TestCPU_DICancelsEI(t *testing.T) {
	c, _, irq := newTestCPU(0xFB, 0xF3, 0x00, 0x00)
	c.Step()
	c.Step()
	c.Step()
	if irq.IME {
		t.Errorf("expected DI to cancel a pending EI")
	}
}

func TestCPU_RETI(t *testing.T) {
	c, bus, irq := newTestCPU(0xD9)
	c.SP = 0xDFF0
	bus[0xDFF0], bus[0xDFF1] = 0x34, 0x12

	if cycles := c.Step(); cycles != 16 {
		t.Errorf("expected RETI to take 16 cycles, got %d", cycles)
	}
	if !irq.IME {
		t.Errorf("expected RETI to set IME immediately")
	}
	if c.PC != 0x1234 {
		t.Errorf("expected PC 0x1234, got 0x%04X", c.PC)
	}
}

func TestCPU_Stop(t *testing.T) {
	c, _, irq := newTestCPU(0x10, 0x00, 0x3C)

	if cycles := c.Step(); cycles != 4 {
		t.Errorf("expected STOP to take 4 cycles, got %d", cycles)
	}
	if c.PC != programStart+2 {
		t.Errorf("expected STOP to be 2 bytes, PC 0x%04X", c.PC)
	}
	for i := 0; i < 4; i++ {
		c.Step()
	}
	if c.Mode() != ModeStop || c.A != 0 {
		t.Fatalf("expected CPU to stay stopped")
	}

	irq.Request(interrupts.JoypadFlag)
	c.Step()
	c.Step()
	if c.A != 1 {
		t.Errorf("expected joypad to wake the CPU, A=%d", c.A)
	}
}

func TestCPU_IllegalOpcode(t *testing.T) {
	for _, opcode := range []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		t.Run(fmt.Sprintf("0x%02X", opcode), func(t *testing.T) {
			c, _, _ := newTestCPU(opcode)
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrIllegalOpcode) {
					t.Errorf("expected panic with ErrIllegalOpcode, got %v", r)
				}
			}()
			c.Step()
		})
	}
}

func TestCPU_DebugBreakpoint(t *testing.T) {
	c, _, _ := newTestCPU(0x40)
	c.Debug = true
	c.Step()
	if !c.DebugBreakpoint {
		t.Errorf("expected LD B, B to hit the breakpoint")
	}
}

func TestCPU_State(t *testing.T) {
	c, _, _ := newTestCPU(0xFB, 0x00)
	c.AF.SetUint16(0x12F0)
	c.BC.SetUint16(0x3456)
	c.Step()

	s := types.NewState()
	c.Save(s)

	d, _, _ := newTestCPU()
	d.Load(types.StateFromBytes(s.Bytes()))
	if d.AF.Uint16() != 0x12F0 || d.BC.Uint16() != 0x3456 {
		t.Errorf("expected registers to be restored, got AF=0x%04X BC=0x%04X", d.AF.Uint16(), d.BC.Uint16())
	}
	if d.PC != c.PC || d.SP != c.SP {
		t.Errorf("expected PC 0x%04X SP 0x%04X, got PC 0x%04X SP 0x%04X", c.PC, c.SP, d.PC, d.SP)
	}
	if d.eiDelay != c.eiDelay {
		t.Errorf("expected pending EI to be restored")
	}
}
