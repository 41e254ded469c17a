// Package timer provides an implementation of the Game Boy
// timer. It is used to generate interrupts at a specific
// frequency. The frequency can be configured using the
// TAC register.
package timer

import (
	"github.com/thelolagemann/gomeboy-dmg/internal/interrupts"
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
)

// bits selects the bit of the system counter whose falling edge
// increments TIMA, indexed by TAC & 0x03.
//
//	00 - 4096 Hz   (every 1024 cycles)
//	01 - 262144 Hz (every 16 cycles)
//	10 - 65536 Hz  (every 64 cycles)
//	11 - 16384 Hz  (every 256 cycles)
var bits = [4]uint16{512, 8, 32, 128}

// Controller is a timer controller. DIV is the upper byte of a 16-bit
// system counter that advances every cycle, and TIMA is incremented on
// the falling edge of the counter bit selected by TAC, requesting the
// timer interrupt when it overflows.
type Controller struct {
	counter uint16

	tima uint8
	tma  uint8
	tac  uint8

	irq *interrupts.Service
}

// NewController returns a new timer controller.
func NewController(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq}
}

// Reset clears the timer registers and the system counter.
func (c *Controller) Reset() {
	c.counter = 0
	c.tima, c.tma, c.tac = 0, 0, 0
}

// SetCounter sets the internal system counter, used to reproduce the
// state the boot ROM leaves behind.
func (c *Controller) SetCounter(v uint16) {
	c.counter = v
}

// enabled reports whether TAC bit 2 is set.
func (c *Controller) enabled() bool {
	return c.tac&types.Bit2 != 0
}

// signal returns the input to the falling edge detector.
func (c *Controller) signal() bool {
	return c.enabled() && c.counter&bits[c.tac&0x03] != 0
}

// Tick advances the system counter by the given number of cycles.
func (c *Controller) Tick(cycles uint16) {
	for i := uint16(0); i < cycles; i++ {
		old := c.signal()
		c.counter++
		if old && !c.signal() {
			c.increment()
		}
	}
}

func (c *Controller) increment() {
	c.tima++
	if c.tima == 0 {
		c.tima = c.tma
		c.irq.Request(interrupts.TimerFlag)
	}
}

// Read returns the value of one of the timer registers.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case types.DIV:
		return uint8(c.counter >> 8)
	case types.TIMA:
		return c.tima
	case types.TMA:
		return c.tma
	case types.TAC:
		return c.tac | 0xF8
	}
	return 0xFF
}

// Write updates one of the timer registers. Writes to DIV and TAC that
// pull the selected bit low increment TIMA, as they would on hardware.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case types.DIV:
		old := c.signal()
		c.counter = 0
		if old {
			c.increment()
		}
	case types.TIMA:
		c.tima = value
	case types.TMA:
		c.tma = value
	case types.TAC:
		old := c.signal()
		c.tac = value & 0x07
		if old && !c.signal() {
			c.increment()
		}
	}
}

var _ types.Stater = (*Controller)(nil)

// Load loads the state of the controller.
func (c *Controller) Load(s *types.State) {
	c.counter = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
}

// Save saves the state of the controller.
func (c *Controller) Save(s *types.State) {
	s.Write16(c.counter)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
}
