// Package serial provides the serial port of the Game Boy. No link
// cable partner is emulated, transfers clocked by the Game Boy complete
// at once and shift in 0xFF, as they would with nothing plugged in.
// Outgoing bytes can be forwarded to an io.Writer, which is how test
// ROMs such as blargg's report their results.
package serial

import (
	"io"

	"github.com/thelolagemann/gomeboy-dmg/internal/interrupts"
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

// Controller is the serial controller, holding the SB and SC registers.
//
//	SB (0xFF01) - the byte to send, replaced by the byte received
//	SC (0xFF02) - Bit 7: Transfer Start, Bit 0: Clock Select (1=Internal)
type Controller struct {
	data    uint8
	control uint8

	out io.Writer
	irq *interrupts.Service
	log log.Logger
}

// NewController creates a new Controller that requests the serial
// interrupt through irq.
func NewController(irq *interrupts.Service, l log.Logger) *Controller {
	return &Controller{irq: irq, log: l}
}

// Attach sets the writer that sent bytes are forwarded to. A nil
// writer discards them.
func (c *Controller) Attach(w io.Writer) {
	c.out = w
}

// Reset clears the serial registers.
func (c *Controller) Reset() {
	c.data = 0
	c.control = 0
}

// Read returns the value of SB or SC.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case types.SB:
		return c.data
	case types.SC:
		return c.control | 0x7E // bits 1-6 are unused
	}
	return 0xFF
}

// Write updates SB or SC. Starting a transfer with the internal clock
// completes it straight away.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case types.SB:
		c.data = value
	case types.SC:
		c.control = value & 0x81
		if c.control == 0x81 {
			c.transfer()
		}
	}
}

func (c *Controller) transfer() {
	if c.out != nil {
		if _, err := c.out.Write([]byte{c.data}); err != nil {
			c.log.Errorf("serial: failed to forward byte: %v", err)
		}
	}
	c.data = 0xFF
	c.control &^= types.Bit7
	c.irq.Request(interrupts.SerialFlag)
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Load(s *types.State) {
	c.data = s.Read8()
	c.control = s.Read8()
}

func (c *Controller) Save(s *types.State) {
	s.Write8(c.data)
	s.Write8(c.control)
}
