// Package interrupts provides the interrupt controller of the
// Game Boy, the IF and IE registers, along with the interrupt
// master enable (IME) flag that the CPU toggles.
package interrupts

import (
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
)

const (
	// VBlankFlag is the VBlank interrupt flag (bit 0),
	// which is requested every time the PPU enters
	// VBlank mode.
	VBlankFlag = types.Bit0
	// LCDFlag is the LCD interrupt flag (bit 1), which
	// is requested on the rising edge of the STAT
	// interrupt line.
	LCDFlag = types.Bit1
	// TimerFlag is the Timer interrupt flag (bit 2),
	// which is requested when TIMA overflows.
	TimerFlag = types.Bit2
	// SerialFlag is the Serial interrupt flag (bit 3),
	// which is requested when a serial transfer is
	// completed.
	SerialFlag = types.Bit3
	// JoypadFlag is the Joypad interrupt Flag (bit 4),
	// which is requested when a button is pressed.
	JoypadFlag = types.Bit4
)

const (
	// DispatchCycles is the number of cycles the CPU spends
	// dispatching an interrupt (5 machine cycles).
	DispatchCycles = 20
)

// Service is the interrupt service, used to request
// interrupts and to get the current interrupt vector.
//
// When an interrupt is requested, the corresponding bit
// in the Flag register is set. When an interrupt is
// enabled, the corresponding bit in the Enable register
// is set. When an interrupt is requested and enabled,
// and the IME is set, the CPU will jump to the interrupt
// vector, and the corresponding bit in the Flag register
// will be cleared.
//
// The IME is set by the EI and RETI instructions, and
// cleared by DI and by the dispatch itself.
type Service struct {
	Flag   uint8 // interrupt Flag (types.IF)
	Enable uint8 // interrupt Enable (types.IE)
	IME    bool  // interrupt master enable
}

// NewService returns a new Service.
func NewService() *Service {
	return &Service{}
}

// Reset clears all requests, enables and the IME.
func (s *Service) Reset() {
	s.Flag = 0
	s.Enable = 0
	s.IME = false
}

// Read returns the value of either the IF or IE register.
func (s *Service) Read(address uint16) uint8 {
	if address == types.IF {
		return s.Flag | 0xE0 // the upper 3 bits are always set
	}
	return s.Enable
}

// Write sets the value of either the IF or IE register.
func (s *Service) Write(address uint16, value uint8) {
	if address == types.IF {
		s.Flag = value & 0x1F // only the first 5 bits are used
		return
	}
	s.Enable = value
}

// HasInterrupts returns true if there are any interrupts
// that are requested and enabled.
func (s *Service) HasInterrupts() bool {
	return s.Enable&s.Flag&0x1F != 0
}

// Request requests the specified interrupt, by setting
// the corresponding bit in the Flag register.
func (s *Service) Request(flag uint8) {
	s.Flag |= flag
}

// Vector returns the vector of the highest priority interrupt
// that is both requested and enabled, or 0 if there is none.
// Only the bit of the returned interrupt is cleared from the
// Flag register, lower priority requests stay pending.
func (s *Service) Vector() uint16 {
	if !s.HasInterrupts() {
		return 0
	}
	for i := uint8(0); i < 5; i++ {
		flag := uint8(1 << i)
		if s.Flag&flag != 0 && s.Enable&flag != 0 {
			s.Flag &^= flag
			return uint16(0x0040 + uint16(i)*8)
		}
	}

	return 0
}

var _ types.Stater = (*Service)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Flag (uint8)
//   - Enable (uint8)
//   - IME (bool)
func (s *Service) Load(st *types.State) {
	s.Flag = st.Read8()
	s.Enable = st.Read8()
	s.IME = st.ReadBool()
}

// Save implements the types.Stater interface.
func (s *Service) Save(st *types.State) {
	st.Write8(s.Flag)
	st.Write8(s.Enable)
	st.WriteBool(s.IME)
}
