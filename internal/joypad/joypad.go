// Package joypad provides an implementation of the Game Boy
// joypad. The joypad is used to read the state of the buttons
// and the direction keys.
package joypad

import (
	"github.com/thelolagemann/gomeboy-dmg/internal/interrupts"
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
)

// Button represents a physical button on the Game Boy.
type Button = uint8

const (
	// ButtonA is the A button.
	ButtonA Button = iota
	// ButtonB is the B button.
	ButtonB
	// ButtonSelect is the Select button.
	ButtonSelect
	// ButtonStart is the Start button.
	ButtonStart
	// ButtonRight is the Right button.
	ButtonRight
	// ButtonLeft is the Left button.
	ButtonLeft
	// ButtonUp is the Up button.
	ButtonUp
	// ButtonDown is the Down button.
	ButtonDown
)

// Names maps each Button to a readable name.
var Names = map[Button]string{
	ButtonA:      "A",
	ButtonB:      "B",
	ButtonSelect: "Select",
	ButtonStart:  "Start",
	ButtonRight:  "Right",
	ButtonLeft:   "Left",
	ButtonUp:     "Up",
	ButtonDown:   "Down",
}

// Selection is the column of buttons currently selected
// through the P1 register.
type Selection uint8

const (
	// SelectNone selects neither column.
	SelectNone Selection = iota
	// SelectAction selects the A, B, Select and Start buttons.
	SelectAction
	// SelectDirection selects the direction keys.
	SelectDirection
)

// State represents the state of the joypad. Select either
// action or direction buttons by writing to the register,
// and then read out bits 0-3 to get the state of the buttons.
//
//	Bit 7 - Not used
//	Bit 6 - Not used
//	Bit 5 - P15 Select Button Keys      (0=Select)
//	Bit 4 - P14 Select Direction Keys   (0=Select)
//	Bit 3 - P13 Input Down  or Start    (0=Pressed) (Read Only)
//	Bit 2 - P12 Input Up    or Select   (0=Pressed) (Read Only)
//	Bit 1 - P11 Input Left  or Button B (0=Pressed) (Read Only)
//	Bit 0 - P10 Input Right or Button A (0=Pressed) (Read Only)
type State struct {
	// State holds a bit per button, indexed by Button. The
	// lower 4 bits are the action buttons and the upper 4
	// bits the direction keys. A 1 means pressed.
	State     uint8
	Selection Selection

	irq *interrupts.Service
}

// New returns a new joypad state.
func New(irq *interrupts.Service) *State {
	return &State{irq: irq}
}

// Reset releases all buttons and clears the selection.
func (s *State) Reset() {
	s.State = 0
	s.Selection = SelectNone
}

// Read returns the value of the P1 register.
func (s *State) Read(uint16) uint8 {
	switch s.Selection {
	case SelectAction:
		return 0xC0 | types.Bit4 | ^s.State&0x0F
	case SelectDirection:
		return 0xC0 | types.Bit5 | ^(s.State>>4)&0x0F
	default:
		return 0xFF
	}
}

// Write selects a column of buttons.
func (s *State) Write(_ uint16, value uint8) {
	switch value & 0x30 {
	case types.Bit4:
		s.Selection = SelectAction
	case types.Bit5:
		s.Selection = SelectDirection
	default:
		s.Selection = SelectNone
	}
}

// Press presses a button, requesting the joypad interrupt.
func (s *State) Press(button Button) {
	s.State |= 1 << button
	s.irq.Request(interrupts.JoypadFlag)
}

// Release releases a button.
func (s *State) Release(button Button) {
	s.State &^= 1 << button
}

// Pressed returns true if the button is currently held.
func (s *State) Pressed(button Button) bool {
	return s.State&(1<<button) != 0
}

var _ types.Stater = (*State)(nil)

func (s *State) Load(st *types.State) {
	s.State = st.Read8()
	s.Selection = Selection(st.Read8())
}

func (s *State) Save(st *types.State) {
	st.Write8(s.State)
	st.Write8(uint8(s.Selection))
}
