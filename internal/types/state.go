package types

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrStateTruncated is returned by State.Err when a read ran
// past the end of the state data.
var ErrStateTruncated = errors.New("types: state data truncated")

// Resettable is an interface that allows an object to be reset.
type Resettable interface {
	Reset() // Reset the state of the object
}

// State represents the Game Boy state. This is used to
// save and load states between runs.
type State struct {
	raw          []byte // raw state data (for serialization)
	readPosition int    // current read position
	err          error
}

// Stater is an interface that allows an object to be saved
// and loaded from a state.
type Stater interface {
	Load(*State) // Load the state of the object
	Save(*State) // Save the state of the object
}

// NewState creates a new state.
func NewState() *State {
	return &State{
		raw: make([]byte, 0, 0x4000),
	}
}

// StateFromBytes creates a new state from the given bytes.
func StateFromBytes(raw []byte) *State {
	return &State{
		raw: raw,
	}
}

func (s *State) Write8(value uint8) {
	s.raw = append(s.raw, value)
}

func (s *State) Write16(value uint16) {
	s.raw = binary.LittleEndian.AppendUint16(s.raw, value)
}

func (s *State) Write32(value uint32) {
	s.raw = binary.LittleEndian.AppendUint32(s.raw, value)
}

func (s *State) WriteBool(value bool) {
	if value {
		s.raw = append(s.raw, 1)
	} else {
		s.raw = append(s.raw, 0)
	}
}

// WriteData writes a length prefixed block of data.
func (s *State) WriteData(data []byte) {
	s.Write32(uint32(len(data)))
	s.raw = append(s.raw, data...)
}

// take returns the next n bytes, or nil if the state is
// exhausted. Once a read has failed all following reads
// return zero values.
func (s *State) take(n int) []byte {
	if s.err != nil {
		return nil
	}
	if s.readPosition+n > len(s.raw) {
		s.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrStateTruncated, n, s.readPosition, len(s.raw))
		return nil
	}
	b := s.raw[s.readPosition : s.readPosition+n]
	s.readPosition += n
	return b
}

func (s *State) Read8() uint8 {
	if b := s.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (s *State) Read16() uint16 {
	if b := s.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (s *State) Read32() uint32 {
	if b := s.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (s *State) ReadBool() bool {
	return s.Read8() != 0
}

// ReadData reads a length prefixed block of data into p. If the
// stored block is larger than p, the remainder is skipped.
func (s *State) ReadData(p []byte) {
	n := int(s.Read32())
	if b := s.take(n); b != nil {
		copy(p, b)
	}
}

// Err returns the first error encountered while reading.
func (s *State) Err() error {
	return s.err
}

func (s *State) Bytes() []byte {
	return s.raw
}
