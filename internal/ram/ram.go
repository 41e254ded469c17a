// Package ram provides a basic RAM implementation.
package ram

import "github.com/thelolagemann/gomeboy-dmg/internal/types"

// RAM represents a block of RAM, addressed from 0.
type RAM struct {
	data []uint8
}

// New returns a new, zeroed, block of RAM of the given size.
func New(size int) *RAM {
	return &RAM{data: make([]uint8, size)}
}

// Read returns the value at the given address.
func (r *RAM) Read(address uint16) uint8 {
	return r.data[address]
}

// Write writes the value to the given address.
func (r *RAM) Write(address uint16, value uint8) {
	r.data[address] = value
}

// Size returns the size of the block in bytes.
func (r *RAM) Size() int {
	return len(r.data)
}

// Reset zeroes the block.
func (r *RAM) Reset() {
	clear(r.data)
}

var _ types.Stater = (*RAM)(nil)

func (r *RAM) Load(s *types.State) { s.ReadData(r.data) }
func (r *RAM) Save(s *types.State) { s.WriteData(r.data) }
