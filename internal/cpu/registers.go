package cpu

// Register represents a single 8-bit register of the CPU.
type Register = uint8

// Registers holds the 8-bit registers of the CPU, along with
// the 16-bit pair views over them.
type Registers struct {
	A, F Register
	B, C Register
	D, E Register
	H, L Register

	AF, BC, DE, HL RegisterPair
}

// RegisterPair views two 8-bit registers as a single 16-bit
// register. The first register holds the high byte.
type RegisterPair [2]*Register

// Uint16 returns the value of the pair.
func (r RegisterPair) Uint16() uint16 {
	return uint16(*r[0])<<8 | uint16(*r[1])
}

// SetUint16 sets the value of the pair.
func (r RegisterPair) SetUint16(value uint16) {
	*r[0] = uint8(value >> 8)
	*r[1] = uint8(value)
}

// initPairs points the register pairs at their halves.
func (r *Registers) initPairs() {
	r.AF = RegisterPair{&r.A, &r.F}
	r.BC = RegisterPair{&r.B, &r.C}
	r.DE = RegisterPair{&r.D, &r.E}
	r.HL = RegisterPair{&r.H, &r.L}
}
