// Package apu provides the register file of the Game Boy's audio
// processing unit. No sound is produced, but the registers behave as
// they do on hardware when read back, so that games polling them keep
// running.
package apu

import (
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
)

// readMasks holds the bits of each register from NR10 (0xFF10) to
// 0xFF2F that always read 1, either because they are unused or
// because they are write only.
var readMasks = [0x20]uint8{
	0x80, 0x3F, 0x00, 0xFF, 0xBF, // NR10-NR14
	0xFF, 0x3F, 0x00, 0xFF, 0xBF, // NR20-NR24
	0x7F, 0xFF, 0x9F, 0xFF, 0xBF, // NR30-NR34
	0xFF, 0xFF, 0x00, 0x00, 0xBF, // NR40-NR44
	0x00, 0x00, 0x70, // NR50-NR52
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // unused
}

// APU represents the GameBoy's audio processing unit. It comprises 4
// channels: 2 pulse channels, a wave channel and a noise channel, each
// controlled by a set of registers in 0xFF10-0xFF26, along with 16
// bytes of wave RAM at 0xFF30-0xFF3F.
type APU struct {
	enabled   bool
	registers [0x20]uint8
	waveRAM   [16]uint8
}

// New returns a new APU.
func New() *APU {
	return &APU{}
}

// Reset powers the APU off and clears every register.
func (a *APU) Reset() {
	a.enabled = false
	a.registers = [0x20]uint8{}
	a.waveRAM = [16]uint8{}
}

// Read returns the value of an audio register or of wave RAM.
func (a *APU) Read(address uint16) uint8 {
	if address >= types.WaveRAM {
		return a.waveRAM[address-types.WaveRAM]
	}

	index := address - types.NR10
	if address == types.NR52 {
		var v uint8
		if a.enabled {
			v = types.Bit7
		}
		// no channel is ever active
		return v | readMasks[index]
	}
	return a.registers[index] | readMasks[index]
}

// Write updates an audio register or wave RAM. While the APU is
// powered off, only NR52 and wave RAM can be written.
func (a *APU) Write(address uint16, value uint8) {
	switch {
	case address >= types.WaveRAM:
		a.waveRAM[address-types.WaveRAM] = value
	case address == types.NR52:
		wasEnabled := a.enabled
		a.enabled = value&types.Bit7 != 0
		if wasEnabled && !a.enabled {
			// powering off clears every register
			a.registers = [0x20]uint8{}
		}
	case a.enabled:
		a.registers[address-types.NR10] = value
	}
}

// Enabled reports whether the APU is powered on.
func (a *APU) Enabled() bool {
	return a.enabled
}

var _ types.Stater = (*APU)(nil)

func (a *APU) Load(s *types.State) {
	a.enabled = s.ReadBool()
	s.ReadData(a.registers[:])
	s.ReadData(a.waveRAM[:])
}

func (a *APU) Save(s *types.State) {
	s.WriteBool(a.enabled)
	s.WriteData(a.registers[:])
	s.WriteData(a.waveRAM[:])
}
