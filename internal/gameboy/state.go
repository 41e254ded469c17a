package gameboy

import (
	"errors"
	"fmt"

	"github.com/thelolagemann/gomeboy-dmg/internal/types"
)

const (
	stateMagic   uint32 = 0x474D4244 // "DBMG"
	stateVersion uint8  = 1
)

// ErrStateMismatch is returned when a save state was not made by
// this version of the emulator, or for a different cartridge.
var ErrStateMismatch = errors.New("gameboy: save state mismatch")

// SaveState returns a snapshot of the whole machine, which can be
// restored with LoadState while the same cartridge is inserted.
func (g *GameBoy) SaveState() []byte {
	s := types.NewState()
	s.Write32(stateMagic)
	s.Write8(stateVersion)
	title := g.stateTitle()
	s.WriteData(title[:])

	g.save(s)
	return s.Bytes()
}

// LoadState restores a snapshot made by SaveState. If the snapshot
// is rejected, or turns out to be truncated, the machine is left as
// it was.
func (g *GameBoy) LoadState(data []byte) error {
	s := types.StateFromBytes(data)
	if magic := s.Read32(); magic != stateMagic {
		return fmt.Errorf("%w: bad magic 0x%08X", ErrStateMismatch, magic)
	}
	if version := s.Read8(); version != stateVersion {
		return fmt.Errorf("%w: version %d, expected %d", ErrStateMismatch, version, stateVersion)
	}
	var title [16]byte
	s.ReadData(title[:])
	if expected := g.stateTitle(); title != expected {
		return fmt.Errorf("%w: state is for %q", ErrStateMismatch, trimTitle(title))
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("gameboy: loading state: %w", err)
	}

	backup := types.NewState()
	g.save(backup)

	g.load(s)
	if err := s.Err(); err != nil {
		g.load(types.StateFromBytes(backup.Bytes()))
		return fmt.Errorf("gameboy: loading state: %w", err)
	}
	return nil
}

func (g *GameBoy) stateTitle() [16]byte {
	var title [16]byte
	if g.MMU.Cart != nil {
		copy(title[:], g.MMU.Cart.Header().Title)
	}
	return title
}

func trimTitle(title [16]byte) string {
	n := 0
	for n < len(title) && title[n] != 0 {
		n++
	}
	return string(title[:n])
}

func (g *GameBoy) staters() []types.Stater {
	s := []types.Stater{g.CPU, g.Interrupts, g.Joypad, g.Timer, g.Serial, g.APU, g.PPU, g.DMA, g.MMU}
	if g.MMU.Cart != nil {
		s = append(s, g.MMU.Cart)
	}
	return s
}

func (g *GameBoy) save(s *types.State) {
	for _, c := range g.staters() {
		c.Save(s)
	}
}

func (g *GameBoy) load(s *types.State) {
	for _, c := range g.staters() {
		c.Load(s)
	}
}
