package main

import (
	"context"
	"time"

	"github.com/thelolagemann/gomeboy-dmg/internal/cartridge"
	"github.com/thelolagemann/gomeboy-dmg/internal/gameboy"
	"github.com/thelolagemann/gomeboy-dmg/pkg/emulator"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

// saver writes the RAM of a battery backed cartridge to its save file,
// periodically while the emulator runs and once more when it stops.
type saver struct {
	log    log.Logger
	gb     *gameboy.GameBoy
	header *cartridge.Header
	save   *emulator.Save

	done chan struct{}
}

func newSaver(l log.Logger, gb *gameboy.GameBoy, header *cartridge.Header, save *emulator.Save) *saver {
	return &saver{log: l, gb: gb, header: header, save: save}
}

// start writes the save every interval until ctx is cancelled.
func (s *saver) start(ctx context.Context, interval time.Duration) {
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.write()
			}
		}
	}()
}

// finish waits for the periodic writer to return, then writes the
// save one last time. The context given to start must be cancelled.
func (s *saver) finish() {
	if s.done != nil {
		<-s.done
	}
	s.write()
}

// write writes the cartridge RAM to the save file, as long as the
// cartridge the save belongs to is still the one inserted.
func (s *saver) write() {
	current, ram := s.gb.CartSnapshot()
	if !s.header.Matches(current) {
		s.log.Warnf("not writing save %s, the cartridge was changed", s.save.Path)
		return
	}
	if !s.save.SetBytes(ram) {
		return
	}
	if err := s.save.Flush(); err != nil {
		s.log.Errorf("writing save %s: %v", s.save.Path, err)
		return
	}
	s.log.Debugf("wrote save %s", s.save.Path)
}
