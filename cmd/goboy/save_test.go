package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thelolagemann/gomeboy-dmg/internal/cartridge"
	"github.com/thelolagemann/gomeboy-dmg/internal/gameboy"
	"github.com/thelolagemann/gomeboy-dmg/pkg/emulator"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

func newTestSaver(t *testing.T) (*saver, *gameboy.GameBoy, []byte) {
	t.Helper()
	ram := make([]byte, 0x2000)
	ram[0], ram[0x1FFF] = 0x12, 0x34

	gb := gameboy.New(gameboy.WithLogger(log.NewNullLogger()))
	rom := cartridge.TestROM{Title: "SAVER", Type: cartridge.MBC1RAMBATT, RAMCode: 2}
	header, err := gb.LoadCart(rom.Build(), ram)
	if err != nil {
		t.Fatal(err)
	}

	save, err := emulator.LoadSave(filepath.Join(t.TempDir(), "saver.sav"))
	if err != nil {
		t.Fatal(err)
	}
	return newSaver(log.NewNullLogger(), gb, header, save), gb, ram
}

func TestSaver(t *testing.T) {
	s, _, ram := newTestSaver(t)

	ctx, cancel := context.WithCancel(context.Background())
	s.start(ctx, time.Millisecond)
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(s.save.Path); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected the save to be written periodically")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	s.finish()

	b, err := os.ReadFile(s.save.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, ram) {
		t.Errorf("expected save to hold the cartridge RAM")
	}
	if _, err := os.Stat(s.save.Path + ".tmp"); err == nil {
		t.Errorf("expected no temporary file to be left behind")
	}
}

func TestSaver_FinishWithoutStart(t *testing.T) {
	s, _, ram := newTestSaver(t)
	s.finish()

	b, err := os.ReadFile(s.save.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, ram) {
		t.Errorf("expected save to hold the cartridge RAM")
	}
}

func TestSaver_CartridgeChanged(t *testing.T) {
	s, gb, _ := newTestSaver(t)

	other := cartridge.TestROM{Title: "OTHER", Type: cartridge.MBC1RAMBATT, RAMCode: 2}
	if resp := gb.SendCommand(emulator.CommandPacket{Command: emulator.CommandLoadROM, Data: other.Build()}); resp.Error != nil {
		t.Fatal(resp.Error)
	}
	s.finish()

	if _, err := os.Stat(s.save.Path); err == nil {
		t.Errorf("expected the save of a removed cartridge not to be written")
	}
}

func TestSaver_Reset(t *testing.T) {
	s, gb, ram := newTestSaver(t)

	// a reset recreates the cartridge from the same ROM
	gb.SendCommand(emulator.CommandPacket{Command: emulator.CommandReset})
	s.finish()

	b, err := os.ReadFile(s.save.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, ram) {
		t.Errorf("expected save to be written after a reset")
	}
}
