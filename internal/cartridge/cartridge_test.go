package cartridge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/thelolagemann/gomeboy-dmg/internal/types"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

func newTestCartridge(t *testing.T, rom TestROM) Cartridge {
	t.Helper()
	c, err := New(rom.Build(), log.NewNullLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestNew_Types(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{ROM, "*cartridge.ROMCartridge"},
		{ROMRAMBATT, "*cartridge.ROMCartridge"},
		{MBC1, "*cartridge.MemoryBankedCartridge1"},
		{MBC2BATT, "*cartridge.MemoryBankedCartridge2"},
		{MBC3TIMERRAMBATT, "*cartridge.MemoryBankedCartridge3"},
		{MBC5RUMBLE, "*cartridge.MemoryBankedCartridge5"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			c := newTestCartridge(t, TestROM{Type: tt.typ})
			if got := fmt.Sprintf("%T", c); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	_, err := New(TestROM{Type: POCKETCAMERA}.Build(), log.NewNullLogger())
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestROMCartridge(t *testing.T) {
	c := newTestCartridge(t, TestROM{Type: ROMRAM, RAMCode: 0x02})
	if v := c.Read(0x7FFF); v != 1 {
		t.Errorf("expected bank 1 at 0x7FFF, got %d", v)
	}
	// writes to ROM are dropped
	c.Write(0x2000, 0x05)
	if v := c.Read(0x7FFF); v != 1 {
		t.Errorf("expected bank 1 at 0x7FFF after write, got %d", v)
	}
	c.Write(0xA123, 0x42)
	if v := c.Read(0xA123); v != 0x42 {
		t.Errorf("expected RAM 0x42, got 0x%02x", v)
	}
}

func TestMBC1_ROMBankSelect(t *testing.T) {
	// 4 banks (64kB), 32 banks (512kB) and 64 banks (1MB)
	for _, code := range []uint8{0x01, 0x04, 0x05} {
		c := newTestCartridge(t, TestROM{Type: MBC1, ROMCode: code}).(*MemoryBankedCartridge1)
		banks := 2 << code

		// 0 and every multiple of the bank count that fits the register select bank 1
		for v := 0; v < 0x20; v += banks {
			c.Write(0x2000, uint8(v))
			if got := c.ROMBank(); got != 1 {
				t.Errorf("%d banks: writing 0x%02x: expected bank 1, got %d", banks, v, got)
			}
			if got := c.Read(0x7FFF); got != 1 {
				t.Errorf("%d banks: writing 0x%02x: expected to read bank 1, got %d", banks, v, got)
			}
		}

		// in range banks map directly
		for v := 1; v < banks && v < 0x20; v++ {
			c.Write(0x2000, uint8(v))
			if got := c.Read(0x7FFF); got != uint8(v) {
				t.Errorf("%d banks: expected bank %d, got %d", banks, v, got)
			}
		}
	}
}

func TestMBC1_UpperBits(t *testing.T) {
	c := newTestCartridge(t, TestROM{Type: MBC1, ROMCode: 0x05}).(*MemoryBankedCartridge1)
	c.Write(0x4000, 0x01)
	c.Write(0x2000, 0x00)
	if got := c.ROMBank(); got != 0x21 {
		t.Errorf("expected bank 0x21, got 0x%02x", got)
	}
	c.Write(0x2000, 0x03)
	if got := c.Read(0x7FFF); got != 0x23 {
		t.Errorf("expected bank 0x23, got 0x%02x", got)
	}
	// advanced mode maps bank 0x20 into the lower window
	c.Write(0x6000, 0x01)
	if got := c.Read(0x3FFF); got != 0x20 {
		t.Errorf("expected bank 0x20 in lower window, got 0x%02x", got)
	}
}

func TestMBC1_RAM(t *testing.T) {
	c := newTestCartridge(t, TestROM{Type: MBC1RAMBATT, ROMCode: 0x01, RAMCode: 0x03}).(*MemoryBankedCartridge1)

	// disabled RAM reads 0xFF and drops writes
	c.Write(0xA000, 0x12)
	if v := c.Read(0xA000); v != 0xFF {
		t.Errorf("expected 0xFF from disabled RAM, got 0x%02x", v)
	}
	if c.RAM()[0] != 0x00 {
		t.Errorf("expected write to disabled RAM to be dropped")
	}

	// only a lower nibble of 0xA enables RAM
	c.Write(0x0000, 0x1A)
	c.Write(0xA000, 0x12)
	if v := c.Read(0xA000); v != 0x12 {
		t.Errorf("expected 0x12, got 0x%02x", v)
	}

	// select RAM bank 2 in advanced mode
	c.Write(0x6000, 0x01)
	c.Write(0x4000, 0x02)
	c.Write(0xA000, 0x34)
	if c.RAM()[2*0x2000] != 0x34 {
		t.Errorf("expected write to RAM bank 2")
	}
	c.Write(0x4000, 0x00)
	if v := c.Read(0xA000); v != 0x12 {
		t.Errorf("expected bank 0 value 0x12, got 0x%02x", v)
	}

	c.Write(0x0000, 0x00)
	if v := c.Read(0xA000); v != 0xFF {
		t.Errorf("expected 0xFF after disabling RAM, got 0x%02x", v)
	}
}

func TestMBC2(t *testing.T) {
	c := newTestCartridge(t, TestROM{Type: MBC2BATT, ROMCode: 0x02}).(*MemoryBankedCartridge2)
	c.Write(0x2100, 0x05)
	if v := c.Read(0x7FFF); v != 5 {
		t.Errorf("expected bank 5, got %d", v)
	}
	c.Write(0x2100, 0x00)
	if v := c.Read(0x7FFF); v != 1 {
		t.Errorf("expected bank 1, got %d", v)
	}
	c.Write(0x0000, 0x0A)
	c.Write(0xA001, 0xAB)
	if v := c.Read(0xA201); v != 0xFB {
		t.Errorf("expected mirrored nibble 0xFB, got 0x%02x", v)
	}
}

func TestMBC3(t *testing.T) {
	c := newTestCartridge(t, TestROM{Type: MBC3TIMERRAMBATT, ROMCode: 0x03, RAMCode: 0x03}).(*MemoryBankedCartridge3)
	c.Write(0x2000, 0x0F)
	if v := c.Read(0x7FFF); v != 0x0F {
		t.Errorf("expected bank 15, got %d", v)
	}
	c.Write(0x2000, 0x00)
	if v := c.Read(0x7FFF); v != 1 {
		t.Errorf("expected bank 1, got %d", v)
	}

	c.Write(0x0000, 0x0A)
	c.Write(0x4000, 0x08) // RTC seconds
	c.Write(0xA000, 0x2A)
	if v := c.Read(0xA000); v != 0x00 {
		t.Errorf("expected unlatched 0x00, got 0x%02x", v)
	}
	c.Write(0x6000, 0x00)
	c.Write(0x6000, 0x01)
	if v := c.Read(0xA000); v != 0x2A {
		t.Errorf("expected latched 0x2A, got 0x%02x", v)
	}

	c.Write(0x4000, 0x01)
	c.Write(0xA000, 0x77)
	if c.RAM()[0x2000] != 0x77 {
		t.Errorf("expected write to RAM bank 1")
	}
}

func TestMBC5(t *testing.T) {
	c := newTestCartridge(t, TestROM{Type: MBC5RAM, ROMCode: 0x08, RAMCode: 0x04}).(*MemoryBankedCartridge5)
	c.Write(0x2000, 0x34)
	c.Write(0x3000, 0x01)
	if got := c.ROMBank(); got != 0x134 {
		t.Errorf("expected bank 0x134, got 0x%03x", got)
	}
	if v := c.Read(0x7FFF); v != 0x34 {
		t.Errorf("expected marker 0x34, got 0x%02x", v)
	}
	c.Write(0x3000, 0x00)
	c.Write(0x2000, 0x00)
	if got := c.ROMBank(); got != 0 {
		t.Errorf("expected bank 0, got %d", got)
	}

	c.Write(0x0000, 0x0A)
	c.Write(0x4000, 0x0F)
	c.Write(0xBFFF, 0x99)
	if c.RAM()[15*0x2000+0x1FFF] != 0x99 {
		t.Errorf("expected write to RAM bank 15")
	}
}

func TestCartridge_State(t *testing.T) {
	a := newTestCartridge(t, TestROM{Type: MBC1RAM, ROMCode: 0x02, RAMCode: 0x02})
	a.Write(0x0000, 0x0A)
	a.Write(0x2000, 0x05)
	a.Write(0xA010, 0x5A)

	s := types.NewState()
	a.Save(s)

	b := newTestCartridge(t, TestROM{Type: MBC1RAM, ROMCode: 0x02, RAMCode: 0x02})
	b.Load(types.StateFromBytes(s.Bytes()))
	if v := b.Read(0x7FFF); v != 5 {
		t.Errorf("expected bank 5 after load, got %d", v)
	}
	if v := b.Read(0xA010); v != 0x5A {
		t.Errorf("expected RAM 0x5A after load, got 0x%02x", v)
	}
}

func TestCartridge_LoadRAM(t *testing.T) {
	c := newTestCartridge(t, TestROM{Type: MBC1RAMBATT, RAMCode: 0x02})
	save := make([]byte, 0x2000)
	save[0x100] = 0xEE
	c.LoadRAM(save)
	c.Write(0x0000, 0x0A)
	if v := c.Read(0xA100); v != 0xEE {
		t.Errorf("expected 0xEE, got 0x%02x", v)
	}
}
