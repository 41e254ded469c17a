package ram

import (
	"testing"

	"github.com/thelolagemann/gomeboy-dmg/internal/types"
)

func TestRAM(t *testing.T) {
	r := New(0x7F)
	if r.Size() != 0x7F {
		t.Errorf("expected size 0x7F, got 0x%02x", r.Size())
	}
	r.Write(0x7E, 0x42)
	if v := r.Read(0x7E); v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}

	s := types.NewState()
	r.Save(s)
	r.Reset()
	if v := r.Read(0x7E); v != 0x00 {
		t.Errorf("expected reset to zero RAM, got 0x%02x", v)
	}
	r.Load(types.StateFromBytes(s.Bytes()))
	if v := r.Read(0x7E); v != 0x42 {
		t.Errorf("expected 0x42 after load, got 0x%02x", v)
	}
}
