package display

import (
	"flag"
	"testing"

	"github.com/thelolagemann/gomeboy-dmg/internal/joypad"
)

type nopDriver struct{}

func (nopDriver) Initialize(Emulator) {}
func (nopDriver) Start(<-chan []byte, chan<- joypad.Button, chan<- joypad.Button) error {
	return nil
}
func (nopDriver) Stop() error { return nil }

func withDrivers(t *testing.T) {
	t.Helper()
	saved := InstalledDrivers
	InstalledDrivers = nil
	t.Cleanup(func() { InstalledDrivers = saved })
}

func TestGetDriver(t *testing.T) {
	withDrivers(t)
	if GetDriver("auto") != nil {
		t.Errorf("expected no driver with none installed")
	}

	first, second := &nopDriver{}, &nopDriver{}
	Install("first", first, nil)
	Install("second", second, nil)

	if GetDriver("auto") != Driver(first) {
		t.Errorf("expected auto to select the first driver")
	}
	if GetDriver("second") != Driver(second) {
		t.Errorf("expected second driver")
	}
	if GetDriver("missing") != nil {
		t.Errorf("expected nil for an unknown driver")
	}
	if names := Names(); len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Errorf("expected [first second], got %v", names)
	}
}

func TestRegisterFlags(t *testing.T) {
	withDrivers(t)

	var addr string
	var scaleA, scaleB float64
	var vsyncA, vsyncB bool
	Install("a", nopDriver{}, []DriverOption{
		{Name: "addr", Default: ":8090", Value: &addr, Type: "string"},
		{Name: "scale", Default: 3.0, Value: &scaleA, Type: "float"},
		{Name: "vsync", Default: false, Value: &vsyncA, Type: "bool"},
	})
	Install("b", nopDriver{}, []DriverOption{
		{Name: "scale", Default: 3.0, Value: &scaleB, Type: "float"},
		{Name: "vsync", Default: false, Value: &vsyncB, Type: "bool"},
	})

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	if scaleA != 3 || scaleB != 3 || addr != ":8090" {
		t.Errorf("expected defaults to be applied, got scale %f/%f addr %q", scaleA, scaleB, addr)
	}

	if err := fs.Parse([]string{"-a-addr", ":9000", "-scale", "4", "-vsync"}); err != nil {
		t.Fatal(err)
	}
	if addr != ":9000" {
		t.Errorf("expected prefixed option to be set, got %q", addr)
	}
	if scaleA != 4 || scaleB != 4 {
		t.Errorf("expected shared option to be set on both drivers, got %f/%f", scaleA, scaleB)
	}
	if !vsyncA || !vsyncB {
		t.Errorf("expected shared bool option to be set on both drivers")
	}
}
