// Package ebiten provides a display driver that shows the emulator in
// a desktop window, using Ebitengine.
//
//	Arrow keys  D-Pad
//	Z / X       A / B
//	Enter       Start
//	Backspace   Select
//	P           Pause
//	R           Reset
//	F5 / F9     Save / load state
//	Escape      Quit
//
// Dropping a ROM, or an archive holding one, onto the window loads it.
package ebiten

import (
	"errors"
	"io/fs"

	ebitengine "github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/thelolagemann/gomeboy-dmg/internal/joypad"
	"github.com/thelolagemann/gomeboy-dmg/internal/ppu"
	"github.com/thelolagemann/gomeboy-dmg/pkg/display"
	"github.com/thelolagemann/gomeboy-dmg/pkg/emulator"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
	"github.com/thelolagemann/gomeboy-dmg/pkg/utils"
)

// keys maps keyboard keys to Game Boy buttons.
var keys = map[ebitengine.Key]joypad.Button{
	ebitengine.KeyZ:          joypad.ButtonA,
	ebitengine.KeyX:          joypad.ButtonB,
	ebitengine.KeyBackspace:  joypad.ButtonSelect,
	ebitengine.KeyEnter:      joypad.ButtonStart,
	ebitengine.KeyArrowRight: joypad.ButtonRight,
	ebitengine.KeyArrowLeft:  joypad.ButtonLeft,
	ebitengine.KeyArrowUp:    joypad.ButtonUp,
	ebitengine.KeyArrowDown:  joypad.ButtonDown,
}

type driver struct {
	emu display.Emulator
	log log.Logger

	scale float64
	title string

	fb                <-chan []byte
	pressed, released chan<- joypad.Button

	tex     *ebitengine.Image
	pix     []byte
	closing bool

	state []byte // the state saved with F5
}

func init() {
	d := &driver{log: log.New()}
	display.Install("ebiten", d, []display.DriverOption{
		{
			Name:        "scale",
			Default:     3.0,
			Value:       &d.scale,
			Description: "window scale factor",
			Type:        "float",
		},
		{
			Name:        "title",
			Default:     "gomeboy",
			Value:       &d.title,
			Description: "window title",
			Type:        "string",
		},
	})
}

func (d *driver) Initialize(emu display.Emulator) {
	d.emu = emu
	d.log = emu.Log()
}

func (d *driver) Start(fb <-chan []byte, pressed, released chan<- joypad.Button) error {
	d.fb, d.pressed, d.released = fb, pressed, released
	d.pix = make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4)

	scale := d.scale
	if scale < 1 {
		scale = 1
	}
	ebitengine.SetWindowTitle(d.title)
	ebitengine.SetWindowSize(int(ppu.ScreenWidth*scale), int(ppu.ScreenHeight*scale))
	ebitengine.SetWindowResizingMode(ebitengine.WindowResizingModeEnabled)

	if err := ebitengine.RunGame(d); err != nil && !errors.Is(err, ebitengine.Termination) {
		return err
	}
	return nil
}

func (d *driver) Stop() error {
	d.closing = true
	return nil
}

func (d *driver) Update() error {
	if d.closing {
		return ebitengine.Termination
	}

	// take the latest frame, if there is one
	select {
	case f, ok := <-d.fb:
		if !ok {
			return ebitengine.Termination
		}
		rgbToRGBA(d.pix, f)
	default:
	}

	for key, button := range keys {
		if inpututil.IsKeyJustPressed(key) {
			d.pressed <- button
		}
		if inpututil.IsKeyJustReleased(key) {
			d.released <- button
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebitengine.KeyP):
		if d.emu.Status() == emulator.Paused {
			d.emu.SendCommand(display.Resume)
		} else {
			d.emu.SendCommand(display.Pause)
		}
	case inpututil.IsKeyJustPressed(ebitengine.KeyR):
		d.emu.SendCommand(display.Reset)
	case inpututil.IsKeyJustPressed(ebitengine.KeyF5):
		d.saveState()
	case inpututil.IsKeyJustPressed(ebitengine.KeyF9):
		d.loadState()
	case inpututil.IsKeyJustPressed(ebitengine.KeyEscape):
		d.emu.SendCommand(display.Close)
		return ebitengine.Termination
	}

	if files := ebitengine.DroppedFiles(); files != nil {
		d.loadDropped(files)
	}

	return nil
}

func (d *driver) saveState() {
	resp := d.emu.SendCommand(display.SaveState)
	if resp.Error != nil {
		d.log.Errorf("ebiten: saving state: %v", resp.Error)
		return
	}
	d.state = resp.Data
	d.log.Infof("ebiten: saved state")
}

func (d *driver) loadState() {
	if d.state == nil {
		d.log.Warnf("ebiten: no state saved yet")
		return
	}
	resp := d.emu.SendCommand(emulator.CommandPacket{Command: emulator.CommandLoadState, Data: d.state})
	if resp.Error != nil {
		d.log.Errorf("ebiten: loading state: %v", resp.Error)
		return
	}
	d.log.Infof("ebiten: loaded state")
}

// loadDropped loads the first regular file dropped onto the window as
// the new ROM. The saved state belonged to the old one, and is dropped.
func (d *driver) loadDropped(files fs.FS) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		d.log.Errorf("ebiten: reading dropped files: %v", err)
		return
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		b, err := fs.ReadFile(files, e.Name())
		if err == nil {
			b, err = utils.Decompress(e.Name(), b)
		}
		if err != nil {
			d.log.Errorf("ebiten: loading %s: %v", e.Name(), err)
			return
		}
		resp := d.emu.SendCommand(emulator.CommandPacket{Command: emulator.CommandLoadROM, Data: b})
		if resp.Error != nil {
			d.log.Errorf("ebiten: loading %s: %v", e.Name(), resp.Error)
			return
		}
		d.state = nil
		d.log.Infof("ebiten: loaded %s", e.Name())
		return
	}
}

func (d *driver) Draw(screen *ebitengine.Image) {
	if d.tex == nil {
		d.tex = ebitengine.NewImage(ppu.ScreenWidth, ppu.ScreenHeight)
	}
	d.tex.WritePixels(d.pix)
	screen.DrawImage(d.tex, nil)
}

func (d *driver) Layout(int, int) (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}

// rgbToRGBA expands an RGB24 frame into an opaque RGBA buffer.
func rgbToRGBA(dst, src []byte) {
	for i, j := 0, 0; i+2 < len(src) && j+3 < len(dst); i, j = i+3, j+4 {
		dst[j], dst[j+1], dst[j+2], dst[j+3] = src[i], src[i+1], src[i+2], 0xFF
	}
}
