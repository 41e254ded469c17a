// Package web provides a display driver that serves the emulator over
// a websocket, so that it can be played from a browser. Frames are
// diffed against the previous one, optionally compressed with brotli,
// and cached on both ends, to keep the bandwidth low enough to stream
// to several clients at once.
package web

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/thelolagemann/gomeboy-dmg/internal/joypad"
	"github.com/thelolagemann/gomeboy-dmg/pkg/display"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

type driver struct {
	emu display.Emulator
	log log.Logger

	addr             string
	compression      bool
	compressionLevel float64
	framePatching    bool
	frameSkipping    bool

	mu  sync.Mutex
	srv *http.Server
}

func init() {
	d := &driver{log: log.New()}
	display.Install("web", d, []display.DriverOption{
		{
			Name:        "addr",
			Default:     ":8090",
			Value:       &d.addr,
			Description: "address to serve the websocket on",
			Type:        "string",
		},
		{
			Name:        "compression",
			Default:     true,
			Value:       &d.compression,
			Description: "compress frames with brotli",
			Type:        "bool",
		},
		{
			Name:        "compression-level",
			Default:     4.0,
			Value:       &d.compressionLevel,
			Description: "brotli quality, 0-11",
			Type:        "float",
		},
		{
			Name:        "frame-patching",
			Default:     true,
			Value:       &d.framePatching,
			Description: "send only the pixels that changed",
			Type:        "bool",
		},
		{
			Name:        "frame-skipping",
			Default:     true,
			Value:       &d.frameSkipping,
			Description: "don't send frames that didn't change",
			Type:        "bool",
		},
	})
}

func (d *driver) Initialize(emu display.Emulator) {
	d.emu = emu
	d.log = emu.Log()
}

func (d *driver) Start(fb <-chan []byte, pressed, released chan<- joypad.Button) error {
	ln, err := net.Listen("tcp", d.addr)
	if err != nil {
		return fmt.Errorf("web: %w", err)
	}
	return d.serve(ln, fb, pressed, released)
}

func (d *driver) serve(ln net.Listener, fb <-chan []byte, pressed, released chan<- joypad.Button) error {
	done := make(chan struct{})
	defer close(done)

	h := newHub(done, d.emu, pressed, released, d.log, settings{
		compression:      d.compression,
		compressionLevel: min(max(int(d.compressionLevel), 0), 11),
		framePatching:    d.framePatching,
		framePatchRatio:  2,
		frameSkipping:    d.frameSkipping,
	})
	srv := &http.Server{Handler: h}
	d.mu.Lock()
	d.srv = srv
	d.mu.Unlock()

	go h.run()
	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(ln)
	}()
	d.log.Infof("web: serving on %s", ln.Addr())

	enc := newEncoder()
	for {
		select {
		case f, ok := <-fb:
			if !ok {
				srv.Close()
				return nil
			}
			msgs, err := enc.encode(f, h.currentSettings())
			if err != nil {
				d.log.Errorf("web: encoding frame: %v", err)
				continue
			}
			for _, msg := range msgs {
				h.send(msg)
			}
		case c := <-h.syncs:
			msg, err := enc.sync()
			if err != nil {
				d.log.Errorf("web: encoding sync: %v", err)
				continue
			}
			h.sendTo(c, msg)
		case err := <-errs:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("web: %w", err)
		}
	}
}

func (d *driver) Stop() error {
	d.mu.Lock()
	srv := d.srv
	d.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Close()
}
