package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/thelolagemann/gomeboy-dmg/internal/boot"
	"github.com/thelolagemann/gomeboy-dmg/internal/gameboy"
	"github.com/thelolagemann/gomeboy-dmg/internal/joypad"
	"github.com/thelolagemann/gomeboy-dmg/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-dmg/pkg/display"
	_ "github.com/thelolagemann/gomeboy-dmg/pkg/display/ebiten"
	_ "github.com/thelolagemann/gomeboy-dmg/pkg/display/web"
	"github.com/thelolagemann/gomeboy-dmg/pkg/emulator"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
	"github.com/thelolagemann/gomeboy-dmg/pkg/utils"
)

var (
	_ display.Emulator = &gameboy.GameBoy{}
)

var errDigestMismatch = errors.New("frame digest mismatch")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "goboy: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	romFile := flag.String("rom", "", "The rom file to load, may also be given as the first argument")
	bootROM := flag.String("boot", "", "The boot rom file to load")
	displayDriver := flag.String("driver", "auto", "The display driver to use. Can be auto, ebiten or web")
	paletteName := flag.String("palette", "greyscale", "The palette to use, by name or as four comma separated hex colours")
	logLevel := flag.String("log-level", "info", "The log level: debug, info, warn or error")
	frames := flag.Int("frames", 0, "Run headless for the given number of frames and exit")
	expect := flag.String("expect", "", "The xxhash of the final frame when running headless, in hex")
	screenshot := flag.String("screenshot", "", "Write the final frame to this PNG file when running headless")
	scale := flag.Int("scale", 1, "The scale factor of the screenshot")
	serialOut := flag.Bool("serial", false, "Write bytes sent over the serial port to stdout")
	statsAddr := flag.String("statsview", "", "Serve runtime statistics on this address, e.g. localhost:18066")
	saveInterval := flag.Duration("save-interval", 10*time.Second, "How often to write the save file of battery backed cartridges")

	display.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if *romFile == "" {
		*romFile = flag.Arg(0)
	}
	if *romFile == "" {
		return errors.New("no rom file given")
	}

	logger := log.NewWithLevel(*logLevel)

	rom, err := utils.LoadFile(*romFile)
	if err != nil {
		return err
	}

	p, err := palette.Parse(*paletteName)
	if err != nil {
		return err
	}
	opts := []gameboy.Opt{gameboy.WithLogger(logger), gameboy.WithPalette(p)}

	if *bootROM != "" {
		b, err := utils.LoadFile(*bootROM)
		if err != nil {
			return err
		}
		br, err := boot.Load(b)
		if err != nil {
			return err
		}
		opts = append(opts, gameboy.WithBootROM(br))
	}
	if *serialOut {
		opts = append(opts, gameboy.WithSerialWriter(os.Stdout))
	}

	save, err := emulator.LoadSave(emulator.SavePath(*romFile))
	if err != nil {
		return err
	}

	gb := gameboy.New(opts...)
	header, err := gb.LoadCart(rom, save.Bytes())
	if err != nil {
		return err
	}
	battery := header.CartridgeType.HasBattery()

	if *statsAddr != "" {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(*statsAddr))
			if err := statsview.New().Start(); err != nil {
				logger.Errorf("statsview: %v", err)
			}
		}()
		logger.Infof("stats server available at http://%s/debug/statsview", *statsAddr)
	}

	if *frames > 0 {
		err := runHeadless(gb, *frames, *expect, *screenshot, *scale)
		if battery {
			newSaver(logger, gb, header, save).finish()
		}
		return err
	}

	driver := display.GetDriver(*displayDriver)
	if driver == nil {
		return fmt.Errorf("invalid display driver %q, installed drivers are %v", *displayDriver, display.Names())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sv := newSaver(logger, gb, header, save)
	if battery {
		sv.start(ctx, *saveInterval)
	}

	// attach gameboy to driver
	driver.Initialize(gb)

	fb := make(chan []byte, 1)
	pressed := make(chan joypad.Button, 10)
	released := make(chan joypad.Button, 10)

	go func() {
		gb.Start(ctx, fb, pressed, released)
		// the emulator was closed from the driver or interrupted
		if err := driver.Stop(); err != nil {
			logger.Errorf("stopping display driver: %v", err)
		}
	}()

	err = driver.Start(fb, pressed, released)
	gb.SendCommand(display.Close)

	stop()
	if battery {
		sv.finish()
	}
	return err
}

// runHeadless runs the given number of frames as fast as possible,
// then checks and saves the final frame.
func runHeadless(gb *gameboy.GameBoy, frames int, expect, screenshot string, scale int) error {
	for i := 0; i < frames; i++ {
		gb.Frame()
	}

	digest := gb.FrameDigest()
	fmt.Printf("%016x\n", digest)

	if screenshot != "" {
		img, err := utils.FrameImage(gb.FrameBuffer(), gb.DisplayWidth(), gb.DisplayHeight())
		if err != nil {
			return err
		}
		if err := utils.SaveImage(screenshot, utils.ScaleImage(img, scale)); err != nil {
			return err
		}
	}

	if expect != "" {
		want, err := strconv.ParseUint(expect, 16, 64)
		if err != nil {
			return fmt.Errorf("parsing -expect: %w", err)
		}
		if want != digest {
			return fmt.Errorf("%w: expected %016x, got %016x", errDigestMismatch, want, digest)
		}
	}

	return nil
}
