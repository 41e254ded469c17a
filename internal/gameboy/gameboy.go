// Package gameboy provides an emulation of a Nintendo Game Boy.
//
// The GameBoy owns every component of the system, and advances them in
// lock step. Each call to Clock executes a single CPU instruction (or
// interrupt dispatch), then feeds the cycles it took to the PPU, the
// OAM DMA controller and the timer.
package gameboy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash"
	"github.com/thelolagemann/gomeboy-dmg/internal/apu"
	"github.com/thelolagemann/gomeboy-dmg/internal/boot"
	"github.com/thelolagemann/gomeboy-dmg/internal/cartridge"
	"github.com/thelolagemann/gomeboy-dmg/internal/cpu"
	"github.com/thelolagemann/gomeboy-dmg/internal/interrupts"
	"github.com/thelolagemann/gomeboy-dmg/internal/joypad"
	"github.com/thelolagemann/gomeboy-dmg/internal/mmu"
	"github.com/thelolagemann/gomeboy-dmg/internal/ppu"
	"github.com/thelolagemann/gomeboy-dmg/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-dmg/internal/serial"
	"github.com/thelolagemann/gomeboy-dmg/internal/timer"
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
	"github.com/thelolagemann/gomeboy-dmg/pkg/emulator"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = cpu.ClockSpeed // 4.194304 MHz
	// CyclesPerFrame is the number of clock cycles per frame.
	CyclesPerFrame = ppu.FrameDots
	// FrameRate is the number of frames the Game Boy displays
	// per second, 4194304 / 70224.
	FrameRate = 59.7275
)

// GameBoy represents a Game Boy. It contains all the components of the Game Boy.
// It is the main entry point for the emulator.
type GameBoy struct {
	CPU *cpu.CPU
	MMU *mmu.MMU
	PPU *ppu.PPU
	DMA *ppu.DMA

	APU        *apu.APU
	Joypad     *joypad.State
	Interrupts *interrupts.Service
	Timer      *timer.Controller
	Serial     *serial.Controller

	log.Logger

	rom       []byte
	bootROM   *boot.ROM
	palette   palette.Palette
	serialOut io.Writer
	debug     bool
	speed     float64

	// mu guards the emulation against commands sent while Start
	// is running a frame.
	mu     sync.Mutex
	cancel context.CancelFunc
	paused atomic.Bool
	status atomic.Int32
}

// New returns a new GameBoy with no cartridge inserted. A cartridge
// is inserted with LoadCart.
func New(opts ...Opt) *GameBoy {
	g := &GameBoy{
		Logger:  log.New(),
		palette: palette.Greyscale,
		speed:   1,
	}
	for _, opt := range opts {
		opt(g)
	}

	irq := interrupts.NewService()
	g.Interrupts = irq
	g.Joypad = joypad.New(irq)
	g.Timer = timer.NewController(irq)
	g.Serial = serial.NewController(irq, g.Logger)
	g.Serial.Attach(g.serialOut)
	g.APU = apu.New()
	g.PPU = ppu.New(irq, g.Logger)
	g.PPU.SetPalette(g.palette)
	g.DMA = ppu.NewDMA(g.PPU)

	g.MMU = mmu.New(irq, g.PPU, g.DMA, g.Joypad, g.Serial, g.Timer, g.APU, g.Logger)
	g.DMA.Attach(g.MMU)
	g.CPU = cpu.NewCPU(g.MMU, irq)
	g.CPU.Debug = g.debug

	g.reset()

	return g
}

// LoadCart inserts the given ROM, restoring the cartridge RAM from ram
// when it isn't empty, and resets the Game Boy. Header warnings are
// logged, errors from validating the header are returned wrapped.
func (g *GameBoy) LoadCart(rom, ram []byte) (*cartridge.Header, error) {
	cart, err := cartridge.New(rom, g.Logger)
	if err != nil {
		return nil, fmt.Errorf("gameboy: loading cartridge: %w", err)
	}
	if len(ram) > 0 {
		cart.LoadRAM(ram)
	}

	for _, w := range cart.Header().Warnings {
		g.Warnf("cartridge: %s", w)
	}

	g.rom = rom
	g.MMU.AttachCartridge(cart)
	g.reset()

	g.Infof("loaded cartridge %s", cart.Header())
	return cart.Header(), nil
}

// Cartridge returns the inserted cartridge, or nil.
func (g *GameBoy) Cartridge() cartridge.Cartridge {
	return g.MMU.Cart
}

// CartRAM returns a copy of the cartridge RAM, or nil when no
// cartridge is inserted. It is safe to call while Start is running.
func (g *GameBoy) CartRAM() []byte {
	_, ram := g.CartSnapshot()
	return ram
}

// CartSnapshot returns the header of the inserted cartridge together
// with a copy of its RAM, both taken under the lock Start and
// SendCommand hold. Both are nil without a cartridge.
func (g *GameBoy) CartSnapshot() (*cartridge.Header, []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.MMU.Cart == nil {
		return nil, nil
	}
	return g.MMU.Cart.Header(), bytes.Clone(g.MMU.Cart.RAM())
}

// Reset returns the Game Boy to its power on state. The cartridge is
// recreated from its ROM, but keeps the contents of its RAM, as a
// battery would.
func (g *GameBoy) Reset() {
	if g.MMU.Cart != nil {
		ram := bytes.Clone(g.MMU.Cart.RAM())
		cart, err := cartridge.New(g.rom, g.Logger)
		if err != nil {
			// the ROM was validated when it was loaded
			panic(fmt.Errorf("gameboy: recreating cartridge: %w", err))
		}
		cart.LoadRAM(ram)
		g.MMU.AttachCartridge(cart)
	}
	g.reset()
}

func (g *GameBoy) reset() {
	g.Interrupts.Reset()
	g.Joypad.Reset()
	g.Timer.Reset()
	g.Serial.Reset()
	g.APU.Reset()
	g.PPU.Reset()
	g.DMA.Reset()
	g.MMU.SetBootROM(g.bootROM)
	g.MMU.Reset()
	g.CPU.Reset()

	if g.bootROM == nil {
		g.skipBoot()
	}
}

// postBootIO holds the IO registers as the DMG boot ROM leaves them.
// NR52 comes first, as the other sound registers ignore writes
// while the APU is off.
var postBootIO = []struct {
	address uint16
	value   uint8
}{
	{types.NR52, 0xF1},
	{0xFF10, 0x80}, {0xFF11, 0xBF}, {0xFF12, 0xF3}, {0xFF14, 0xBF},
	{0xFF16, 0x3F}, {0xFF19, 0xBF},
	{0xFF1A, 0x7F}, {0xFF1B, 0xFF}, {0xFF1C, 0x9F}, {0xFF1E, 0xBF},
	{0xFF20, 0xFF}, {0xFF23, 0xBF},
	{0xFF24, 0x77}, {0xFF25, 0xF3},
	{types.LCDC, 0x91},
	{types.STAT, 0x85},
	{types.BGP, 0xFC},
	{types.OBP0, 0xFF},
	{types.OBP1, 0xFF},
	{types.TAC, 0xF8},
	{types.IF, 0xE1},
}

// skipBoot puts the Game Boy in the state the boot ROM would have
// left it in.
func (g *GameBoy) skipBoot() {
	g.CPU.SkipBoot()
	for _, r := range postBootIO {
		g.MMU.Write(r.address, r.value)
	}
	g.Timer.SetCounter(0xABCC)
}

// Clock executes a single CPU instruction slot and advances the rest
// of the hardware by the cycles it took, which are returned.
func (g *GameBoy) Clock() uint16 {
	cycles := uint16(g.CPU.Step())
	g.PPU.Tick(cycles)
	g.DMA.Tick(cycles)
	g.Timer.Tick(cycles)
	return cycles
}

// Cycle is an alias for Clock.
func (g *GameBoy) Cycle() uint16 {
	return g.Clock()
}

// Frame steps the emulation until the PPU has finished the current
// frame. With the LCD off no frame is ever finished, so at most a
// frame's worth of cycles is run.
func (g *GameBoy) Frame() {
	frame := g.PPU.Frame()
	for cycles := 0; cycles < CyclesPerFrame && g.PPU.Frame() == frame; {
		cycles += int(g.Clock())
	}
}

// KeyPress presses the given button.
func (g *GameBoy) KeyPress(button joypad.Button) {
	g.Joypad.Press(button)
}

// KeyLift releases the given button.
func (g *GameBoy) KeyLift(button joypad.Button) {
	g.Joypad.Release(button)
}

// PPUFrame returns the index of the last frame the PPU completed.
func (g *GameBoy) PPUFrame() uint16 {
	return g.PPU.Frame()
}

// FrameBuffer returns the last frame as RGB24. The slice is owned by
// the PPU and is overwritten by the next frame.
func (g *GameBoy) FrameBuffer() []byte {
	return g.PPU.FrameBuffer()
}

// FrameDigest returns the xxhash of the current frame buffer, which
// is what headless runs compare against an expected result.
func (g *GameBoy) FrameDigest() uint64 {
	return xxhash.Sum64(g.FrameBuffer())
}

func (g *GameBoy) DisplayWidth() int {
	return ppu.ScreenWidth
}

func (g *GameBoy) DisplayHeight() int {
	return ppu.ScreenHeight
}

// Start runs the emulation in real time until ctx is cancelled or a
// CommandClose is received. Each frame a copy of the frame buffer is
// sent on fb, dropping it if the receiver isn't ready, and buttons
// received on pressed and released are forwarded to the joypad.
func (g *GameBoy) Start(ctx context.Context, fb chan<- []byte, pressed, released <-chan joypad.Button) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.mu.Lock()
	g.cancel = cancel
	speed := g.speed
	g.mu.Unlock()

	g.setStatus(emulator.Running)
	defer func() {
		if r := recover(); r != nil {
			g.setStatus(emulator.Errored)
			g.Errorf("emulation stopped at PC 0x%04X: %v", g.CPU.PC, r)
			panic(r)
		}
		g.setStatus(emulator.Stopped)
	}()

	ticker := time.NewTicker(frameInterval(speed))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case b := <-pressed:
			g.mu.Lock()
			g.KeyPress(b)
			g.mu.Unlock()
		case b := <-released:
			g.mu.Lock()
			g.KeyLift(b)
			g.mu.Unlock()
		case <-ticker.C:
			if g.paused.Load() {
				continue
			}

			g.mu.Lock()
			if g.speed != speed {
				speed = g.speed
				ticker.Reset(frameInterval(speed))
			}
			g.Frame()
			frame := bytes.Clone(g.FrameBuffer())
			g.mu.Unlock()

			select {
			case fb <- frame:
			default:
			}
		}
	}
}

func frameInterval(speed float64) time.Duration {
	return time.Duration(float64(time.Second) / (FrameRate * speed))
}

// SendCommand handles a command from a display driver, returning
// its response.
func (g *GameBoy) SendCommand(command emulator.CommandPacket) emulator.ResponsePacket {
	resp := emulator.ResponsePacket{Command: command.Command}

	switch command.Command {
	case emulator.CommandPause:
		g.paused.Store(true)
		if g.Status() == emulator.Running {
			g.setStatus(emulator.Paused)
		}
	case emulator.CommandResume:
		g.paused.Store(false)
		if g.Status() == emulator.Paused {
			g.setStatus(emulator.Running)
		}
	case emulator.CommandClose:
		g.mu.Lock()
		if g.cancel != nil {
			g.cancel()
		}
		g.mu.Unlock()
	case emulator.CommandReset:
		g.mu.Lock()
		g.Reset()
		g.mu.Unlock()
	case emulator.CommandLoadROM:
		g.mu.Lock()
		_, resp.Error = g.LoadCart(command.Data, nil)
		g.mu.Unlock()
	case emulator.CommandSaveState:
		g.mu.Lock()
		resp.Data = g.SaveState()
		g.mu.Unlock()
	case emulator.CommandLoadState:
		g.mu.Lock()
		resp.Error = g.LoadState(command.Data)
		g.mu.Unlock()
	case emulator.CommandSetSpeed:
		speed, ok := command.Speed()
		if !ok {
			resp.Error = fmt.Errorf("gameboy: invalid speed %v", command.Data)
			break
		}
		g.mu.Lock()
		g.speed = speed
		g.mu.Unlock()
	default:
		resp.Error = fmt.Errorf("gameboy: unknown command %s", command.Command)
	}

	return resp
}

// Speed returns the speed multiplier of the emulation.
func (g *GameBoy) Speed() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.speed
}

// Status returns the status of the emulation.
// Log returns the logger the emulator was created with.
func (g *GameBoy) Log() log.Logger {
	return g.Logger
}

func (g *GameBoy) Status() emulator.Status {
	return emulator.Status(g.status.Load())
}

func (g *GameBoy) setStatus(s emulator.Status) {
	g.status.Store(int32(s))
}

// Paused returns true while the emulation is paused.
func (g *GameBoy) Paused() bool {
	return g.paused.Load()
}
