package web

import (
	"bytes"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/gomeboy-dmg/internal/joypad"
	"github.com/thelolagemann/gomeboy-dmg/pkg/emulator"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

type fakeEmulator struct {
	mu       sync.Mutex
	commands []emulator.Command
	log      log.Logger
}

func (f *fakeEmulator) SendCommand(p emulator.CommandPacket) emulator.ResponsePacket {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, p.Command)
	return emulator.ResponsePacket{Command: p.Command}
}

func (f *fakeEmulator) Speed() float64 { return 1 }
func (f *fakeEmulator) Status() emulator.Status { return emulator.Running }

func (f *fakeEmulator) Log() log.Logger {
	if f.log == nil {
		return log.NewNullLogger()
	}
	return f.log
}

func (f *fakeEmulator) sent() []emulator.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]emulator.Command(nil), f.commands...)
}

// readUntil reads messages from conn until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ Type) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("expected message type %d, got error %v", typ, err)
		}
		if len(msg) > 0 && msg[0] == typ {
			return msg
		}
	}
}

func TestDriver(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	emu := &fakeEmulator{}
	d := &driver{log: log.NewNullLogger(), framePatching: true, frameSkipping: true}
	d.Initialize(emu)

	fb := make(chan []byte)
	pressed := make(chan joypad.Button, 1)
	released := make(chan joypad.Button, 1)
	served := make(chan error, 1)
	go func() {
		served <- d.serve(ln, fb, pressed, released)
	}()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if len(msg) != 5 || msg[0] != ClientInfo || msg[1] != ClientStatus {
		t.Fatalf("expected client info first, got %v", msg)
	}
	if msg[2]&0x1 == 0 {
		t.Errorf("expected running bit in %08b", msg[2])
	}
	if msg[2]&(1<<2) != 0 {
		t.Errorf("expected compression to be disabled in %08b", msg[2])
	}

	if msg := readUntil(t, conn, PlayerInfo); msg[1] != PlayerAssigned {
		t.Errorf("expected the first client to be the player, got %v", msg)
	}
	readUntil(t, conn, FrameSync)

	// frames are broadcast
	frame := make([]byte, pixels*3)
	for i := range frame {
		frame[i] = 0xFF
	}
	fb <- frame
	msg = readUntil(t, conn, Frame)
	if len(msg) != 3+pixels*4 {
		t.Errorf("expected %d bytes, got %d", 3+pixels*4, len(msg))
	}

	// input from the player is forwarded
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{joypad.ButtonA, 1}); err != nil {
		t.Fatal(err)
	}
	select {
	case b := <-pressed:
		if b != joypad.ButtonA {
			t.Errorf("expected button %d, got %d", joypad.ButtonA, b)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected button press to be forwarded")
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{joypad.ButtonA, 0}); err != nil {
		t.Fatal(err)
	}
	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("expected button release to be forwarded")
	}

	// and so is pausing
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{0}); err != nil {
		t.Fatal(err)
	}
	if msg := readUntil(t, conn, PlayerInfo); msg[1] != PausePlay || msg[2] != 0 {
		t.Errorf("expected pause to be broadcast, got %v", msg)
	}
	if cmds := emu.sent(); len(cmds) != 1 || cmds[0] != emulator.CommandPause {
		t.Errorf("expected a pause command, got %v", cmds)
	}

	// settings changes are echoed
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{Control, FrameSkipping, 0}); err != nil {
		t.Fatal(err)
	}
	if msg := readUntil(t, conn, ClientInfo); msg[1] != FrameSkipping || msg[2] != 0 {
		t.Errorf("expected settings change to be echoed, got %v", msg)
	}

	if err := d.Stop(); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected serve to return after stop")
	}
}

func TestDriver_Logger(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	d := &driver{log: log.NewNullLogger()}
	d.Initialize(&fakeEmulator{log: log.NewWithWriter(&out)})

	fb := make(chan []byte)
	served := make(chan error, 1)
	go func() {
		served <- d.serve(ln, fb, make(chan joypad.Button), make(chan joypad.Button))
	}()
	close(fb)

	select {
	case err := <-served:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected serve to return once the frames stop")
	}
	if !strings.Contains(out.String(), "web: serving on") {
		t.Errorf("expected the emulator's logger to be used, got '%s'", out.String())
	}
}

func TestHub_Spectator(t *testing.T) {
	emu := &fakeEmulator{}
	done := make(chan struct{})
	defer close(done)
	pressed := make(chan joypad.Button, 1)
	h := newHub(done, emu, pressed, pressed, log.NewNullLogger(), settings{})

	player, spectator := &client{hub: h}, &client{hub: h}
	h.player = player

	h.handle(spectator, []byte{joypad.ButtonStart, 1})
	h.handle(spectator, []byte{0})
	select {
	case b := <-pressed:
		t.Errorf("expected spectator input to be ignored, got button %d", b)
	default:
	}
	if cmds := emu.sent(); len(cmds) != 0 {
		t.Errorf("expected no commands from a spectator, got %v", cmds)
	}

	if h.handle(spectator, []byte{Closing}) {
		t.Errorf("expected closing message to end the client")
	}
}

func TestHub_NextPlayer(t *testing.T) {
	h := newHub(make(chan struct{}), &fakeEmulator{}, nil, nil, log.NewNullLogger(), settings{})
	now := time.Now()
	first := &client{hub: h, send: make(chan []byte, 4), connectedAt: now}
	second := &client{hub: h, send: make(chan []byte, 4), connectedAt: now.Add(time.Second)}
	third := &client{hub: h, send: make(chan []byte, 4), connectedAt: now.Add(2 * time.Second)}
	h.clients[first], h.clients[second], h.clients[third] = true, true, true
	h.player = first

	h.remove(first)
	if h.player != second {
		t.Fatalf("expected the longest connected client to take over")
	}
	if msg := <-second.send; msg[0] != ClientClosing {
		t.Errorf("expected closing notification, got %v", msg)
	}
	if msg := <-second.send; msg[0] != PlayerInfo || msg[1] != PlayerAssigned {
		t.Errorf("expected player assignment, got %v", msg)
	}
	if _, ok := <-first.send; ok {
		t.Errorf("expected removed client's channel to be closed")
	}
}

func TestCache(t *testing.T) {
	c := newCache(2)
	if c.index(1) != -1 {
		t.Errorf("expected empty cache to miss")
	}
	if idx := c.add(1, []byte{1}); idx != 0 {
		t.Errorf("expected index 0, got %d", idx)
	}
	if idx := c.add(2, []byte{2}); idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
	c.add(3, []byte{3})
	if c.index(1) != -1 {
		t.Errorf("expected oldest entry to be evicted")
	}
	if c.index(3) != 0 || c.index(2) != 1 {
		t.Errorf("expected entries at 0 and 1, got %d and %d", c.index(3), c.index(2))
	}
}
