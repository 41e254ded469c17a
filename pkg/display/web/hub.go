package web

import (
	"encoding/binary"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/gomeboy-dmg/internal/joypad"
	"github.com/thelolagemann/gomeboy-dmg/internal/types"
	"github.com/thelolagemann/gomeboy-dmg/pkg/display"
	"github.com/thelolagemann/gomeboy-dmg/pkg/emulator"
	"github.com/thelolagemann/gomeboy-dmg/pkg/log"
)

var errNoTCPInfo = errors.New("web: tcp info unavailable")

const (
	writeWait    = 10 * time.Second
	infoInterval = time.Second
)

type message struct {
	c    *client
	data []byte
}

// hub keeps track of the connected clients, and fans messages out to
// them. The first client to connect is the player, whose input is
// forwarded to the emulator, and everyone else spectates. When the
// player leaves, the longest connected spectator takes over.
type hub struct {
	emu               display.Emulator
	pressed, released chan<- joypad.Button
	log               log.Logger

	clients              map[*client]bool
	broadcast            chan []byte
	unicast              chan message
	register, unregister chan *client
	syncs                chan *client
	done                 <-chan struct{}

	mu        sync.Mutex
	player    *client
	settings  settings
	currentID uint8
}

func newHub(done <-chan struct{}, emu display.Emulator, pressed, released chan<- joypad.Button, l log.Logger, s settings) *hub {
	return &hub{
		emu:        emu,
		pressed:    pressed,
		released:   released,
		log:        l,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte),
		unicast:    make(chan message),
		register:   make(chan *client),
		unregister: make(chan *client),
		syncs:      make(chan *client, 16),
		done:       done,
		settings:   s,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeHTTP upgrades a client connection to a websocket.
func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("web: upgrading %s: %v", r.RemoteAddr, err)
		return
	}

	c := h.newClient(conn, r)
	s := h.currentSettings()
	c.send <- []byte{ClientInfo, ClientStatus, h.info(), uint8(s.compressionLevel), uint8(s.framePatchRatio)}
	if !h.submit(h.register, c) {
		conn.Close()
		return
	}

	// spawn read/write pumps
	go c.writePump()
	go c.readPump()

	select {
	case h.syncs <- c:
	default:
		h.log.Warnf("web: too many clients waiting to sync, dropping %s", c.remoteAddr)
		h.submit(h.unregister, c)
	}
}

// run handles registering clients and delivering messages, until
// done is closed.
func (h *hub) run() {
	t := time.NewTicker(infoInterval)
	defer t.Stop()

	for {
		select {
		case <-h.done:
			for c := range h.clients {
				h.remove(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.mu.Lock()
			assigned := h.player == nil
			if assigned {
				h.player = c
			}
			h.mu.Unlock()
			if assigned {
				h.deliver(c, []byte{PlayerInfo, PlayerAssigned})
			}
		case c := <-h.unregister:
			h.remove(c)
		case m := <-h.unicast:
			if h.clients[m.c] {
				h.deliver(m.c, m.data)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, msg)
			}
		case <-t.C:
			// build information
			data := []byte{ServerInfo}
			for c := range h.clients {
				data = append(data, c.id)
				data = binary.LittleEndian.AppendUint16(data, uint16(c.latency.Load()))
			}
			for c := range h.clients {
				h.deliver(c, data)
			}
		}
	}
}

// deliver queues a message for a client, dropping the client if it
// isn't keeping up.
func (h *hub) deliver(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.log.Warnf("web: dropping slow client %s", c.remoteAddr)
		h.remove(c)
	}
}

func (h *hub) remove(c *client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	close(c.send)

	h.mu.Lock()
	var next *client
	if h.player == c {
		h.player = h.nextPlayer()
		next = h.player
	}
	h.mu.Unlock()

	// notify connected clients that this client has disconnected
	for cl := range h.clients {
		select {
		case cl.send <- []byte{ClientClosing, c.id}:
		default:
		}
	}
	if next != nil {
		select {
		case next.send <- []byte{PlayerInfo, PlayerAssigned}:
		default:
		}
	}
}

// nextPlayer returns the client that has been connected the longest.
func (h *hub) nextPlayer() *client {
	var next *client
	for c := range h.clients {
		if next == nil || c.connectedAt.Before(next.connectedAt) {
			next = c
		}
	}

	return next
}

// submit sends c on ch, unless the hub has stopped.
func (h *hub) submit(ch chan<- *client, c *client) bool {
	select {
	case ch <- c:
		return true
	case <-h.done:
		return false
	}
}

// send broadcasts msg to every client.
func (h *hub) send(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// sendTo queues msg for a single client.
func (h *hub) sendTo(c *client, msg []byte) {
	select {
	case h.unicast <- message{c, msg}:
	case <-h.done:
	}
}

// handle processes a message from a client. It returns false when
// the client is closing.
func (h *hub) handle(c *client, msg []byte) bool {
	switch {
	case msg[0] == Closing:
		return false
	case msg[0] == Control && len(msg) >= 3:
		h.mu.Lock()
		switch msg[1] {
		case Compression:
			h.settings.compression = msg[2] == 1
		case CompressionLevel:
			h.settings.compressionLevel = min(int(msg[2]), 11)
		case FramePatching:
			h.settings.framePatching = msg[2] == 1
		case FrameSkipping:
			h.settings.frameSkipping = msg[2] == 1
		}
		h.mu.Unlock()
		h.send([]byte{ClientInfo, msg[1], msg[2]})
	case len(msg) == 1:
		// pause and play
		if !h.isPlayer(c) {
			return true
		}
		if msg[0] == 0 {
			h.emu.SendCommand(display.Pause)
		} else {
			h.emu.SendCommand(display.Resume)
		}
		h.send([]byte{PlayerInfo, PausePlay, msg[0]})
	case len(msg) == 2 && msg[0] <= joypad.ButtonDown:
		if !h.isPlayer(c) {
			return true
		}
		ch := h.released
		if msg[1] != 0 {
			ch = h.pressed
		}
		select {
		case ch <- msg[0]:
		case <-h.done:
		}
	}
	return true
}

func (h *hub) isPlayer(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.player == c
}

func (h *hub) currentSettings() settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settings
}

// info returns a byte of information containing the various
// hub settings. The byte is constructed as follows:
//
//	Bit 0: Emulator running
//	Bit 2: Compression enabled
//	Bit 3: Frame patching enabled
//	Bit 4: Frame skipping enabled
//	Bit 5: Emulator paused
func (h *hub) info() byte {
	info := uint8(0)
	switch h.emu.Status() {
	case emulator.Running:
		info |= types.Bit0
	case emulator.Paused:
		info |= types.Bit5
	}

	s := h.currentSettings()
	if s.compression {
		info |= types.Bit2
	}
	if s.framePatching {
		info |= types.Bit3
	}
	if s.frameSkipping {
		info |= types.Bit4
	}

	return info
}

// newClient creates a new client for the connection.
func (h *hub) newClient(conn *websocket.Conn, r *http.Request) *client {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentID++
	return &client{
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, 256),
		id:          h.currentID,
		remoteAddr:  r.RemoteAddr,
		userAgent:   r.Header.Get("User-Agent"),
		connectedAt: time.Now(),
	}
}
