package web

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/google/brotli/go/cbrotli"
	"github.com/thelolagemann/gomeboy-dmg/internal/ppu"
)

const (
	pixels    = ppu.ScreenWidth * ppu.ScreenHeight
	cacheSize = 64
)

// settings control how frames are encoded, they are changed by
// clients at runtime.
type settings struct {
	compression      bool
	compressionLevel int
	framePatching    bool
	// framePatchRatio is the fraction of the screen, in fifths,
	// that may change for a patch to be sent instead of a frame.
	framePatchRatio int
	frameSkipping   bool
}

// encoder turns the frames of the emulator into the messages sent
// to clients. Every message carrying pixels is either a full frame or
// a patch, which holds only the pixels that changed, with the rest
// left transparent. Both are stored in a cache that clients mirror, so
// that repeated frames and patches are sent as a cache index.
type encoder struct {
	current, dirty         []byte
	patchCache, frameCache *cache
	skipped                uint32
}

func newEncoder() *encoder {
	return &encoder{
		current:    make([]byte, pixels*4),
		dirty:      make([]byte, pixels*4),
		patchCache: newCache(cacheSize),
		frameCache: newCache(cacheSize),
	}
}

// encode returns the messages that bring clients up to date with the
// given RGB24 frame, which may be none when frame skipping is enabled
// and nothing changed.
func (e *encoder) encode(fb []byte, s settings) ([][]byte, error) {
	clear(e.dirty)
	dirtied := 0
	for i := 0; i < pixels; i++ {
		r, g, b := fb[i*3], fb[i*3+1], fb[i*3+2]
		if e.current[i*4] != r || e.current[i*4+1] != g || e.current[i*4+2] != b || e.current[i*4+3] != 0xFF {
			e.dirty[i*4], e.dirty[i*4+1], e.dirty[i*4+2], e.dirty[i*4+3] = r, g, b, 0xFF
			dirtied++
		}
		e.current[i*4], e.current[i*4+1], e.current[i*4+2], e.current[i*4+3] = r, g, b, 0xFF
	}

	if dirtied == 0 && s.frameSkipping {
		e.skipped++
		return nil, nil
	}

	var msgs [][]byte
	if e.skipped > 0 {
		msgs = append(msgs, binary.LittleEndian.AppendUint32([]byte{FrameSkip}, e.skipped))
		e.skipped = 0
	}

	typ, cached, c, buffer := Frame, FrameCache, e.frameCache, e.current
	if s.framePatching && dirtied < s.framePatchRatio*pixels/5 {
		typ, cached, c, buffer = FramePatch, PatchCache, e.patchCache, e.dirty
	}

	hash := xxhash.Sum64(buffer)
	if idx := c.index(hash); idx != -1 {
		return append(msgs, binary.LittleEndian.AppendUint16([]byte{cached}, uint16(idx))), nil
	}

	output, err := compress(buffer, s)
	if err != nil {
		return nil, err
	}
	idx := c.add(hash, output)
	msg := binary.LittleEndian.AppendUint16([]byte{typ}, uint16(idx))
	return append(msgs, append(msg, output...)), nil
}

// sync returns the message that brings a newly connected client up to
// date. The caches are emptied, as the new client has none, and every
// client empties its own on receiving it.
func (e *encoder) sync() ([]byte, error) {
	e.patchCache = newCache(cacheSize)
	e.frameCache = newCache(cacheSize)

	frame, err := cbrotli.Encode(e.current, cbrotli.WriterOptions{Quality: 9})
	if err != nil {
		return nil, err
	}
	return append([]byte{FrameSync}, frame...), nil
}

func compress(buffer []byte, s settings) ([]byte, error) {
	if !s.compression {
		return bytes.Clone(buffer), nil
	}
	return cbrotli.Encode(buffer, cbrotli.WriterOptions{Quality: s.compressionLevel})
}
