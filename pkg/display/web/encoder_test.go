package web

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/brotli/go/cbrotli"
)

func solidFrame(v byte) []byte {
	return bytes.Repeat([]byte{v}, pixels*3)
}

func TestEncoder(t *testing.T) {
	e := newEncoder()
	s := settings{framePatching: true, framePatchRatio: 2, frameSkipping: true}
	white := solidFrame(0xFF)

	msgs, err := e.encode(white, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0][0] != Frame {
		t.Fatalf("expected a full frame, got %d messages", len(msgs))
	}
	if len(msgs[0]) != 3+pixels*4 {
		t.Errorf("expected %d bytes, got %d", 3+pixels*4, len(msgs[0]))
	}
	if idx := binary.LittleEndian.Uint16(msgs[0][1:]); idx != 0 {
		t.Errorf("expected cache index 0, got %d", idx)
	}

	// unchanged frames are skipped
	for i := 0; i < 3; i++ {
		if msgs, _ := e.encode(white, s); msgs != nil {
			t.Fatalf("expected an unchanged frame to be skipped, got %v", msgs[0][:3])
		}
	}

	// a single pixel is patched
	dot := bytes.Clone(white)
	dot[0], dot[1], dot[2] = 0, 0, 0
	msgs, err = e.encode(dot, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected a skip and a patch, got %d messages", len(msgs))
	}
	if msgs[0][0] != FrameSkip || binary.LittleEndian.Uint32(msgs[0][1:]) != 3 {
		t.Errorf("expected 3 skipped frames, got %v", msgs[0])
	}
	patch := msgs[1]
	if patch[0] != FramePatch {
		t.Fatalf("expected a patch, got type %d", patch[0])
	}
	if !bytes.Equal(patch[3:7], []byte{0, 0, 0, 0xFF}) {
		t.Errorf("expected the changed pixel in the patch, got %v", patch[3:7])
	}
	if patch[10] != 0 {
		t.Errorf("expected unchanged pixels to be transparent, got alpha %d", patch[10])
	}

	// going back to white is a patch of its own
	msgs, _ = e.encode(white, s)
	if len(msgs) != 1 || msgs[0][0] != FramePatch {
		t.Fatalf("expected a patch")
	}

	// the same patch again is served from the cache
	e.encode(dot, s)
	msgs, _ = e.encode(white, s)
	if len(msgs) != 1 || msgs[0][0] != PatchCache {
		t.Fatalf("expected a cached patch, got %v", msgs)
	}
	if idx := binary.LittleEndian.Uint16(msgs[0][1:]); idx != 1 {
		t.Errorf("expected patch cache index 1, got %d", idx)
	}
}

func TestEncoder_FrameCache(t *testing.T) {
	e := newEncoder()
	s := settings{}
	white, black := solidFrame(0xFF), solidFrame(0x00)

	e.encode(white, s)
	e.encode(black, s)
	msgs, _ := e.encode(white, s)
	if len(msgs) != 1 || msgs[0][0] != FrameCache {
		t.Fatalf("expected a cached frame, got %v", msgs)
	}
	if idx := binary.LittleEndian.Uint16(msgs[0][1:]); idx != 0 {
		t.Errorf("expected frame cache index 0, got %d", idx)
	}

	// without frame skipping, unchanged frames are still sent
	msgs, _ = e.encode(white, s)
	if len(msgs) != 1 {
		t.Errorf("expected an unchanged frame to be sent")
	}
}

func TestEncoder_Compression(t *testing.T) {
	e := newEncoder()
	s := settings{compression: true, compressionLevel: 4}

	msgs, err := e.encode(solidFrame(0x60), s)
	if err != nil {
		t.Fatal(err)
	}
	if msgs[0][0] != Frame {
		t.Fatalf("expected a frame, got type %d", msgs[0][0])
	}
	if len(msgs[0]) >= pixels*4 {
		t.Errorf("expected a solid frame to compress, got %d bytes", len(msgs[0]))
	}

	data, err := cbrotli.Decode(msgs[0][3:])
	if err != nil {
		t.Fatal(err)
	}
	expected := bytes.Repeat([]byte{0x60, 0x60, 0x60, 0xFF}, pixels)
	if !bytes.Equal(data, expected) {
		t.Errorf("expected decompressed frame to match")
	}

	sync, err := e.sync()
	if err != nil {
		t.Fatal(err)
	}
	if sync[0] != FrameSync {
		t.Errorf("expected a frame sync, got type %d", sync[0])
	}
	data, err = cbrotli.Decode(sync[1:])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, expected) {
		t.Errorf("expected synced frame to match")
	}
	if e.frameCache.index(0) != -1 || len(e.frameCache.cache[0].data) != 0 {
		t.Errorf("expected sync to empty the cache")
	}
}
