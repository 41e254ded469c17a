package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_Writer(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.Warnf("ram disabled: %04X", 0xA000)

	out := buf.String()
	if !strings.Contains(out, "level=warning") {
		t.Errorf("expected warning level in %q", out)
	}
	if !strings.Contains(out, "ram disabled: A000") {
		t.Errorf("expected message in %q", out)
	}
}

func TestLogger_Null(t *testing.T) {
	l := NewNullLogger()
	// should not panic
	l.Infof("%d", 1)
	l.Debugf("%d", 2)
}
