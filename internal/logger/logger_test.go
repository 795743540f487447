package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug message written at info level: %q", buf.String())
	}

	New(&buf, true).Debug("shown", "kind", "hypertable")
	if !strings.Contains(buf.String(), "msg=shown") || !strings.Contains(buf.String(), "kind=hypertable") {
		t.Errorf("unexpected debug output: %q", buf.String())
	}
}

func TestSetGlobal(t *testing.T) {
	t.Cleanup(func() { SetGlobal(nil, false) })

	var buf bytes.Buffer
	l := New(&buf, true)
	SetGlobal(l, true)

	if Get() != l {
		t.Error("Get() did not return the global logger")
	}
	if !IsDebug() {
		t.Error("IsDebug() = false after SetGlobal(..., true)")
	}

	SetGlobal(nil, false)
	if Get() == nil {
		t.Error("Get() should fall back to a default logger")
	}
}

func TestComponent(t *testing.T) {
	t.Cleanup(func() { SetGlobal(nil, false) })

	var buf bytes.Buffer
	SetGlobal(New(&buf, false), false)

	Component("diff").Warn("dimension cannot be removed")
	if !strings.Contains(buf.String(), "component=diff") {
		t.Errorf("component attribute missing: %q", buf.String())
	}
}
