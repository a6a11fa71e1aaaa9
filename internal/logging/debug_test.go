package logging

import (
	"bytes"
	"testing"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv("TODO_DEBUG", "")
	Enable(false)
	if DebugEnabled() {
		t.Error("DebugEnabled() should return false when TODO_DEBUG is empty")
	}

	t.Setenv("TODO_DEBUG", "1")
	if !DebugEnabled() {
		t.Error("DebugEnabled() should return true when TODO_DEBUG is set")
	}

	t.Setenv("TODO_DEBUG", "")
	Enable(true)
	defer Enable(false)
	if !DebugEnabled() {
		t.Error("DebugEnabled() should return true after Enable(true)")
	}
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	t.Setenv("TODO_DEBUG", "")
	Enable(false)
	Debugf("hidden %d\n", 1)
	if buf.Len() != 0 {
		t.Errorf("Debugf wrote %q while disabled", buf.String())
	}

	t.Setenv("TODO_DEBUG", "1")
	Debugf("store: inserted task %d\n", 3)
	if got := buf.String(); got != "store: inserted task 3\n" {
		t.Errorf("Debugf wrote %q", got)
	}
}
