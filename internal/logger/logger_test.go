package logger

import (
	"bytes"
	"os"
	"testing"
)

func TestSetVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if got := buf.String(); got != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")

	if buf.Len() > 0 {
		t.Error("expected no output when verbose is disabled")
	}
}

func TestInfoAndWarn_GatedByVerbose(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)

	SetVerbose(false)
	Info("hidden")
	Warn("hidden")
	if buf.Len() > 0 {
		t.Error("expected no output when verbose is disabled")
	}

	SetVerbose(true)
	Info("shown %d", 1)
	Warn("shown %d", 2)

	got := buf.String()
	if got != "[INFO] shown 1\n[WARN] shown 2\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestError_AlwaysPrints(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("it broke: %v", "reason")

	if got := buf.String(); got != "[ERROR] it broke: reason\n" {
		t.Errorf("unexpected output: %q", got)
	}
}
