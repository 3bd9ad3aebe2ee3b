package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelsFilterOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Debug("hidden")
	log.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line leaked at normal level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info line missing at normal level")
	}

	log.SetLevel(LevelVerbose)
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("debug line missing at verbose level")
	}
}

func TestOffSilencesEverything(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelOff, &buf)

	log.Debug("a")
	log.Info("b")
	log.Warn("c")
	log.Error("d")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestNamedPrefixesMessages(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Named("registry").Info("tick")
	if !strings.Contains(buf.String(), "registry: tick") {
		t.Errorf("missing component prefix in %q", buf.String())
	}
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)
	child := log.Named("monitor")

	log.SetLevel(LevelOff)
	child.Info("should not appear")
	if buf.Len() != 0 {
		t.Errorf("child ignored parent level change: %q", buf.String())
	}
}
