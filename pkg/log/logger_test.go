package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelsFilterOutput(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)
	defer SetLevel(Notice)

	logger := New("test")

	SetLevel(Notice)
	logger.Info("hidden")
	logger.Notice("shown")

	SetLevel(Debug)
	logger.Debugf("debug %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info message should be filtered at notice level:\n%s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("Expected notice message in output:\n%s", out)
	}
	if !strings.Contains(out, "debug 42") {
		t.Errorf("Expected debug message after raising verbosity:\n%s", out)
	}
	if !strings.Contains(out, "[test]") {
		t.Errorf("Expected module name in output:\n%s", out)
	}
}

func TestModuleLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)
	defer SetLevel(Notice)
	defer ResetModuleLevels()

	SetLevel(Notice)
	SetModuleLevel(ModuleLoaders, Debug)

	loaders := New(ModuleLoaders)
	renderer := New(ModuleRenderer)
	loaders.Debug("loader detail")
	renderer.Debug("renderer detail")

	// Overrides survive a sink change
	var other bytes.Buffer
	SetSink(&other)
	loaders.Debug("after sink change")

	if !strings.Contains(buf.String(), "loader detail") {
		t.Errorf("Expected debug output from %s:\n%s", ModuleLoaders, buf.String())
	}
	if strings.Contains(buf.String(), "renderer detail") {
		t.Errorf("Debug output from %s should be filtered:\n%s", ModuleRenderer, buf.String())
	}
	if !strings.Contains(other.String(), "after sink change") {
		t.Errorf("Expected override to survive SetSink:\n%s", other.String())
	}

	ResetModuleLevels()
	other.Reset()
	loaders.Debug("after reset")
	if strings.Contains(other.String(), "after reset") {
		t.Errorf("Expected override to be dropped:\n%s", other.String())
	}
}
