package plan

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })
	return &buf
}

func TestDebugfRespectsVerbose(t *testing.T) {
	buf := captureLog(t)

	SetVerbose(false)
	Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("debug output with verbose off: %q", buf.String())
	}

	SetVerbose(true)
	defer SetVerbose(false)
	Debugf("shown %d", 2)
	if !strings.Contains(buf.String(), "[DEBUG] shown 2") {
		t.Errorf("missing debug line: %q", buf.String())
	}
}

func TestErrorfAlwaysPrints(t *testing.T) {
	buf := captureLog(t)

	SetVerbose(false)
	Errorf("boom: %s", "reason")
	if !strings.Contains(buf.String(), "[ERROR] boom: reason") {
		t.Errorf("missing error line: %q", buf.String())
	}
}
