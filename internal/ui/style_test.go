package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintLogo(t *testing.T) {
	var buf bytes.Buffer
	PrintLogo(&buf)

	if !strings.Contains(buf.String(), "W  B  S  P  L  A  N") {
		t.Errorf("expected logo text, got %q", buf.String())
	}
}

func TestSourceLabel(t *testing.T) {
	for _, source := range []string{"committed", "locked", "baseline", "fallback"} {
		if !strings.Contains(SourceLabel(source), source) {
			t.Errorf("expected label to contain %q", source)
		}
	}
}
