package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/planner"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

func makeTimeline(t *testing.T, deadline time.Time) *planner.Timeline {
	t.Helper()
	// A(2) -> B(10) -> D(1)
	// A(2) -> C(3)  -> D(1)
	acts := []wbs.Activity{
		{ID: "a", Name: "Kickoff", LockedDuration: 2},
		{ID: "b", Name: "Foundation work", IsNegotiable: true, BaselineDuration: 10, Dependencies: []string{"a"}},
		{ID: "c", Name: "Permits", LockedDuration: 3, Dependencies: []string{"a"}},
		{ID: "d", Name: "Handover", LockedDuration: 1, Dependencies: []string{"b", "c"}},
	}
	tl, err := planner.Build(acts, nil, planner.Config{
		Project:      "Test",
		ProjectStart: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Deadline:     deadline,
	})
	if err != nil {
		t.Fatalf("build timeline: %v", err)
	}
	return tl
}

func TestPrintTimeline(t *testing.T) {
	rpt := New(makeTimeline(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))

	var buf bytes.Buffer
	rpt.PrintTimeline(&buf)
	output := buf.String()

	for _, want := range []string{"Test Timeline", "Wave 1", "Wave 3", "Foundation work", "2025-01-28", "on track", "⚡"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestPrintTimeline_Late(t *testing.T) {
	rpt := New(makeTimeline(t, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)))

	var buf bytes.Buffer
	rpt.PrintTimeline(&buf)

	if !strings.Contains(buf.String(), "late by 8 days") {
		t.Errorf("expected late marker, got:\n%s", buf.String())
	}
}

func TestPrintTable(t *testing.T) {
	rpt := New(makeTimeline(t, time.Time{}))

	var buf bytes.Buffer
	rpt.PrintTable(&buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[3], "c") || !strings.Contains(lines[3], "7") {
		t.Errorf("expected row for c with slack 7, got %q", lines[3])
	}
}

func TestPrintGantt(t *testing.T) {
	rpt := New(makeTimeline(t, time.Time{}))

	var buf bytes.Buffer
	rpt.PrintGantt(&buf, 26)
	output := buf.String()

	if !strings.Contains(output, "█") {
		t.Error("expected critical bars")
	}
	if !strings.Contains(output, "▒") {
		t.Error("expected a non-critical bar for c")
	}
	if !strings.Contains(output, "·") {
		t.Error("expected float to be drawn for c")
	}
}

func TestPrintDAG(t *testing.T) {
	rpt := New(makeTimeline(t, time.Time{}))

	var buf bytes.Buffer
	rpt.PrintDAG(&buf)
	output := buf.String()

	if !strings.Contains(output, "Activity Dependency Graph") {
		t.Error("expected graph header")
	}
	if strings.Count(output, "└──→") != 4 {
		t.Errorf("expected 4 edges, got %d", strings.Count(output, "└──→"))
	}
}

func TestPrintDOT(t *testing.T) {
	rpt := New(makeTimeline(t, time.Time{}))

	var buf bytes.Buffer
	rpt.PrintDOT(&buf)
	output := buf.String()

	if !strings.HasPrefix(output, "digraph wbsplan {") {
		t.Errorf("unexpected DOT prefix: %q", output)
	}
	if !strings.Contains(output, `"a" -> "b" [color=red, penwidth=2];`) {
		t.Error("expected a -> b to be highlighted as critical")
	}
	if !strings.Contains(output, `"a" -> "c";`) {
		t.Error("expected a -> c to be a plain edge")
	}
}

func TestJSON(t *testing.T) {
	rpt := New(makeTimeline(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))

	data, err := rpt.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["projected_completion_date"] != "2025-01-28" {
		t.Errorf("expected completion 2025-01-28, got %v", out["projected_completion_date"])
	}
	if out["meets_deadline"] != true {
		t.Errorf("expected meets_deadline true, got %v", out["meets_deadline"])
	}
	if items, ok := out["items"].([]any); !ok || len(items) != 4 {
		t.Errorf("expected 4 items, got %v", out["items"])
	}
}

func TestPrintDOT_EscapesQuotesAndBackslashes(t *testing.T) {
	acts := []wbs.Activity{
		{ID: `x"1`, Name: `Pour "slab"`, LockedDuration: 2},
		{ID: `y\2`, Name: `C:\site`, LockedDuration: 1, Dependencies: []string{`x"1`}},
	}
	tl, err := planner.Build(acts, nil, planner.Config{ProjectStart: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("build timeline: %v", err)
	}

	var buf bytes.Buffer
	New(tl).PrintDOT(&buf)
	output := buf.String()

	for _, want := range []string{
		`  "x\"1" [label="x\"1\nPour \"slab\"\n2d, slack 0"`,
		`  "y\\2" [label="y\\2\nC:\\site\n1d, slack 0"`,
		`  "x\"1" -> "y\\2" [color=red, penwidth=2];`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected DOT output to contain %s, got:\n%s", want, output)
		}
	}
}
