package duration

import (
	"errors"
	"testing"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

func TestResolve_CommitmentOverridesBaseline(t *testing.T) {
	a := wbs.Activity{ID: "1.3.1", IsNegotiable: true, BaselineDuration: 30}
	cs := Index([]wbs.Commitment{{ActivityID: "1.3.1", CommittedDuration: 20}})

	got, err := Effective(a, cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 20 {
		t.Errorf("expected committed duration 20, got %d", got)
	}
}

func TestResolve_CommitmentOverridesLocked(t *testing.T) {
	a := wbs.Activity{ID: "2.1", IsNegotiable: false, LockedDuration: 45}
	r, err := Resolve(a, Commitments{"2.1": 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Days != 40 || r.Source != SourceCommitted {
		t.Errorf("expected 40/committed, got %d/%s", r.Days, r.Source)
	}
}

func TestResolve_LockedForFixedActivities(t *testing.T) {
	a := wbs.Activity{ID: "1.1", IsNegotiable: false, LockedDuration: 14, BaselineDuration: 99}
	r, err := Resolve(a, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Days != 14 || r.Source != SourceLocked {
		t.Errorf("expected 14/locked, got %d/%s", r.Days, r.Source)
	}
}

func TestResolve_BaselineForNegotiable(t *testing.T) {
	a := wbs.Activity{ID: "1.3.2", IsNegotiable: true, BaselineDuration: 60, LockedDuration: 5}
	r, err := Resolve(a, Commitments{"other": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Days != 60 || r.Source != SourceBaseline {
		t.Errorf("expected 60/baseline, got %d/%s", r.Days, r.Source)
	}
}

func TestResolve_MissingDuration(t *testing.T) {
	tests := []struct {
		name   string
		a      wbs.Activity
		source Source
	}{
		{"negotiable without baseline", wbs.Activity{ID: "x", IsNegotiable: true, LockedDuration: 10}, SourceBaseline},
		{"fixed without locked", wbs.Activity{ID: "y", IsNegotiable: false, BaselineDuration: 10}, SourceLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Effective(tt.a, nil)
			var missing *MissingDurationError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingDurationError, got %v", err)
			}
			if missing.ActivityID != tt.a.ID {
				t.Errorf("expected activity %s in error, got %s", tt.a.ID, missing.ActivityID)
			}
			if missing.Source != tt.source {
				t.Errorf("expected source %s, got %s", tt.source, missing.Source)
			}
		})
	}
}

func TestIndex_LastWinsAndSkipsNonPositive(t *testing.T) {
	idx := Index([]wbs.Commitment{
		{ActivityID: "a", CommittedDuration: 10},
		{ActivityID: "a", CommittedDuration: 12},
		{ActivityID: "b", CommittedDuration: 0},
	})
	if idx["a"] != 12 {
		t.Errorf("expected last commitment 12 for a, got %d", idx["a"])
	}
	if _, ok := idx["b"]; ok {
		t.Error("expected zero-duration commitment for b to be skipped")
	}
}

func TestFallback_SubstitutesMissing(t *testing.T) {
	f := NewFallback(NewStrict(nil), 30)

	r, err := f.Resolve(wbs.Activity{ID: "gap", IsNegotiable: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Days != 30 || r.Source != SourceFallback {
		t.Errorf("expected 30/fallback, got %d/%s", r.Days, r.Source)
	}

	r, err = f.Resolve(wbs.Activity{ID: "ok", IsNegotiable: true, BaselineDuration: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Days != 7 || r.Source != SourceBaseline {
		t.Errorf("expected 7/baseline, got %d/%s", r.Days, r.Source)
	}

	if got := f.Substituted(); len(got) != 1 || got[0] != "gap" {
		t.Errorf("expected substituted [gap], got %v", got)
	}
}

func TestFallback_DisabledWithZeroDays(t *testing.T) {
	f := NewFallback(NewStrict(nil), 0)
	_, err := f.Resolve(wbs.Activity{ID: "gap", IsNegotiable: true})
	var missing *MissingDurationError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDurationError, got %v", err)
	}
}
