package duration

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

// Source names where an effective duration came from.
type Source string

const (
	SourceCommitted Source = "committed"
	SourceLocked    Source = "locked"
	SourceBaseline  Source = "baseline"
	SourceFallback  Source = "fallback"
)

// Resolution is an effective duration in days and its source.
type Resolution struct {
	Days   int
	Source Source
}

// MissingDurationError reports an activity with no usable positive duration.
type MissingDurationError struct {
	ActivityID string
	Source     Source // the field that was consulted
}

func (e *MissingDurationError) Error() string {
	return fmt.Sprintf("activity %s has no usable duration (%s duration is not positive)", e.ActivityID, e.Source)
}

// Commitments maps an activity id to its committed duration in days.
type Commitments map[string]int

// Index builds a Commitments lookup. When an activity has several
// commitments the last one wins; non-positive durations are skipped.
func Index(cs []wbs.Commitment) Commitments {
	idx := make(Commitments, len(cs))
	for _, c := range cs {
		if c.CommittedDuration > 0 {
			idx[c.ActivityID] = c.CommittedDuration
		}
	}
	return idx
}

// Resolve picks the effective duration of a: a positive commitment first,
// then the locked duration for fixed activities, else the baseline.
func Resolve(a wbs.Activity, cs Commitments) (Resolution, error) {
	if d, ok := cs[a.ID]; ok && d > 0 {
		return Resolution{Days: d, Source: SourceCommitted}, nil
	}

	r := Resolution{Days: a.BaselineDuration, Source: SourceBaseline}
	if !a.IsNegotiable {
		r = Resolution{Days: a.LockedDuration, Source: SourceLocked}
	}
	if r.Days <= 0 {
		return Resolution{}, &MissingDurationError{ActivityID: a.ID, Source: r.Source}
	}
	return r, nil
}

// Effective returns only the number of days Resolve selects.
func Effective(a wbs.Activity, cs Commitments) (int, error) {
	r, err := Resolve(a, cs)
	if err != nil {
		return 0, err
	}
	return r.Days, nil
}

// Resolver supplies durations to the scheduler.
type Resolver interface {
	Resolve(a wbs.Activity) (Resolution, error)
}

// Strict applies the commitment/locked/baseline policy and fails on
// missing data.
type Strict struct {
	Commitments Commitments
}

// NewStrict indexes cs into a Strict resolver.
func NewStrict(cs []wbs.Commitment) *Strict {
	return &Strict{Commitments: Index(cs)}
}

func (s *Strict) Resolve(a wbs.Activity) (Resolution, error) {
	return Resolve(a, s.Commitments)
}

// Fallback substitutes a fixed duration whenever the inner resolver reports
// a MissingDurationError. Other errors pass through.
type Fallback struct {
	Inner Resolver
	Days  int

	mu   sync.Mutex
	used map[string]bool
}

// NewFallback wraps inner with a fallback of days.
func NewFallback(inner Resolver, days int) *Fallback {
	return &Fallback{Inner: inner, Days: days, used: make(map[string]bool)}
}

func (f *Fallback) Resolve(a wbs.Activity) (Resolution, error) {
	r, err := f.Inner.Resolve(a)
	if err == nil {
		return r, nil
	}

	var missing *MissingDurationError
	if !errors.As(err, &missing) || f.Days <= 0 {
		return Resolution{}, err
	}

	f.mu.Lock()
	if f.used == nil {
		f.used = make(map[string]bool)
	}
	f.used[a.ID] = true
	f.mu.Unlock()

	return Resolution{Days: f.Days, Source: SourceFallback}, nil
}

// Substituted returns the sorted ids that received the fallback duration.
func (f *Fallback) Substituted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.used))
	for id := range f.used {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
