package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/calendar"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/cpm"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/duration"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

// Build computes the schedule of activities and maps it onto the calendar.
//
// When an activity has no usable duration and cfg.FallbackDays is positive,
// the computation is repeated with that many days substituted for every such
// activity, and the substitutions are listed in Timeline.Fallbacks. Cycles
// are always returned as errors.
func Build(activities []wbs.Activity, commitments []wbs.Commitment, cfg Config) (*Timeline, error) {
	sched, err := cpm.Compute(activities, commitments)

	var fallbacks []string
	var missing *duration.MissingDurationError
	if errors.As(err, &missing) && cfg.FallbackDays > 0 {
		slog.Warn("activity has no usable duration, retrying with fallback",
			"activity", missing.ActivityID, "fallback_days", cfg.FallbackDays)

		fb := duration.NewFallback(duration.NewStrict(commitments), cfg.FallbackDays)
		sched, err = cpm.ComputeWith(activities, fb)
		fallbacks = fb.Substituted()
	}
	if err != nil {
		return nil, fmt.Errorf("compute schedule: %w", err)
	}

	logDangling(sched)
	return newTimeline(activities, sched, cfg, fallbacks), nil
}

// BuildDegraded renders the dependency-free placeholder schedule. Use it only
// to show something when Build fails; the result is flagged Degraded.
func BuildDegraded(activities []wbs.Activity, commitments []wbs.Commitment, cfg Config) (*Timeline, error) {
	var resolver duration.Resolver = duration.NewStrict(commitments)
	var fb *duration.Fallback
	if cfg.FallbackDays > 0 {
		fb = duration.NewFallback(resolver, cfg.FallbackDays)
		resolver = fb
	}

	sched, err := cpm.Degraded(activities, resolver)
	if err != nil {
		return nil, fmt.Errorf("degraded schedule: %w", err)
	}
	slog.Warn("using degraded schedule, dependencies ignored", "activities", len(sched.Order))

	var fallbacks []string
	if fb != nil {
		fallbacks = fb.Substituted()
	}
	return newTimeline(activities, sched, cfg, fallbacks), nil
}

func logDangling(sched *cpm.Schedule) {
	for _, id := range sched.Order {
		if missing, ok := sched.Dangling[id]; ok {
			slog.Warn("dependency references unknown activity, edge ignored", "activity", id, "missing", missing)
		}
	}
}

func newTimeline(activities []wbs.Activity, sched *cpm.Schedule, cfg Config, fallbacks []string) *Timeline {
	start := cfg.ProjectStart
	date := func(offset int) string {
		return calendar.FormatDate(calendar.DayOffsetToDate(offset, start))
	}

	tl := &Timeline{
		Project:           cfg.Project,
		GeneratedAt:       time.Now(),
		ProjectStart:      calendar.FormatDate(start),
		TotalDurationDays: sched.ProjectEnd,
		CriticalPath:      sched.CriticalPath,
		CriticalChain:     sched.CriticalChain(),
		Deps: Deps{
			Predecessors: make(map[string][]string),
			Successors:   make(map[string][]string),
		},
		Fallbacks: fallbacks,
		Degraded:  sched.Degraded,
		Schedule:  sched,
	}

	meta := make(map[string]wbs.Activity, len(activities))
	for _, a := range activities {
		if _, dup := meta[a.ID]; !dup {
			meta[a.ID] = a
		}
	}

	for _, id := range sched.Order {
		ts := sched.Activities[id]
		a := meta[id]
		tl.Items = append(tl.Items, TimelineItem{
			ActivityID:     id,
			Name:           a.Name,
			IsNegotiable:   a.IsNegotiable,
			Duration:       ts.Duration,
			DurationSource: ts.Source,
			ES:             ts.ES,
			EF:             ts.EF,
			LS:             ts.LS,
			LF:             ts.LF,
			Slack:          ts.Slack,
			EarliestStart:  date(ts.ES),
			EarliestFinish: date(ts.EF),
			LatestStart:    date(ts.LS),
			LatestFinish:   date(ts.LF),
			IsCritical:     ts.IsCritical,
			Wave:           ts.Wave,
		})

		if succ := sched.Successors(id); len(succ) > 0 {
			tl.Deps.Successors[id] = succ
			for _, s := range succ {
				tl.Deps.Predecessors[s] = append(tl.Deps.Predecessors[s], id)
			}
		}
	}

	for _, w := range sched.Waves {
		tl.Waves = append(tl.Waves, TimelineWave{
			Index:       w.Index,
			StartDate:   date(w.Start),
			ActivityIDs: w.ActivityIDs,
			IsCritical:  w.IsCritical,
		})
	}

	// Plan validation: projected completion against the deadline
	completion := calendar.DayOffsetToDate(sched.ProjectEnd, start)
	tl.ProjectedCompletion = calendar.FormatDate(completion)
	tl.MeetsDeadline = true
	if !cfg.Deadline.IsZero() {
		tl.Deadline = calendar.FormatDate(cfg.Deadline)
		tl.MeetsDeadline = !completion.After(cfg.Deadline)
		tl.DaysBeforeDeadline = calendar.DaysBetween(completion, cfg.Deadline)
	}

	return tl
}

// Item returns the timeline entry for an activity id.
func (tl *Timeline) Item(id string) (TimelineItem, bool) {
	for _, it := range tl.Items {
		if it.ActivityID == id {
			return it, true
		}
	}
	return TimelineItem{}, false
}
