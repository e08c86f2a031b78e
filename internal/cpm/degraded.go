package cpm

import (
	"github.com/IBE160/SG-Gruppe-14-d2/internal/duration"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/graph"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

// Degraded builds a placeholder schedule in which every activity starts at
// day 0 and runs for its own duration. Dependencies are ignored, so the
// result can violate precedence; it is flagged Degraded, carries no float
// and no critical path, and is only meant for display when Compute fails.
func Degraded(activities []wbs.Activity, resolver duration.Resolver) (*Schedule, error) {
	g := graph.Build(activities)
	result := &Schedule{
		Activities: make(map[string]*ActivitySchedule, g.Len()),
		Order:      g.Order,
		Dangling:   g.Dangling,
		Degraded:   true,
		succs:      g.Succs,
	}

	for _, id := range g.Order {
		r, err := resolver.Resolve(g.Activities[id])
		if err != nil {
			return nil, err
		}
		result.Activities[id] = &ActivitySchedule{
			ActivityID: id,
			Duration:   r.Days,
			Source:     r.Source,
			EF:         r.Days,
			LF:         r.Days,
		}
		if r.Days > result.ProjectEnd {
			result.ProjectEnd = r.Days
		}
	}

	return result, nil
}
