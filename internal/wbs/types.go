package wbs

import (
	"fmt"
	"strings"
	"time"
)

// Activity is a single work package of the work breakdown structure.
type Activity struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name,omitempty" yaml:"name,omitempty"`
	Dependencies     []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"` // predecessors
	IsNegotiable     bool     `json:"is_negotiable" yaml:"is_negotiable"`
	BaselineDuration int      `json:"baseline_duration,omitempty" yaml:"baseline_duration,omitempty"` // days
	LockedDuration   int      `json:"locked_duration,omitempty" yaml:"locked_duration,omitempty"`     // days
}

// Commitment is an accepted, negotiated duration for one activity.
type Commitment struct {
	ID                string    `json:"id,omitempty"`
	SessionID         string    `json:"session_id,omitempty"`
	ActivityID        string    `json:"wbs_id"`
	CommittedDuration int       `json:"committed_duration"` // days
	CommittedCost     float64   `json:"committed_cost,omitempty"`
	CommittedAt       time.Time `json:"committed_at,omitempty"`
}

// Catalog is the static WBS definition of a project.
type Catalog struct {
	Project    string     `json:"project,omitempty" yaml:"project,omitempty"`
	Activities []Activity `json:"wbs_elements" yaml:"wbs_elements"`
}

// ValidationError lists every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog: %s", strings.Join(e.Problems, "; "))
}

// Validate checks the structural rules the scheduler relies on: non-empty
// unique ids, no self dependencies and no negative durations.
func (c *Catalog) Validate() error {
	var problems []string
	seen := make(map[string]bool, len(c.Activities))

	for i, a := range c.Activities {
		if strings.TrimSpace(a.ID) == "" {
			problems = append(problems, fmt.Sprintf("activity #%d has no id", i+1))
			continue
		}
		if seen[a.ID] {
			problems = append(problems, fmt.Sprintf("duplicate activity id %s", a.ID))
		}
		seen[a.ID] = true

		for _, dep := range a.Dependencies {
			if dep == a.ID {
				problems = append(problems, fmt.Sprintf("activity %s depends on itself", a.ID))
			}
		}
		if a.BaselineDuration < 0 || a.LockedDuration < 0 {
			problems = append(problems, fmt.Sprintf("activity %s has a negative duration", a.ID))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Lookup returns the first activity with the given id.
func (c *Catalog) Lookup(id string) (Activity, bool) {
	for _, a := range c.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}
