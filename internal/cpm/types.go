package cpm

import (
	"fmt"
	"strings"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/duration"
)

// Schedule holds the complete critical path analysis of one computation.
// All times are whole-day offsets from the project start.
type Schedule struct {
	Activities   map[string]*ActivitySchedule `json:"activities"`
	Order        []string                     `json:"order"`         // input order
	CriticalPath []string                     `json:"critical_path"` // zero slack, by ES then input order
	ProjectEnd   int                          `json:"project_end"`
	Waves        []Wave                       `json:"waves,omitempty"`
	Dangling     map[string][]string          `json:"dangling,omitempty"`
	Degraded     bool                         `json:"degraded,omitempty"`

	succs map[string][]string
	roots []string // activities without predecessors, input order
}

// ActivitySchedule holds the timing of a single activity.
type ActivitySchedule struct {
	ActivityID string          `json:"activity_id"`
	Duration   int             `json:"duration"`
	Source     duration.Source `json:"duration_source"`
	ES         int             `json:"es"` // earliest start
	EF         int             `json:"ef"` // earliest finish
	LS         int             `json:"ls"` // latest start
	LF         int             `json:"lf"` // latest finish
	Slack      int             `json:"slack"`
	IsCritical bool            `json:"is_critical"`
	Wave       int             `json:"wave"`
}

// Wave is a group of activities sharing the same earliest start.
type Wave struct {
	Index       int      `json:"index"`
	Start       int      `json:"start"`
	ActivityIDs []string `json:"activity_ids"`
	IsCritical  bool     `json:"is_critical"` // true if the wave contains critical activities
}

// CyclicDependencyError reports that the dependency graph is not acyclic.
// Cycle lists the activities in precedence order; the first and last
// elements are the same activity.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}
