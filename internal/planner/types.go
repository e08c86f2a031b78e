package planner

import (
	"time"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/cpm"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/duration"
)

// Deps holds per-activity predecessor and successor lists.
type Deps struct {
	Predecessors map[string][]string `json:"predecessors"`
	Successors   map[string][]string `json:"successors"`
}

// Timeline is a schedule mapped onto the calendar and checked against the
// project deadline.
type Timeline struct {
	Project             string         `json:"project,omitempty"`
	GeneratedAt         time.Time      `json:"generated_at"`
	ProjectStart        string         `json:"project_start"`
	Deadline            string         `json:"deadline,omitempty"`
	ProjectedCompletion string         `json:"projected_completion_date"`
	TotalDurationDays   int            `json:"total_duration_days"`
	MeetsDeadline       bool           `json:"meets_deadline"`
	DaysBeforeDeadline  int            `json:"days_before_deadline"`
	CriticalPath        []string       `json:"critical_path"`
	CriticalChain       []string       `json:"critical_chain,omitempty"`
	Items               []TimelineItem `json:"items"`
	Waves               []TimelineWave `json:"waves,omitempty"`
	Deps                Deps           `json:"deps"`
	Fallbacks           []string       `json:"fallbacks,omitempty"` // activities given the fallback duration
	Degraded            bool           `json:"degraded,omitempty"`

	Schedule *cpm.Schedule `json:"-"`
}

// TimelineItem is one activity with offsets and calendar dates.
type TimelineItem struct {
	ActivityID     string          `json:"activity_id"`
	Name           string          `json:"name,omitempty"`
	IsNegotiable   bool            `json:"is_negotiable"`
	Duration       int             `json:"duration"`
	DurationSource duration.Source `json:"duration_source"`
	ES             int             `json:"es"`
	EF             int             `json:"ef"`
	LS             int             `json:"ls"`
	LF             int             `json:"lf"`
	Slack          int             `json:"slack"`
	EarliestStart  string          `json:"earliest_start"`
	EarliestFinish string          `json:"earliest_finish"`
	LatestStart    string          `json:"latest_start"`
	LatestFinish   string          `json:"latest_finish"`
	IsCritical     bool            `json:"is_critical"`
	Wave           int             `json:"wave"`
}

// TimelineWave is a group of activities that may start on the same date.
type TimelineWave struct {
	Index       int      `json:"index"`
	StartDate   string   `json:"start_date"`
	ActivityIDs []string `json:"activity_ids"`
	IsCritical  bool     `json:"is_critical"`
}

// Config holds the calendar and fallback settings of a timeline.
type Config struct {
	Project      string
	ProjectStart time.Time
	Deadline     time.Time // zero disables deadline validation
	FallbackDays int       // 0 disables the missing-duration fallback
}
