package cpm

import (
	"sort"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/duration"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/graph"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

// Compute performs critical path analysis on activities, taking durations
// from commitments, locked or baseline values. It fails with a
// *CyclicDependencyError or a *duration.MissingDurationError and never
// returns a partial schedule.
func Compute(activities []wbs.Activity, commitments []wbs.Commitment) (*Schedule, error) {
	return ComputeWith(activities, duration.NewStrict(commitments))
}

// ComputeWith is Compute with a caller-supplied duration resolver.
func ComputeWith(activities []wbs.Activity, resolver duration.Resolver) (*Schedule, error) {
	g := graph.Build(activities)
	c := &computation{
		g:         g,
		resolver:  resolver,
		durations: make(map[string]duration.Resolution, g.Len()),
		result: &Schedule{
			Activities: make(map[string]*ActivitySchedule, g.Len()),
			Order:      g.Order,
			Dangling:   g.Dangling,
			succs:      g.Succs,
			roots:      g.Roots,
		},
	}
	result := c.result

	for _, id := range g.Order {
		result.Activities[id] = &ActivitySchedule{ActivityID: id}
	}

	// Forward pass: compute ES and EF
	fwd := newPass()
	for _, id := range g.Order {
		if _, err := c.forward(id, fwd); err != nil {
			return nil, err
		}
	}

	// Total project duration: the latest finishing sink
	for _, id := range g.Leaves {
		if ef := result.Activities[id].EF; ef > result.ProjectEnd {
			result.ProjectEnd = ef
		}
	}

	// Backward pass: compute LS and LF
	bwd := newPass()
	for _, id := range g.Order {
		if _, err := c.backward(id, bwd); err != nil {
			return nil, err
		}
	}

	for _, id := range g.Order {
		ts := result.Activities[id]
		ts.Slack = ts.LS - ts.ES
		ts.IsCritical = ts.Slack == 0
	}

	result.CriticalPath = criticalPath(result)
	result.Waves = computeWaves(result)

	return result, nil
}

// computation is the working state of one ComputeWith call.
type computation struct {
	g         *graph.Graph
	resolver  duration.Resolver
	durations map[string]duration.Resolution
	result    *Schedule
}

// duration resolves an activity's duration at most once per computation.
func (c *computation) duration(id string) (int, error) {
	if r, ok := c.durations[id]; ok {
		return r.Days, nil
	}
	r, err := c.resolver.Resolve(c.g.Activities[id])
	if err != nil {
		return 0, err
	}
	c.durations[id] = r

	ts := c.result.Activities[id]
	ts.Duration = r.Days
	ts.Source = r.Source
	return r.Days, nil
}

// forward resolves predecessors first and returns the activity's EF.
// ES = max(EF of all predecessors), EF = ES + duration.
func (c *computation) forward(id string, p *pass) (int, error) {
	ts := c.result.Activities[id]
	switch p.state[id] {
	case resolved:
		return ts.EF, nil
	case inProgress:
		// The stack runs from dependent to dependency; report it the other way.
		return 0, &CyclicDependencyError{Cycle: reversed(p.cycleAt(id))}
	}
	p.push(id)

	es := 0
	for _, pred := range c.g.Preds[id] {
		ef, err := c.forward(pred, p)
		if err != nil {
			return 0, err
		}
		if ef > es {
			es = ef
		}
	}

	d, err := c.duration(id)
	if err != nil {
		return 0, err
	}
	ts.ES = es
	ts.EF = es + d

	p.pop(id)
	return ts.EF, nil
}

// backward resolves successors first and returns the activity's LS.
// LF = min(LS of all successors), or the project end for sinks.
func (c *computation) backward(id string, p *pass) (int, error) {
	ts := c.result.Activities[id]
	switch p.state[id] {
	case resolved:
		return ts.LS, nil
	case inProgress:
		return 0, &CyclicDependencyError{Cycle: p.cycleAt(id)}
	}
	p.push(id)

	lf := c.result.ProjectEnd
	for i, succ := range c.g.Succs[id] {
		ls, err := c.backward(succ, p)
		if err != nil {
			return 0, err
		}
		if i == 0 || ls < lf {
			lf = ls
		}
	}

	d, err := c.duration(id)
	if err != nil {
		return 0, err
	}
	ts.LF = lf
	ts.LS = lf - d

	p.pop(id)
	return ts.LS, nil
}

// visitState marks an activity's progress through one pass.
type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	resolved
)

// pass is the transient marker table of a single traversal.
type pass struct {
	state map[string]visitState
	stack []string
}

func newPass() *pass {
	return &pass{state: make(map[string]visitState)}
}

func (p *pass) push(id string) {
	p.state[id] = inProgress
	p.stack = append(p.stack, id)
}

func (p *pass) pop(id string) {
	p.stack = p.stack[:len(p.stack)-1]
	p.state[id] = resolved
}

// cycleAt returns the stack segment from id's first entry, closed by id.
func (p *pass) cycleAt(id string) []string {
	for i, s := range p.stack {
		if s == id {
			cycle := append([]string(nil), p.stack[i:]...)
			return append(cycle, id)
		}
	}
	return []string{id, id}
}

func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

// criticalPath lists zero-slack activities ordered by ES, then input order.
func criticalPath(result *Schedule) []string {
	var ids []string
	for _, id := range result.Order {
		if result.Activities[id].IsCritical {
			ids = append(ids, id)
		}
	}
	sort.SliceStable(ids, func(a, b int) bool {
		return result.Activities[ids[a]].ES < result.Activities[ids[b]].ES
	})
	return ids
}

// computeWaves groups activities by their earliest start time.
func computeWaves(result *Schedule) []Wave {
	esGroups := make(map[int][]string)
	for _, id := range result.Order {
		es := result.Activities[id].ES
		esGroups[es] = append(esGroups[es], id)
	}

	esValues := make([]int, 0, len(esGroups))
	for es := range esGroups {
		esValues = append(esValues, es)
	}
	sort.Ints(esValues)

	waves := make([]Wave, len(esValues))
	for i, es := range esValues {
		ids := esGroups[es]

		hasCritical := false
		for _, id := range ids {
			result.Activities[id].Wave = i
			if result.Activities[id].IsCritical {
				hasCritical = true
			}
		}

		// Critical activities first within a wave
		sort.SliceStable(ids, func(a, b int) bool {
			aCrit := result.Activities[ids[a]].IsCritical
			bCrit := result.Activities[ids[b]].IsCritical
			return aCrit && !bCrit
		})

		waves[i] = Wave{
			Index:       i,
			Start:       es,
			ActivityIDs: ids,
			IsCritical:  hasCritical,
		}
	}

	return waves
}

// CriticalChain follows zero-slack dependency edges from a critical source
// to a sink finishing at ProjectEnd. It returns nil for empty or degraded
// schedules.
func (s *Schedule) CriticalChain() []string {
	if s.Degraded || len(s.Order) == 0 {
		return nil
	}

	var cur *ActivitySchedule
	for _, id := range s.roots {
		ts := s.Activities[id]
		if ts.IsCritical {
			cur = ts
			break
		}
	}
	if cur == nil {
		return nil
	}

	chain := []string{cur.ActivityID}
	for {
		var next *ActivitySchedule
		for _, succ := range s.succs[cur.ActivityID] {
			ts := s.Activities[succ]
			if ts.IsCritical && ts.ES == cur.EF {
				next = ts
				break
			}
		}
		if next == nil {
			return chain
		}
		chain = append(chain, next.ActivityID)
		cur = next
	}
}

// Successors returns the ids of activities that depend on id.
func (s *Schedule) Successors(id string) []string {
	return s.succs[id]
}
