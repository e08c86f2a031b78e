package graph

import (
	"sort"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

// Build indexes activities by id and derives predecessor and successor
// lists. The first activity with a given id wins. Dependencies on ids that
// are not part of the input are dropped and reported in Dangling.
func Build(activities []wbs.Activity) *Graph {
	g := &Graph{
		Activities: make(map[string]wbs.Activity, len(activities)),
		Preds:      make(map[string][]string),
		Succs:      make(map[string][]string),
		Dangling:   make(map[string][]string),
	}

	// Index all activities
	for _, a := range activities {
		if _, dup := g.Activities[a.ID]; dup {
			continue
		}
		g.Activities[a.ID] = a
		g.Order = append(g.Order, a.ID)
	}

	edgeSet := make(map[[2]string]bool)
	addEdge := func(from, to string) {
		key := [2]string{from, to}
		if edgeSet[key] {
			return
		}
		edgeSet[key] = true
		g.Succs[from] = append(g.Succs[from], to)
		g.Preds[to] = append(g.Preds[to], from)
	}

	for _, id := range g.Order {
		for _, dep := range g.Activities[id].Dependencies {
			if _, ok := g.Activities[dep]; !ok {
				g.Dangling[id] = append(g.Dangling[id], dep)
				continue
			}
			addEdge(dep, id)
		}
	}

	// Sort adjacency lists for deterministic traversal
	for k := range g.Succs {
		sort.Strings(g.Succs[k])
	}
	for k := range g.Preds {
		sort.Strings(g.Preds[k])
	}

	for _, id := range g.Order {
		if len(g.Preds[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Succs[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}

	return g
}

// Len returns the number of activities in the graph.
func (g *Graph) Len() int {
	return len(g.Order)
}
