package graph

import "github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"

// Graph is the dependency network of a set of activities. Edges point from
// predecessor to successor. A Graph is built for a single computation and
// never shared.
type Graph struct {
	Activities map[string]wbs.Activity
	Order      []string            // ids in input order
	Preds      map[string][]string // activity -> activities it depends on
	Succs      map[string][]string // activity -> activities that depend on it
	Roots      []string            // no predecessors
	Leaves     []string            // no successors
	Dangling   map[string][]string // activity -> dependency ids not in the graph
}
