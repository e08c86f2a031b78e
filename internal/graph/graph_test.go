package graph

import (
	"testing"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
)

func TestBuild_Diamond(t *testing.T) {
	// A -> B -> D
	// A -> C -> D
	g := Build([]wbs.Activity{
		{ID: "a"},
		{ID: "b", Dependencies: []string{"a"}},
		{ID: "c", Dependencies: []string{"a"}},
		{ID: "d", Dependencies: []string{"b", "c"}},
	})

	if g.Len() != 4 {
		t.Errorf("expected 4 activities, got %d", g.Len())
	}

	if len(g.Roots) != 1 || g.Roots[0] != "a" {
		t.Errorf("expected roots=[a], got %v", g.Roots)
	}
	if len(g.Leaves) != 1 || g.Leaves[0] != "d" {
		t.Errorf("expected leaves=[d], got %v", g.Leaves)
	}

	if succ := g.Succs["a"]; len(succ) != 2 || succ[0] != "b" || succ[1] != "c" {
		t.Errorf("expected a -> [b c], got %v", succ)
	}
	if pred := g.Preds["d"]; len(pred) != 2 {
		t.Errorf("expected d to depend on 2 activities, got %v", pred)
	}
}

func TestBuild_PreservesInputOrder(t *testing.T) {
	g := Build([]wbs.Activity{{ID: "z"}, {ID: "a"}, {ID: "m"}})

	want := []string{"z", "a", "m"}
	for i, id := range want {
		if g.Order[i] != id {
			t.Fatalf("expected order %v, got %v", want, g.Order)
		}
	}
	if len(g.Roots) != 3 || g.Roots[0] != "z" {
		t.Errorf("expected roots in input order, got %v", g.Roots)
	}
}

func TestBuild_DuplicateEdgesCollapsed(t *testing.T) {
	g := Build([]wbs.Activity{
		{ID: "a"},
		{ID: "b", Dependencies: []string{"a", "a"}},
	})

	if len(g.Succs["a"]) != 1 {
		t.Errorf("expected a single a -> b edge, got %v", g.Succs["a"])
	}
	if len(g.Preds["b"]) != 1 {
		t.Errorf("expected a single predecessor for b, got %v", g.Preds["b"])
	}
}

func TestBuild_DanglingDependency(t *testing.T) {
	g := Build([]wbs.Activity{
		{ID: "a"},
		{ID: "b", Dependencies: []string{"a", "ghost"}},
	})

	if len(g.Dangling) == 0 {
		t.Fatal("expected dangling dependency to be reported")
	}
	if d := g.Dangling["b"]; len(d) != 1 || d[0] != "ghost" {
		t.Errorf("expected b -> [ghost] dangling, got %v", d)
	}
	if len(g.Preds["b"]) != 1 {
		t.Errorf("expected ghost edge to be dropped, got preds %v", g.Preds["b"])
	}
}

func TestBuild_FirstDuplicateWins(t *testing.T) {
	g := Build([]wbs.Activity{
		{ID: "a", BaselineDuration: 5},
		{ID: "a", BaselineDuration: 9},
	})

	if g.Len() != 1 {
		t.Fatalf("expected 1 activity, got %d", g.Len())
	}
	if g.Activities["a"].BaselineDuration != 5 {
		t.Errorf("expected first definition to win, got %d", g.Activities["a"].BaselineDuration)
	}
}

func TestBuild_SelfDependencyKept(t *testing.T) {
	g := Build([]wbs.Activity{{ID: "a", Dependencies: []string{"a"}}})

	if pred := g.Preds["a"]; len(pred) != 1 || pred[0] != "a" {
		t.Errorf("expected self edge to be kept for cycle detection, got %v", pred)
	}
	if len(g.Roots) != 0 || len(g.Leaves) != 0 {
		t.Errorf("expected no roots or leaves, got roots=%v leaves=%v", g.Roots, g.Leaves)
	}
}

func TestBuild_Empty(t *testing.T) {
	g := Build(nil)
	if g.Len() != 0 {
		t.Errorf("expected empty graph, got %d", g.Len())
	}
}
