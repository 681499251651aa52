package scc_test

import (
	"reflect"
	"testing"

	"github.com/siko-lang/sikoc/internal/scc"
)

type nodeID uint32

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		nodes []nodeID
		edges map[nodeID][]nodeID
		want  []scc.Group[nodeID]
	}{
		{
			name:  "linear chain has no merging",
			nodes: []nodeID{1, 2, 3},
			edges: map[nodeID][]nodeID{1: {2}, 2: {3}},
			want:  []scc.Group[nodeID]{{3}, {2}, {1}},
		},
		{
			name:  "mutual recursion forms one group",
			nodes: []nodeID{1, 2, 3},
			edges: map[nodeID][]nodeID{1: {2, 3}, 2: {1}},
			want:  []scc.Group[nodeID]{{3}, {2, 1}},
		},
		{
			name:  "self-loop is its own singleton group",
			nodes: []nodeID{1},
			edges: map[nodeID][]nodeID{1: {1}},
			want:  []scc.Group[nodeID]{{1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scc.Compute(tt.nodes, func(n nodeID) []nodeID { return tt.edges[n] })
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Compute() = %#v, want %#v", got, tt.want)
			}
			seen := map[nodeID]bool{}
			for _, g := range got {
				for _, n := range g {
					if seen[n] {
						t.Fatalf("node %d appears in more than one group", n)
					}
					seen[n] = true
				}
			}
			if len(seen) != len(tt.nodes) {
				t.Fatalf("expected every node to appear exactly once, got %d of %d", len(seen), len(tt.nodes))
			}
		})
	}
}
