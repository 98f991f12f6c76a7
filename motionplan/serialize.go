package motionplan

import "github.com/google/uuid"

// SerializedNode is one entry of a serialized tree: the configuration angles and the index of its
// parent within the same slice, or nil for the root.
type SerializedNode struct {
	Angles      []float64
	ParentIndex *int
}

// SerializedTree is the parent-index-array form of one or two trees grown during a plan() call,
// suitable for external visualization. For RRT-Connect, Nodes is the concatenation
// startTree++goalTree with parent indices re-based against the concatenation, so a consumer can
// color-segment the two trees.
type SerializedTree struct {
	RunID     uuid.UUID
	Algorithm Algorithm
	Nodes     []SerializedNode
}

// serializeTree converts a single tree into its parent-index-array form, in insertion order.
func serializeTree(t *tree) []SerializedNode {
	index := make(map[*node]int, len(t.nodes))
	for i, n := range t.nodes {
		index[n] = i
	}
	out := make([]SerializedNode, len(t.nodes))
	for i, n := range t.nodes {
		if n.parent == nil {
			out[i] = SerializedNode{Angles: n.q}
			continue
		}
		parentIdx := index[n.parent]
		out[i] = SerializedNode{Angles: n.q, ParentIndex: &parentIdx}
	}
	return out
}

// serializeTrees concatenates startTree and goalTree (goalTree may be nil for standard RRT),
// re-basing goalTree's parent indices against the offset introduced by the concatenation.
func serializeTrees(runID uuid.UUID, algorithm Algorithm, startTree, goalTree *tree) SerializedTree {
	nodes := serializeTree(startTree)
	if goalTree == nil {
		return SerializedTree{RunID: runID, Algorithm: algorithm, Nodes: nodes}
	}
	offset := len(nodes)
	goalNodes := serializeTree(goalTree)
	for i := range goalNodes {
		if goalNodes[i].ParentIndex != nil {
			rebased := *goalNodes[i].ParentIndex + offset
			goalNodes[i].ParentIndex = &rebased
		}
	}
	nodes = append(nodes, goalNodes...)
	return SerializedTree{RunID: runID, Algorithm: algorithm, Nodes: nodes}
}
