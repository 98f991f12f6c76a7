package motionplan

// node is one entry in a tree: a configuration plus a reference to its parent. The root node has
// a nil parent. Trees are ordered sets in insertion order.
type node struct {
	q      []float64
	parent *node
}

// tree is an ordered, single-rooted set of nodes, grown during one plan() call and owned
// exclusively by it.
type tree struct {
	nodes []*node
}

func newTree(root []float64) *tree {
	return &tree{nodes: []*node{{q: root}}}
}

func (t *tree) add(q []float64, parent *node) *node {
	n := &node{q: q, parent: parent}
	t.nodes = append(t.nodes, n)
	return n
}

// nearest does a linear scan for the closest node to target, breaking ties toward the
// earliest-inserted node.
func (t *tree) nearest(target []float64) *node {
	best := t.nodes[0]
	bestDist := distance(best.q, target)
	for _, n := range t.nodes[1:] {
		d := distance(n.q, target)
		if d < bestDist {
			best = n
			bestDist = d
		}
	}
	return best
}

// pathTo walks parent links from n back to the tree's root and returns the configurations in
// root-to-n order.
func pathTo(n *node) [][]float64 {
	var rev [][]float64
	for cur := n; cur != nil; cur = cur.parent {
		rev = append(rev, cur.q)
	}
	path := make([][]float64, len(rev))
	for i, q := range rev {
		path[len(rev)-1-i] = q
	}
	return path
}
