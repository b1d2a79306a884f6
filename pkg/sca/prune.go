package sca

// Prune keeps the nodes whose generation is at least minGeneration and
// compacts the index space. Parent, Apex and Shoot references are remapped;
// a node whose parent was dropped becomes a root and dropped apex/shoot
// references become -1. Children and Connections are copied unchanged.
//
// The second return value maps every old index to its new index, or -1 when
// the node was pruned.
func Prune(nodes []Node, minGeneration int) ([]Node, []int) {
	remap := make([]int, len(nodes))
	kept := 0
	for i, n := range nodes {
		if n.Generation >= minGeneration {
			remap[i] = kept
			kept++
		} else {
			remap[i] = -1
		}
	}

	out := make([]Node, 0, kept)
	for i, n := range nodes {
		if remap[i] < 0 {
			continue
		}
		n.Parent = remapIndex(remap, n.Parent)
		n.Apex = remapIndex(remap, n.Apex)
		n.Shoot = remapIndex(remap, n.Shoot)
		out = append(out, n)
	}
	return out, remap
}

func remapIndex(remap []int, i int) int {
	if i < 0 || i >= len(remap) {
		return -1
	}
	return remap[i]
}

// Prune returns a new skeleton holding the nodes of s with generation at
// least minGeneration; see the package-level Prune for the remap rules.
func (s *Skeleton) Prune(minGeneration int) (*Skeleton, []int) {
	nodes, remap := Prune(s.nodes, minGeneration)
	out := &Skeleton{nodes: nodes}
	for i, n := range nodes {
		if n.IsRoot() {
			out.roots = append(out.roots, i)
		}
	}
	return out, remap
}
