package mhg

import (
	"cmp"

	"github.com/Badcat330/HashBaseStructs/changeset"
)

// Diff locates divergent leaf indexes by intersecting the row-tree and
// column-tree inconsistency sets, then classifies each candidate (C8).
// Grids of different sides are compared by a merge of their sorted leaves.
func Diff[K cmp.Ordered, V any](src, dst *Grid[K, V]) []changeset.Change[K, V] {
	if bytesEqual(src.RootHash(), dst.RootHash()) {
		return nil
	}

	// Grids of different sides (an empty grid included) have row and column
	// trees that do not line up index for index, so their sorted leaf
	// vectors are merge-walked by key instead.
	if src.side != dst.side {
		var out []changeset.Change[K, V]
		s, d := src.nodes, dst.nodes
		for len(s) > 0 || len(d) > 0 {
			switch {
			case len(d) == 0 || len(s) > 0 && s[0].key < d[0].key:
				out, s = append(out, formatChange[K, V](&s[0], nil)...), s[1:]
			case len(s) == 0 || d[0].key < s[0].key:
				out, d = append(out, formatChange[K, V](nil, &d[0])...), d[1:]
			default:
				out, s, d = append(out, formatChange[K, V](&s[0], &d[0])...), s[1:], d[1:]
			}
		}
		return out
	}

	rows := findInconsistencies(src.rowTree, dst.rowTree)
	cols := findInconsistencies(src.colTree, dst.colTree)

	srcPending := map[K]*gridLeaf[K, V]{}
	dstPending := map[K]*gridLeaf[K, V]{}
	var out []changeset.Change[K, V]

	for _, r := range rows {
		for _, c := range cols {
			idx := r*src.side + c

			var srcNode, dstNode *gridLeaf[K, V]
			if idx >= 0 && idx < len(src.nodes) {
				srcNode = &src.nodes[idx]
			}
			if idx >= 0 && idx < len(dst.nodes) {
				dstNode = &dst.nodes[idx]
			}

			if srcNode != nil && dstNode != nil && srcNode.key == dstNode.key {
				out = append(out, formatChange[K, V](srcNode, dstNode)...)
				continue
			}

			if dstNode != nil {
				if pending, ok := srcPending[dstNode.key]; ok {
					out = append(out, formatChange[K, V](pending, dstNode)...)
					delete(srcPending, dstNode.key)
				} else {
					dstPending[dstNode.key] = dstNode
				}
			}
			if srcNode != nil {
				if pending, ok := dstPending[srcNode.key]; ok {
					out = append(out, formatChange[K, V](srcNode, pending)...)
					delete(dstPending, srcNode.key)
				} else {
					srcPending[srcNode.key] = srcNode
				}
			}
		}
	}

	for _, n := range srcPending {
		out = append(out, formatChange[K, V](n, nil)...)
	}
	for _, n := range dstPending {
		out = append(out, formatChange[K, V](nil, n)...)
	}

	return out
}

func formatChange[K cmp.Ordered, V any](source, destination *gridLeaf[K, V]) []changeset.Change[K, V] {
	switch {
	case source == nil && destination == nil:
		return nil
	case source == nil:
		return []changeset.Change[K, V]{changeset.NewCreate(destination.key, destination.value)}
	case destination == nil:
		return []changeset.Change[K, V]{changeset.NewDelete(source.key, source.value)}
	case !bytesEqual(source.hash, destination.hash):
		return []changeset.Change[K, V]{changeset.NewUpdate(source.key, source.value, destination.value)}
	default:
		return nil
	}
}

// treeAddr names a node by (level, item) within a row or column tree.
type treeAddr struct {
	level int
	item  int
}

type inconsistencyFrame struct {
	src treeAddr
	dst treeAddr
}

// findInconsistencies walks src and dst's row (or column) trees
// symmetrically: equal hashes prune, a mismatch with both sides at their
// leaf level emits max(srcItem, dstItem), and a shallower tree recurses the deeper
// one against its own unchanged node (spec §4.7 bullet 2). Implemented
// with an explicit stack for the same reason as mbt.Diff: bound live
// frames instead of relying on call-stack recursion.
func findInconsistencies(srcTree, dstTree [][][]byte) []int {
	var out []int
	if len(srcTree) == 0 || len(dstTree) == 0 {
		return out
	}

	stack := []inconsistencyFrame{{treeAddr{0, 0}, treeAddr{0, 0}}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		srcHash := treeGet(srcTree, f.src)
		dstHash := treeGet(dstTree, f.dst)
		if srcHash == nil || dstHash == nil || bytesEqual(srcHash, dstHash) {
			continue
		}

		srcLast := treeIsLast(srcTree, f.src.level)
		dstLast := treeIsLast(dstTree, f.dst.level)

		switch {
		case srcLast && dstLast:
			out = append(out, maxInt(f.src.item, f.dst.item))
		case srcLast:
			stack = append(stack,
				inconsistencyFrame{f.src, left(f.dst)},
				inconsistencyFrame{f.src, right(f.dst)},
			)
		case dstLast:
			stack = append(stack,
				inconsistencyFrame{left(f.src), f.dst},
				inconsistencyFrame{right(f.src), f.dst},
			)
		default:
			stack = append(stack,
				inconsistencyFrame{left(f.src), left(f.dst)},
				inconsistencyFrame{right(f.src), right(f.dst)},
			)
		}
	}

	return out
}

func left(a treeAddr) treeAddr  { return treeAddr{a.level + 1, a.item * 2} }
func right(a treeAddr) treeAddr { return treeAddr{a.level + 1, a.item*2 + 1} }

func treeGet(tree [][][]byte, a treeAddr) []byte {
	if a.level < 0 || a.level >= len(tree) {
		return nil
	}
	lvl := tree[a.level]
	if a.item < 0 || a.item >= len(lvl) {
		return nil
	}
	return lvl[a.item]
}

func treeIsLast(tree [][][]byte, level int) bool {
	return level == len(tree)-1
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
