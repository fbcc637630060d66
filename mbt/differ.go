package mbt

import (
	"cmp"

	"github.com/Badcat330/HashBaseStructs/changeset"
)

// pair is one work-stack frame: the source and destination addresses still
// to be compared. Both sides are optional: a nil address on
// either side means "no corresponding subtree" (differ Case A).
type pair struct {
	src *addr
	dst *addr
}

// Diff walks src and dst's level structures in lockstep, pruning subtrees
// whose root hashes match and descending only through divergent regions
// (C6). The walk is expressed as an explicit LIFO work stack rather than
// recursion, per spec §9's design note, bounding live stack frames to the
// trees' height (O(log n)) rather than recursion depth.
//
// Frames are always pushed right-before-left so that, for any expansion
// into two children, the left child (and everything it in turn expands
// into) is fully drained before the right child is touched — this
// reproduces the left-before-right emission order of the recursive
// definition without recursing.
func Diff[K cmp.Ordered, V any](src, dst *Tree[K, V]) []changeset.Change[K, V] {
	var out []changeset.Change[K, V]

	root := func(t *Tree[K, V]) *addr {
		if len(t.levels) == 0 {
			return nil
		}
		return &addr{}
	}

	stack := []pair{{root(src), root(dst)}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = diffStep(src, dst, f, &out, stack)
	}

	return out
}

// diffStep processes one frame, appending directly-resolved changes to
// *out and returning stack with any child frames pushed (right, then
// left) for later processing.
func diffStep[K cmp.Ordered, V any](src, dst *Tree[K, V], f pair, out *[]changeset.Change[K, V], stack []pair) []pair {
	// Case A: destination side absent -> every leaf under source is Delete.
	if f.dst == nil {
		if f.src == nil {
			return stack
		}
		return emitOneSided(src, *f.src, out, stack, f, true)
	}
	// Case A symmetric: source side absent -> every leaf under destination is Create.
	if f.src == nil {
		return emitOneSided(dst, *f.dst, out, stack, f, false)
	}

	// Case B: both non-null addresses.
	srcNode := src.getNode(*f.src)
	dstNode := dst.getNode(*f.dst)

	if srcNode == nil && dstNode == nil {
		return stack
	}
	if dstNode == nil {
		return diffStep(src, dst, pair{f.src, nil}, out, stack)
	}
	if srcNode == nil {
		return diffStep(src, dst, pair{nil, f.dst}, out, stack)
	}
	if bytesEqual(srcNode.hash, dstNode.hash) {
		return stack
	}

	var srcLeaf, dstLeaf *leaf[K, V]
	if src.isLeafLevel(*f.src) {
		srcLeaf = src.getLeaf(*f.src)
	}
	if dst.isLeafLevel(*f.dst) {
		dstLeaf = dst.getLeaf(*f.dst)
	}

	// Leaf x Leaf.
	if srcLeaf != nil && dstLeaf != nil {
		if srcLeaf.key == dstLeaf.key {
			*out = append(*out, changeset.NewUpdate(srcLeaf.key, srcLeaf.value, dstLeaf.value))
		} else {
			*out = append(*out, changeset.NewDelete(srcLeaf.key, srcLeaf.value))
			*out = append(*out, changeset.NewCreate(dstLeaf.key, dstLeaf.value))
		}
		return stack
	}

	// Leaf x subtree: route the leaf into the half of the subtree whose
	// key range contains it.
	if srcLeaf != nil {
		var next addr
		if srcLeaf.key <= dstNode.maxLeftChild {
			next = f.dst.left()
		} else {
			next = f.dst.right()
		}
		return push(stack, pair{f.src, &next})
	}
	if dstLeaf != nil {
		var next addr
		if dstLeaf.key <= srcNode.maxLeftChild {
			next = f.src.left()
		} else {
			next = f.src.right()
		}
		return push(stack, pair{&next, f.dst})
	}

	// Subtree x subtree, size-asymmetric pruning.
	if srcNode.size < dstNode.size {
		dl, dr := f.dst.left(), f.dst.right()
		switch {
		case less(dstNode.maxLeftChild, srcNode.minKey):
			return pushPair(stack,
				pair{nil, &dl},
				pair{f.src, &dr},
			)
		case !less(dstNode.maxLeftChild, srcNode.maxKey):
			return pushPair(stack,
				pair{f.src, &dl},
				pair{nil, &dr},
			)
		}
	} else if srcNode.size > dstNode.size {
		sl, sr := f.src.left(), f.src.right()
		switch {
		case less(srcNode.maxLeftChild, dstNode.minKey):
			return pushPair(stack,
				pair{&sl, nil},
				pair{&sr, f.dst},
			)
		case !less(srcNode.maxLeftChild, dstNode.maxKey):
			return pushPair(stack,
				pair{&sl, f.dst},
				pair{&sr, nil},
			)
		}
	}

	// Subtree x subtree, same shape: aligned recursion.
	if srcNode.avg == dstNode.avg {
		sl, sr := f.src.left(), f.src.right()
		dl, dr := f.dst.left(), f.dst.right()
		return pushPair(stack, pair{&sl, &dl}, pair{&sr, &dr})
	}

	// Fallback: descend on the larger side, pairing each of its children
	// against the smaller side's whole node.
	if srcNode.size < dstNode.size {
		dl, dr := f.dst.left(), f.dst.right()
		return pushPair(stack, pair{f.src, &dl}, pair{f.src, &dr})
	}
	sl, sr := f.src.left(), f.src.right()
	return pushPair(stack, pair{&sl, f.dst}, pair{&sr, f.dst})
}

// emitOneSided handles Case A: one side is a whole missing subtree, which
// must contribute a Delete (isSource) or Create (!isSource) per leaf. A
// leaf-level address emits directly; otherwise its two children are
// pushed (right, then left) to keep the walk iterative.
func emitOneSided[K cmp.Ordered, V any](t *Tree[K, V], a addr, out *[]changeset.Change[K, V], stack []pair, f pair, isSource bool) []pair {
	if t.isLeafLevel(a) {
		lf := t.getLeaf(a)
		if lf == nil {
			return stack
		}
		if isSource {
			*out = append(*out, changeset.NewDelete(lf.key, lf.value))
		} else {
			*out = append(*out, changeset.NewCreate(lf.key, lf.value))
		}
		return stack
	}

	l, r := a.left(), a.right()
	if isSource {
		return pushPair(stack, pair{&l, nil}, pair{&r, nil})
	}
	return pushPair(stack, pair{nil, &l}, pair{nil, &r})
}

// push appends one frame.
func push(stack []pair, p pair) []pair { return append(stack, p) }

// pushPair pushes right before left, so left is drained first (LIFO).
func pushPair(stack []pair, left, right pair) []pair {
	stack = append(stack, right)
	stack = append(stack, left)
	return stack
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

func less[K cmp.Ordered](a, b K) bool { return a < b }
