package mbt

import "github.com/Badcat330/HashBaseStructs/valuecodec"

// build recomputes the entire level structure from the current leaf
// vector (C5). There is no incremental MBT rebuild in the spec — every
// mutation pays O(n) — so this always starts from the leaf-hash level and
// folds pairs upward until one node remains.
func (t *Tree[K, V]) build() {
	if len(t.leaves) == 0 {
		t.levels = nil
		return
	}

	leafLevel := make([]node[K], len(t.leaves))
	for i := range t.leaves {
		lf := &t.leaves[i]
		leafLevel[i] = node[K]{
			hash:         t.hash(leafDigestInput(lf.key, lf.value)),
			size:         1,
			minKey:       lf.key,
			maxKey:       lf.key,
			maxLeftChild: lf.key,
			avg:          i,
		}
	}

	levels := [][]node[K]{leafLevel}
	for len(levels[0]) > 1 {
		levels = append([][]node[K]{foldLevel(levels[0], t.hash)}, levels...)
	}
	t.levels = levels
}

// foldLevel emits floor(m/2) parents for an m-node level. An odd trailing
// node is promoted one level up unchanged — its hash and metadata are not
// duplicated, per spec §4.4.
func foldLevel[K any](prev []node[K], hash HashFunc) []node[K] {
	next := make([]node[K], 0, (len(prev)+1)/2)

	i := 1
	for ; i < len(prev); i += 2 {
		left, right := prev[i-1], prev[i]
		buf := make([]byte, 0, len(left.hash)+len(right.hash))
		buf = append(buf, left.hash...)
		buf = append(buf, right.hash...)

		next = append(next, node[K]{
			hash:         hash(buf),
			size:         left.size + right.size,
			minKey:       left.minKey,
			maxKey:       right.maxKey,
			maxLeftChild: left.maxKey,
			avg:          (left.avg + right.avg + 1) / 2,
		})
	}

	if len(prev)%2 == 1 {
		next = append(next, prev[len(prev)-1])
	}

	return next
}

// leafDigestInput mixes the key into the leaf's pre-image so that two
// key-disjoint maps with coincidentally identical values never hash the
// same (invariant 6 / P6): value-only hashing made a subtree's hash a
// function of its value sequence alone, independent of which keys carried
// those values.
func leafDigestInput[K any, V any](key K, value V) []byte {
	buf := valuecodec.Encode(key)
	buf = append(buf, valuecodec.Encode(value)...)
	return buf
}
