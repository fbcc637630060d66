// Package mhg implements the Merkle Hash Grid: leaves arranged row-major
// in a square grid, with one Merkle tree summarizing row digests and a
// second summarizing column digests. Divergence between two grids is
// localized by intersecting the two trees' inconsistency sets (differ.go)
// rather than walking a single tree as mbt does.
package mhg

import (
	"cmp"
	"fmt"

	"github.com/Badcat330/HashBaseStructs/container"
	"github.com/Badcat330/HashBaseStructs/hashkit"
	"github.com/Badcat330/HashBaseStructs/valuecodec"
)

// HashFunc is the digest function every Grid is built over.
type HashFunc = hashkit.HashFunc

// gridLeaf is one row-major entry: a (key, value) pair plus its own
// precomputed leaf digest (used directly by row/column digest folding).
type gridLeaf[K any, V any] struct {
	key   K
	value V
	hash  []byte
}

// Grid is a Merkle Hash Grid over ordered keys K and arbitrary values V.
type Grid[K cmp.Ordered, V any] struct {
	hash HashFunc

	nodes []gridLeaf[K, V]

	// rowTree and colTree are level-ordered like mbt's levels: index 0 is
	// the root, the last index is the leaf level (one hash per row or
	// column respectively).
	rowTree [][][]byte
	colTree [][][]byte

	side       int
	size       int
	masterHash []byte
}

// New builds an empty Grid using the hash selector or injected digest
// function hsh (C1).
func New[K cmp.Ordered, V any](hsh any) (*Grid[K, V], error) {
	h, err := hashkit.New(hsh)
	if err != nil {
		return nil, err
	}
	return &Grid[K, V]{hash: h, masterHash: []byte{}}, nil
}

func (g *Grid[K, V]) less(a, b K) bool { return a < b }

// Clear resets the Grid to its empty lifecycle state.
func (g *Grid[K, V]) Clear() {
	g.nodes = nil
	g.rowTree = nil
	g.colTree = nil
	g.side = 0
	g.size = 0
	g.masterHash = []byte{}
}

// Len returns the number of leaves.
func (g *Grid[K, V]) Len() int { return g.size }

// Size is a synonym for Len.
func (g *Grid[K, V]) Size() int { return g.Len() }

// RootHash returns the master hash: H(row_tree_root || column_tree_root).
func (g *Grid[K, V]) RootHash() []byte {
	if g.masterHash == nil {
		return []byte{}
	}
	return g.masterHash
}

// Contains reports whether key is present.
func (g *Grid[K, V]) Contains(key K) bool {
	if len(g.nodes) == 0 {
		return false
	}
	idx := findPosition(g.nodes, key, g.less)
	return idx < len(g.nodes) && g.nodes[idx].key == key
}

// Get returns the value stored at key, or container.ErrKeyNotFound.
//
// verified is reserved for future proof-emitting reads (spec §9 open
// question); the current contract ignores it.
func (g *Grid[K, V]) Get(key K, verified bool) (V, error) {
	var zero V
	if len(g.nodes) == 0 {
		return zero, fmt.Errorf("%w: %v", container.ErrKeyNotFound, key)
	}
	idx := findPosition(g.nodes, key, g.less)
	if g.nodes[idx].key != key {
		return zero, fmt.Errorf("%w: %v", container.ErrKeyNotFound, key)
	}
	return g.nodes[idx].value, nil
}

// Set inserts key with value, or overwrites the existing value, then
// refreshes the row and column trees (build decides which digests are
// recomputed).
func (g *Grid[K, V]) Set(key K, value V) {
	g.setItem(key, value, true)
}

// Delete removes key, or returns container.ErrKeyNotFound.
func (g *Grid[K, V]) Delete(key K) error {
	if len(g.nodes) == 0 {
		return fmt.Errorf("%w: %v", container.ErrKeyNotFound, key)
	}
	idx := findPosition(g.nodes, key, g.less)
	if g.nodes[idx].key != key {
		return fmt.Errorf("%w: %v", container.ErrKeyNotFound, key)
	}
	g.nodes = append(g.nodes[:idx], g.nodes[idx+1:]...)
	g.size-- // spec §9 design note: the source decrements the node slice,
	// not the size counter — corrected here.
	g.build([]int{idx})
	return nil
}

// setItem performs the shared insert-or-overwrite logic. When rebuild is
// false, the affected index is returned so bulk loaders (AddIter/AddDict)
// can collect every touched position for a single trailing build.
func (g *Grid[K, V]) setItem(key K, value V, rebuild bool) int {
	idx := findPosition(g.nodes, key, g.less)
	leafHash := g.hash(leafDigestInput(key, value))

	switch {
	case idx >= len(g.nodes) || g.nodes[idx].key > key:
		g.nodes = insertNode(g.nodes, idx, gridLeaf[K, V]{key: key, value: value, hash: leafHash})
		g.size++
	case key == g.nodes[idx].key:
		g.nodes[idx].value = value
		g.nodes[idx].hash = leafHash
	default:
		idx++
		g.nodes = insertNode(g.nodes, idx, gridLeaf[K, V]{key: key, value: value, hash: leafHash})
		g.size++
	}

	if rebuild {
		g.build([]int{idx})
	}
	return idx
}

func insertNode[K any, V any](nodes []gridLeaf[K, V], at int, n gridLeaf[K, V]) []gridLeaf[K, V] {
	nodes = append(nodes, gridLeaf[K, V]{})
	copy(nodes[at+1:], nodes[at:])
	nodes[at] = n
	return nodes
}

// leafDigestInput mixes the key into the leaf's pre-image so that two
// key-disjoint grids with coincidentally identical values never produce
// the same master hash (invariant 6 / P6).
func leafDigestInput[K any, V any](key K, value V) []byte {
	buf := valuecodec.Encode(key)
	buf = append(buf, valuecodec.Encode(value)...)
	return buf
}

// AddIter bulk-loads zipped keys/values with a single rebuild at the end.
func (g *Grid[K, V]) AddIter(keys []K, values []V) error {
	if len(keys) != len(values) {
		return fmt.Errorf("mhg: AddIter: %d keys but %d values", len(keys), len(values))
	}
	indexes := make([]int, 0, len(keys))
	for i, k := range keys {
		indexes = append(indexes, g.setItem(k, values[i], false))
	}
	g.build(indexes)
	return nil
}

// AddDict bulk-loads a map; iteration order does not affect the result.
func (g *Grid[K, V]) AddDict(m map[K]V) {
	indexes := make([]int, 0, len(m))
	for k, v := range m {
		indexes = append(indexes, g.setItem(k, v, false))
	}
	g.build(indexes)
}

// Entry is one (key, value) pair returned by GetByOrder and All.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// GetByOrder returns the entry at row-major index i.
func (g *Grid[K, V]) GetByOrder(i int) (Entry[K, V], error) {
	if i < 0 || i >= len(g.nodes) {
		return Entry[K, V]{}, fmt.Errorf("mhg: GetByOrder: index %d out of range", i)
	}
	return Entry[K, V]{Key: g.nodes[i].key, Value: g.nodes[i].value}, nil
}

// All returns every entry in ascending key order (row-major order is key
// order, since nodes is the sorted leaf vector the grid is laid over).
func (g *Grid[K, V]) All() []Entry[K, V] {
	out := make([]Entry[K, V], len(g.nodes))
	for i, n := range g.nodes {
		out[i] = Entry[K, V]{Key: n.key, Value: n.value}
	}
	return out
}

// Each streams entries in ascending key order, stopping early if fn
// returns false.
func (g *Grid[K, V]) Each(fn func(key K, value V) bool) {
	for _, n := range g.nodes {
		if !fn(n.key, n.value) {
			return
		}
	}
}

// Swap exchanges all state between g and other.
func (g *Grid[K, V]) Swap(other *Grid[K, V]) {
	g.hash, other.hash = other.hash, g.hash
	g.nodes, other.nodes = other.nodes, g.nodes
	g.rowTree, other.rowTree = other.rowTree, g.rowTree
	g.colTree, other.colTree = other.colTree, g.colTree
	g.side, other.side = other.side, g.side
	g.size, other.size = other.size, g.size
	g.masterHash, other.masterHash = other.masterHash, g.masterHash
}

// Eq reports whether g and other have byte-equal master hashes.
func (g *Grid[K, V]) Eq(other *Grid[K, V]) bool {
	return container.Eq(g, other)
}

// Verify is reserved for a future proof-emitting design (spec §9 open
// question). It is an explicit stub rather than a guess at the unstated
// audit-path format.
func (g *Grid[K, V]) Verify(voucher any, hash []byte) error {
	return fmt.Errorf("mhg: Verify is not implemented (proof emission is an open design question)")
}

// findPosition mirrors mbt's binary search over the sorted node vector
// (spec §9: an empty vector returns 0, not -1).
func findPosition[K any, V any](nodes []gridLeaf[K, V], key K, less func(a, b K) bool) int {
	lo, hi := 0, len(nodes)-1
	mid := (lo + hi) / 2

	for hi >= lo {
		switch {
		case !less(nodes[mid].key, key) && !less(key, nodes[mid].key):
			return mid
		case less(nodes[mid].key, key):
			lo = mid + 1
		default:
			hi = mid - 1
		}
		mid = (lo + hi) / 2
	}

	if mid < 0 {
		return 0
	}
	return mid
}
