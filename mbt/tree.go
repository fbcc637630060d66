// Package mbt implements the Merkle Binary Tree: an ordered key-value
// container whose leaves are sorted by key and whose internal nodes carry
// the hash and range metadata the differ (differ.go) needs to prune
// matching subtrees.
package mbt

import (
	"cmp"
	"fmt"

	"github.com/Badcat330/HashBaseStructs/container"
	"github.com/Badcat330/HashBaseStructs/hashkit"
)

// HashFunc is the digest function every Tree is built over.
type HashFunc = hashkit.HashFunc

// Tree is a Merkle Binary Tree over ordered keys K and arbitrary values V.
type Tree[K cmp.Ordered, V any] struct {
	hash   HashFunc
	leaves []leaf[K, V]
	levels [][]node[K]
}

// New builds an empty Tree using the hash selector or injected digest
// function hsh (C1). An empty Tree has no levels and an empty root hash,
// per the lifecycle invariant in spec §3.
func New[K cmp.Ordered, V any](hsh any) (*Tree[K, V], error) {
	h, err := hashkit.New(hsh)
	if err != nil {
		return nil, err
	}
	return &Tree[K, V]{hash: h}, nil
}

func (t *Tree[K, V]) less(a, b K) bool { return a < b }

// Clear resets the Tree to its empty lifecycle state.
func (t *Tree[K, V]) Clear() {
	t.leaves = nil
	t.levels = nil
}

// Len returns the number of leaves.
func (t *Tree[K, V]) Len() int { return len(t.leaves) }

// Size is a synonym for Len, matching the source's size/len duality.
func (t *Tree[K, V]) Size() int { return t.Len() }

// RootHash returns the digest of the whole tree, or an empty slice for an
// empty Tree.
func (t *Tree[K, V]) RootHash() []byte {
	if len(t.levels) == 0 {
		return []byte{}
	}
	return t.levels[0][0].hash
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	if len(t.leaves) == 0 {
		return false
	}
	idx := findPosition(t.leaves, key, t.less)
	return idx < len(t.leaves) && t.leaves[idx].key == key
}

// Get returns the value stored at key, or container.ErrKeyNotFound.
//
// verified is reserved for future proof-emitting reads (spec §9 open
// question); the current contract ignores it and returns the raw value.
func (t *Tree[K, V]) Get(key K, verified bool) (V, error) {
	var zero V
	if len(t.leaves) == 0 {
		return zero, fmt.Errorf("%w: %v", container.ErrKeyNotFound, key)
	}
	idx := findPosition(t.leaves, key, t.less)
	if t.leaves[idx].key != key {
		return zero, fmt.Errorf("%w: %v", container.ErrKeyNotFound, key)
	}
	return t.leaves[idx].value, nil
}

// Set inserts key with value, or overwrites the existing value if key is
// already present, then rebuilds.
func (t *Tree[K, V]) Set(key K, value V) {
	t.setItem(key, value, true)
}

func (t *Tree[K, V]) setItem(key K, value V, rebuild bool) {
	idx := findPosition(t.leaves, key, t.less)

	switch {
	case idx >= len(t.leaves) || t.leaves[idx].key > key:
		t.leaves = insertLeaf(t.leaves, idx, leaf[K, V]{key: key, value: value})
	case key == t.leaves[idx].key:
		t.leaves[idx].value = value
	default:
		t.leaves = insertLeaf(t.leaves, idx+1, leaf[K, V]{key: key, value: value})
	}

	if rebuild {
		t.build()
	}
}

func insertLeaf[K any, V any](leaves []leaf[K, V], at int, l leaf[K, V]) []leaf[K, V] {
	leaves = append(leaves, leaf[K, V]{})
	copy(leaves[at+1:], leaves[at:])
	leaves[at] = l
	return leaves
}

// Delete removes key, or returns container.ErrKeyNotFound.
func (t *Tree[K, V]) Delete(key K) error {
	if len(t.leaves) == 0 {
		return fmt.Errorf("%w: %v", container.ErrKeyNotFound, key)
	}
	idx := findPosition(t.leaves, key, t.less)
	if t.leaves[idx].key != key {
		return fmt.Errorf("%w: %v", container.ErrKeyNotFound, key)
	}
	t.leaves = append(t.leaves[:idx], t.leaves[idx+1:]...)
	t.build()
	return nil
}

// AddIter bulk-loads zipped keys/values with a single rebuild at the end.
// keys and values must have equal length.
func (t *Tree[K, V]) AddIter(keys []K, values []V) error {
	if len(keys) != len(values) {
		return fmt.Errorf("mbt: AddIter: %d keys but %d values", len(keys), len(values))
	}
	for i, k := range keys {
		t.setItem(k, values[i], false)
	}
	t.build()
	return nil
}

// AddDict bulk-loads a map; iteration order does not affect the result.
func (t *Tree[K, V]) AddDict(m map[K]V) {
	for k, v := range m {
		t.setItem(k, v, false)
	}
	t.build()
}

// Entry is one (key, value) pair returned by GetByOrder and All.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// GetByOrder returns the entry at sorted index i.
func (t *Tree[K, V]) GetByOrder(i int) (Entry[K, V], error) {
	if i < 0 || i >= len(t.leaves) {
		return Entry[K, V]{}, fmt.Errorf("mbt: GetByOrder: index %d out of range", i)
	}
	return Entry[K, V]{Key: t.leaves[i].key, Value: t.leaves[i].value}, nil
}

// All returns every entry in ascending key order.
func (t *Tree[K, V]) All() []Entry[K, V] {
	out := make([]Entry[K, V], len(t.leaves))
	for i, lf := range t.leaves {
		out[i] = Entry[K, V]{Key: lf.key, Value: lf.value}
	}
	return out
}

// Each streams entries in ascending key order, stopping early if fn
// returns false. It is the lazy analogue of All for callers that don't
// need the whole ordered slice materialized.
func (t *Tree[K, V]) Each(fn func(key K, value V) bool) {
	for _, lf := range t.leaves {
		if !fn(lf.key, lf.value) {
			return
		}
	}
}

// Swap exchanges all state between t and other.
func (t *Tree[K, V]) Swap(other *Tree[K, V]) {
	t.hash, other.hash = other.hash, t.hash
	t.leaves, other.leaves = other.leaves, t.leaves
	t.levels, other.levels = other.levels, t.levels
}

// Eq reports whether t and other have byte-equal root hashes.
func (t *Tree[K, V]) Eq(other *Tree[K, V]) bool {
	return container.Eq(t, other)
}

// Verify is reserved for a future proof-emitting design (spec §9 open
// question: "a verify(vo, hash) operation" is unspecified). It is an
// explicit stub rather than a guess at the unstated audit-path format.
func (t *Tree[K, V]) Verify(voucher any, hash []byte) error {
	return fmt.Errorf("mbt: Verify is not implemented (proof emission is an open design question)")
}
