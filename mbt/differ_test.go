package mbt

import (
	"testing"

	"github.com/Badcat330/HashBaseStructs/changeset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T, hsh string, keys, values []int) *Tree[int, int] {
	t.Helper()
	tr := newIntTree(t, hsh)
	require.NoError(t, tr.AddIter(keys, values))
	return tr
}

// Seed scenario 3: classic diff.
func TestClassicDiff(t *testing.T) {
	a := buildTree(t, "sha256", []int{2, 7, 12, 15, 16, 17, 25}, []int{1, 2, 3, 4, 5, 6, 7})
	b := buildTree(t, "sha256", []int{8, 15, 18, 21}, []int{1, 2, 3, 4})

	got := Diff(a, b)

	want := []changeset.Change[int, int]{
		changeset.NewDelete(2, 1),
		changeset.NewDelete(7, 2),
		changeset.NewDelete(12, 3),
		changeset.NewUpdate(15, 4, 2),
		changeset.NewDelete(16, 5),
		changeset.NewDelete(17, 6),
		changeset.NewDelete(25, 7),
		changeset.NewCreate(8, 1),
		changeset.NewCreate(18, 3),
		changeset.NewCreate(21, 4),
	}

	assertSameMultiset(t, want, got)
}

// Seed scenario 4: hash agility — same multiset under different hash
// primitives.
func TestClassicDiffHashAgility(t *testing.T) {
	for _, hsh := range []string{"sha256", "blake2b", "blake3"} {
		a := buildTree(t, hsh, []int{2, 7, 12, 15, 16, 17, 25}, []int{1, 2, 3, 4, 5, 6, 7})
		b := buildTree(t, hsh, []int{8, 15, 18, 21}, []int{1, 2, 3, 4})

		got := Diff(a, b)
		want := []changeset.Change[int, int]{
			changeset.NewDelete(2, 1),
			changeset.NewDelete(7, 2),
			changeset.NewDelete(12, 3),
			changeset.NewUpdate(15, 4, 2),
			changeset.NewDelete(16, 5),
			changeset.NewDelete(17, 6),
			changeset.NewDelete(25, 7),
			changeset.NewCreate(8, 1),
			changeset.NewCreate(18, 3),
			changeset.NewCreate(21, 4),
		}
		assertSameMultiset(t, want, got)
	}
}

// P9: diff of equal is empty.
func TestDiffOfEqualIsEmpty(t *testing.T) {
	a := buildTree(t, "sha256", []int{1, 2, 3}, []int{10, 20, 30})
	b := buildTree(t, "sha256", []int{1, 2, 3}, []int{10, 20, 30})

	assert.Empty(t, Diff(a, a))
	assert.Empty(t, Diff(a, b))
	assert.True(t, a.Eq(b))
}

// P8: applying the diff as instructions reconciles source with destination.
func TestDiffCompleteness(t *testing.T) {
	a := buildTree(t, "sha256", []int{2, 7, 12, 15, 16, 17, 25}, []int{1, 2, 3, 4, 5, 6, 7})
	b := buildTree(t, "sha256", []int{8, 15, 18, 21}, []int{1, 2, 3, 4})

	changes := Diff(a, b)
	for _, c := range changes {
		switch c.Op {
		case changeset.Create:
			a.Set(c.Key, c.Value)
		case changeset.Delete:
			require.NoError(t, a.Delete(c.Key))
		case changeset.Update:
			a.Set(c.Key, c.DestValue)
		}
	}

	assert.Equal(t, b.RootHash(), a.RootHash())
	assert.True(t, a.Eq(b))
}

func TestDiffAgainstEmpty(t *testing.T) {
	empty := newIntTree(t, "sha256")
	full := buildTree(t, "sha256", []int{1, 2, 3}, []int{10, 20, 30})

	got := Diff(empty, full)
	want := []changeset.Change[int, int]{
		changeset.NewCreate(1, 10),
		changeset.NewCreate(2, 20),
		changeset.NewCreate(3, 30),
	}
	assertSameMultiset(t, want, got)

	got = Diff(full, empty)
	want = []changeset.Change[int, int]{
		changeset.NewDelete(1, 10),
		changeset.NewDelete(2, 20),
		changeset.NewDelete(3, 30),
	}
	assertSameMultiset(t, want, got)
}

func assertSameMultiset(t *testing.T, want, got []changeset.Change[int, int]) {
	t.Helper()
	require.Equal(t, len(want), len(got), "got=%v", got)

	remaining := append([]changeset.Change[int, int]{}, got...)
	for _, w := range want {
		found := -1
		for i, g := range remaining {
			if changeset.Equal(w, g) {
				found = i
				break
			}
		}
		require.NotEqual(t, -1, found, "missing change %+v in %v", w, got)
		remaining = append(remaining[:found], remaining[found+1:]...)
	}
}
