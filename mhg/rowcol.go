package mhg

import "math"

// build refreshes row_tree, column_tree and master_hash after a mutation
// that touched leaf positions in indexes (C7, spec §4.6). Every branch
// below ends by folding a leaf-hash array into a full binary tree via
// buildHashTree, so hash consistency (invariant 3) holds regardless of
// which shortcut is taken — the branches only differ in how much of the
// leaf-hash array is recomputed from scratch versus reused.
func (g *Grid[K, V]) build(indexes []int) {
	if g.size == 0 {
		g.side = 0
		g.rowTree = nil
		g.colTree = nil
		g.masterHash = []byte{}
		return
	}

	newSide := gridSide(g.size)
	newRowCount := occupiedRows(g.size, newSide)

	switch {
	case newSide != g.side:
		g.side = newSide
		g.rebuildColumnTree(nil)
		g.rebuildRowTree(nil)

	case allInLastRow(indexes, newSide, newRowCount):
		g.rebuildRowTree([]int{newRowCount - 1})
		g.rebuildColumnTree(affectedColumns(indexes, newSide, g.size))

	default:
		g.rebuildColumnTree(nil)
		startRow := minInt(indexes) / maxInt(newSide, 1)
		g.rebuildRowTree(rowsFrom(startRow, newRowCount))
	}

	g.masterHash = g.hash(concatTwo(rootOf(g.rowTree), rootOf(g.colTree)))
}

// gridSide is ceil(sqrt(n)).
func gridSide(n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// occupiedRows is ceil(n/side): the grid's row dimension per spec §3 is the
// number of rows actually carrying a leaf, not side itself — the last row
// is often partial or, once side grows ahead of n, entirely unoccupied.
func occupiedRows(n, side int) int {
	if side == 0 {
		return 0
	}
	return (n + side - 1) / side
}

func allInLastRow(indexes []int, side, rowCount int) bool {
	if side == 0 || rowCount == 0 {
		return false
	}
	threshold := (rowCount - 1) * side
	for _, p := range indexes {
		if p < threshold {
			return false
		}
	}
	return true
}

// affectedColumns lists the columns a last-row mutation can change: an
// insert or delete at p shifts every later leaf by one slot, so every
// position from the earliest touched index up to size (the slot a delete
// vacates) is covered.
func affectedColumns(indexes []int, side, size int) []int {
	cols := make([]int, 0, side)
	if len(indexes) == 0 {
		return cols
	}
	seen := make(map[int]bool, side)
	for p := minInt(indexes); p <= size; p++ {
		c := p % side
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return cols
}

// rowsFrom lists every occupied row from startRow up to (but excluding)
// rowCount.
func rowsFrom(startRow, rowCount int) []int {
	rows := make([]int, 0, rowCount-startRow)
	for r := startRow; r < rowCount; r++ {
		rows = append(rows, r)
	}
	return rows
}

func minInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// rebuildRowTree recomputes the row digests named in rows (or every row
// when rows is nil) and refolds the full row tree from the resulting leaf
// level.
func (g *Grid[K, V]) rebuildRowTree(rows []int) {
	rowCount := occupiedRows(g.size, g.side)
	leafHashes := g.currentLeafLevel(g.rowTree, rowCount)
	if rows == nil {
		for r := 0; r < rowCount; r++ {
			leafHashes[r] = g.rowDigest(r)
		}
	} else {
		for _, r := range rows {
			if r >= 0 && r < len(leafHashes) {
				leafHashes[r] = g.rowDigest(r)
			}
		}
	}
	g.rowTree = buildHashTree(leafHashes, g.hash)
}

// rebuildColumnTree recomputes the column digests named in cols (or every
// column when cols is nil) and refolds the full column tree. Unlike rows,
// every column in [0,side) always holds at least one leaf: side ==
// ceil(sqrt(size)) implies size >= side, so row 0 alone already spans all
// side columns. No occupied-column count is needed.
func (g *Grid[K, V]) rebuildColumnTree(cols []int) {
	leafHashes := g.currentLeafLevel(g.colTree, g.side)
	if cols == nil {
		for c := 0; c < g.side; c++ {
			leafHashes[c] = g.columnDigest(c)
		}
	} else {
		for _, c := range cols {
			if c >= 0 && c < len(leafHashes) {
				leafHashes[c] = g.columnDigest(c)
			}
		}
	}
	g.colTree = buildHashTree(leafHashes, g.hash)
}

// currentLeafLevel returns a side-length copy of tree's current leaf
// level, reused as the base for a partial rebuild; entries beyond the
// previous leaf level (grid growth) start nil and are always recomputed
// by the caller when side itself changed.
func (g *Grid[K, V]) currentLeafLevel(tree [][][]byte, side int) [][]byte {
	out := make([][]byte, side)
	if len(tree) > 0 {
		prev := tree[len(tree)-1]
		copy(out, prev)
	}
	return out
}

func (g *Grid[K, V]) rowDigest(row int) []byte {
	var buf []byte
	start := row * g.side
	for j := 0; j < g.side; j++ {
		i := start + j
		if i >= len(g.nodes) {
			break
		}
		buf = append(buf, g.nodes[i].hash...)
	}
	return g.hash(buf)
}

func (g *Grid[K, V]) columnDigest(col int) []byte {
	var buf []byte
	for i := col; i < len(g.nodes); i += g.side {
		buf = append(buf, g.nodes[i].hash...)
	}
	return g.hash(buf)
}

// buildHashTree folds a leaf-hash level bottom-up into a full tree,
// mirroring mbt's odd-node promotion rule (§4.4): an unpaired trailing
// node is promoted unchanged rather than duplicated.
func buildHashTree(leafLevel [][]byte, hash HashFunc) [][][]byte {
	if len(leafLevel) == 0 {
		return [][][]byte{{[]byte{}}}
	}

	levels := [][][]byte{leafLevel}
	for len(levels[0]) > 1 {
		levels = append([][][]byte{foldHashLevel(levels[0], hash)}, levels...)
	}
	return levels
}

func foldHashLevel(prev [][]byte, hash HashFunc) [][]byte {
	next := make([][]byte, 0, (len(prev)+1)/2)

	i := 1
	for ; i < len(prev); i += 2 {
		next = append(next, hash(concatTwo(prev[i-1], prev[i])))
	}
	if len(prev)%2 == 1 {
		next = append(next, prev[len(prev)-1])
	}
	return next
}

func concatTwo(a, b []byte) []byte {
	buf := make([]byte, 0, len(a)+len(b))
	buf = append(buf, a...)
	buf = append(buf, b...)
	return buf
}

func rootOf(tree [][][]byte) []byte {
	if len(tree) == 0 || len(tree[0]) == 0 {
		return []byte{}
	}
	return tree[0][0]
}
