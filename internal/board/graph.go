package board

// Offset is a single knight displacement.
type Offset struct {
	DFile int
	DRank int
}

// KnightOffsets lists the eight knight moves. The order is significant: it is
// the order neighbors are recorded in, and therefore the BFS tie-break.
var KnightOffsets = [8]Offset{
	{1, 2}, {-2, -1}, {-1, 2}, {2, -1},
	{1, -2}, {-2, 1}, {-1, -2}, {2, 1},
}

type neighbors struct {
	squares [8]Square
	count   int
}

// Graph is the knight-move adjacency of the 8x8 board. It is immutable once
// built and may be shared between goroutines.
type Graph struct {
	nodes [Size * Size]neighbors
}

// Build constructs the knight graph: one node per square, linked to every
// square one knight move away.
func Build() *Graph {
	g := &Graph{}
	for idx := range g.nodes {
		from := squareAt(idx)
		node := &g.nodes[idx]
		for _, off := range KnightOffsets {
			to := Square{File: from.File + off.DFile, Rank: from.Rank + off.DRank}
			if !to.Valid() {
				continue
			}
			node.squares[node.count] = to
			node.count++
		}
	}
	return g
}

// Contains reports whether sq has a node in the graph.
func (g *Graph) Contains(sq Square) bool {
	return sq.Valid()
}

// Neighbors returns the squares one knight move from sq in edge order. The
// second result is false when sq is not on the board. The returned slice is a
// copy and may be modified by the caller.
func (g *Graph) Neighbors(sq Square) ([]Square, bool) {
	if !g.Contains(sq) {
		return nil, false
	}
	node := &g.nodes[sq.index()]
	out := make([]Square, node.count)
	copy(out, node.squares[:node.count])
	return out, true
}

// Degree returns the number of knight moves available from sq, or 0 when sq is
// off the board.
func (g *Graph) Degree(sq Square) int {
	if !g.Contains(sq) {
		return 0
	}
	return g.nodes[sq.index()].count
}

// Squares returns every square of the board in index order.
func (g *Graph) Squares() []Square {
	out := make([]Square, 0, len(g.nodes))
	for idx := range g.nodes {
		out = append(out, squareAt(idx))
	}
	return out
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for idx := range g.nodes {
		total += g.nodes[idx].count
	}
	return total
}

// IsKnightMove reports whether b is exactly one knight move from a.
func IsKnightMove(a, b Square) bool {
	df, dr := b.File-a.File, b.Rank-a.Rank
	for _, off := range KnightOffsets {
		if off.DFile == df && off.DRank == dr {
			return true
		}
	}
	return false
}
