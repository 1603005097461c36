// Package search finds shortest knight routes over a board.Graph.
package search

import (
	"github.com/vanshika/knighttravails/internal/board"
)

// Path is an ordered route from a start square to an end square, both
// inclusive. Consecutive squares are one knight move apart.
type Path []board.Square

// Moves returns the number of knight moves in the path.
func (p Path) Moves() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Valid reports whether every consecutive pair in the path is a legal knight move.
func (p Path) Valid() bool {
	if len(p) == 0 {
		return false
	}
	for i := 1; i < len(p); i++ {
		if !board.IsKnightMove(p[i-1], p[i]) {
			return false
		}
	}
	return true
}

// Adjacency is the read-only view of a knight graph the search needs.
// *board.Graph implements it.
type Adjacency interface {
	Contains(sq board.Square) bool
	Neighbors(sq board.Square) ([]board.Square, bool)
}

// FindShortestPath runs a breadth-first search from start to end. The second
// result is false when either square is not in the graph or end cannot be
// reached. Among equally short routes the one discovered first in graph edge
// order wins.
func FindShortestPath(g Adjacency, start, end board.Square) (Path, bool) {
	if !g.Contains(start) || !g.Contains(end) {
		return nil, false
	}
	if start == end {
		return Path{start}, true
	}

	parent := make(map[board.Square]board.Square)
	visited := map[board.Square]bool{start: true}
	queue := []board.Square{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == end {
			return reconstruct(parent, start, end), true
		}

		adj, _ := g.Neighbors(current)
		for _, next := range adj {
			if visited[next] {
				continue
			}
			// Marked on enqueue so a square is never queued through two parents.
			visited[next] = true
			parent[next] = current
			queue = append(queue, next)
		}
	}

	return nil, false
}

func reconstruct(parent map[board.Square]board.Square, start, end board.Square) Path {
	var reversed Path
	for sq := end; ; sq = parent[sq] {
		reversed = append(reversed, sq)
		if sq == start {
			break
		}
	}

	path := make(Path, len(reversed))
	for i, sq := range reversed {
		path[len(reversed)-1-i] = sq
	}
	return path
}

// Distances returns the knight distance from start to every square, indexed by
// file*8+rank. Unreachable squares hold -1. The second result is false when
// start is not in the graph.
func Distances(g Adjacency, start board.Square) ([board.Size * board.Size]int, bool) {
	var dist [board.Size * board.Size]int
	for i := range dist {
		dist[i] = -1
	}
	if !g.Contains(start) {
		return dist, false
	}

	dist[indexOf(start)] = 0
	queue := []board.Square{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		adj, _ := g.Neighbors(current)
		for _, next := range adj {
			if !next.Valid() || dist[indexOf(next)] >= 0 {
				continue
			}
			dist[indexOf(next)] = dist[indexOf(current)] + 1
			queue = append(queue, next)
		}
	}
	return dist, true
}

func indexOf(sq board.Square) int {
	return sq.File*board.Size + sq.Rank
}
