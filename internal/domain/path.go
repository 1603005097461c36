package domain

import "github.com/vanshika/knighttravails/internal/board"

// KnightPath is a shortest knight route between two squares.
type KnightPath struct {
	From    board.Square
	To      board.Square
	Squares []board.Square
	Moves   int
	Backend string
}

// SquareMoves lists the knight moves available from a square.
type SquareMoves struct {
	Square board.Square
	Moves  []board.Square
}

// DistanceRow holds the knight distance from one square to every square,
// indexed by file*8+rank.
type DistanceRow struct {
	From      board.Square
	Distances []int
}

// DistanceTable is the all-pairs knight distance matrix of the board.
type DistanceTable struct {
	Rows        []DistanceRow
	MaxDistance int
}
