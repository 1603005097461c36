package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Size is the number of files and ranks on the board.
const Size = 8

// ErrInvalidSquare is returned when a square cannot be parsed or lies off the board.
var ErrInvalidSquare = errors.New("invalid square")

// Square is a board coordinate. File and Rank are zero based, so a1 is {0, 0}
// and h8 is {7, 7}.
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

// Valid reports whether the square lies on the 8x8 board.
func (s Square) Valid() bool {
	return s.File >= 0 && s.File < Size && s.Rank >= 0 && s.Rank < Size
}

// String renders the square in algebraic notation. Off-board squares fall back
// to their raw coordinates.
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.File, s.Rank)
	}
	return string(rune('a'+s.File)) + strconv.Itoa(s.Rank+1)
}

func (s Square) index() int {
	return s.File*Size + s.Rank
}

func squareAt(idx int) Square {
	return Square{File: idx / Size, Rank: idx % Size}
}

// ParseSquare accepts algebraic notation ("d4") or a "file,rank" pair ("3,3").
// The result is always on the board.
func ParseSquare(raw string) (Square, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return Square{}, fmt.Errorf("%w: empty value", ErrInvalidSquare)
	}

	var sq Square
	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		if len(parts) != 2 {
			return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, raw)
		}
		file, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, raw)
		}
		rank, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, raw)
		}
		sq = Square{File: file, Rank: rank}
	} else {
		if len(value) != 2 || value[0] < 'a' || value[0] > 'z' {
			return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, raw)
		}
		rank, err := strconv.Atoi(value[1:])
		if err != nil {
			return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, raw)
		}
		sq = Square{File: int(value[0] - 'a'), Rank: rank - 1}
	}

	if !sq.Valid() {
		return Square{}, fmt.Errorf("%w: %q is off the board", ErrInvalidSquare, raw)
	}
	return sq, nil
}
