package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/domain"
	"github.com/vanshika/knighttravails/internal/graph"
)

// ErrBoardNotSeeded is returned when the database holds no squares.
var ErrBoardNotSeeded = errors.New("knight graph has not been seeded")

// Repository persists the knight graph in a Cypher database and queries it.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// SeedStats reports what SeedBoard wrote.
type SeedStats struct {
	Squares int
	Moves   int
}

// SeedBoard writes one :Square node per square and one :KNIGHT_MOVE
// relationship per directed graph edge. It is idempotent.
func (r *Repository) SeedBoard(ctx context.Context, g *board.Graph) (SeedStats, error) {
	if _, err := r.client.ExecuteWrite(ctx, squareConstraintCypher, nil); err != nil {
		return SeedStats{}, fmt.Errorf("create square constraint: %w", err)
	}

	squares := squareParams(g)
	if _, err := r.client.ExecuteWrite(ctx, upsertSquaresCypher, map[string]any{"squares": squares}); err != nil {
		return SeedStats{}, fmt.Errorf("upsert squares: %w", err)
	}

	moves := moveParams(g)
	if _, err := r.client.ExecuteWrite(ctx, upsertMovesCypher, map[string]any{"moves": moves}); err != nil {
		return SeedStats{}, fmt.Errorf("upsert knight moves: %w", err)
	}

	return SeedStats{Squares: len(squares), Moves: len(moves)}, nil
}

// CountSquares returns the number of :Square nodes stored.
func (r *Repository) CountSquares(ctx context.Context) (int, error) {
	res, err := r.client.ExecuteRead(ctx, countSquaresCypher, nil)
	if err != nil {
		return 0, fmt.Errorf("count squares: %w", err)
	}
	record, ok := res.First()
	if !ok {
		return 0, nil
	}
	total, _ := record.Int("total")
	return total, nil
}

// EnsureSeeded returns ErrBoardNotSeeded unless every square is stored.
func (r *Repository) EnsureSeeded(ctx context.Context) error {
	total, err := r.CountSquares(ctx)
	if err != nil {
		return err
	}
	if total < board.Size*board.Size {
		return fmt.Errorf("%w: found %d of %d squares", ErrBoardNotSeeded, total, board.Size*board.Size)
	}
	return nil
}

// ShortestPath asks the database for a shortest knight route. The boolean is
// false when either square is off the board or no route exists. Ties are
// broken by the database, not by the in-memory edge order.
func (r *Repository) ShortestPath(ctx context.Context, from, to board.Square) (domain.KnightPath, bool, error) {
	if !from.Valid() || !to.Valid() {
		return domain.KnightPath{}, false, nil
	}
	if from == to {
		return domain.KnightPath{
			From:    from,
			To:      to,
			Squares: []board.Square{from},
		}, true, nil
	}

	res, err := r.client.ExecuteRead(ctx, shortestPathCypher, map[string]any{
		"from": from.String(),
		"to":   to.String(),
	})
	if err != nil {
		return domain.KnightPath{}, false, fmt.Errorf("shortest path query: %w", err)
	}

	record, ok := res.First()
	if !ok {
		return domain.KnightPath{}, false, nil
	}

	namesRaw, ok := record["squares"].([]any)
	if !ok || len(namesRaw) == 0 {
		return domain.KnightPath{}, false, nil
	}

	path := domain.KnightPath{From: from, To: to}
	for _, raw := range namesRaw {
		name, _ := raw.(string)
		sq, err := board.ParseSquare(name)
		if err != nil {
			return domain.KnightPath{}, false, fmt.Errorf("decode path square: %w", err)
		}
		path.Squares = append(path.Squares, sq)
	}

	if hops, ok := record.Int("hops"); ok {
		path.Moves = hops
	} else {
		path.Moves = len(path.Squares) - 1
	}
	return path, true, nil
}

func squareParams(g *board.Graph) []map[string]any {
	squares := g.Squares()
	out := make([]map[string]any, 0, len(squares))
	for _, sq := range squares {
		out = append(out, map[string]any{
			"name":   sq.String(),
			"file":   sq.File,
			"rank":   sq.Rank,
			"degree": g.Degree(sq),
		})
	}
	return out
}

func moveParams(g *board.Graph) []map[string]any {
	out := make([]map[string]any, 0, g.EdgeCount())
	for _, from := range g.Squares() {
		adj, _ := g.Neighbors(from)
		for i, to := range adj {
			out = append(out, map[string]any{
				"from":  from.String(),
				"to":    to.String(),
				"order": i,
			})
		}
	}
	return out
}

const squareConstraintCypher = `
CREATE CONSTRAINT square_name IF NOT EXISTS
FOR (s:Square) REQUIRE s.name IS UNIQUE
`

const upsertSquaresCypher = `
UNWIND $squares AS sq
MERGE (s:Square {name: sq.name})
SET s.file = sq.file,
    s.rank = sq.rank,
    s.degree = sq.degree
`

const upsertMovesCypher = `
UNWIND $moves AS mv
MATCH (a:Square {name: mv.from})
MATCH (b:Square {name: mv.to})
MERGE (a)-[m:KNIGHT_MOVE]->(b)
SET m.order = mv.order
`

const countSquaresCypher = `
MATCH (s:Square)
RETURN count(s) AS total
`

// No two squares on an 8x8 board are more than six knight moves apart.
const shortestPathCypher = `
MATCH (source:Square {name: $from}), (target:Square {name: $to})
MATCH path = shortestPath((source)-[:KNIGHT_MOVE*..6]->(target))
RETURN [n IN nodes(path) | n.name] AS squares,
       length(path) AS hops
`
