package service

import (
	"context"
	"errors"
	"sync"

	"github.com/vanshika/knighttravails/internal/board"
	"github.com/vanshika/knighttravails/internal/domain"
	"github.com/vanshika/knighttravails/internal/search"
)

// TaskError accumulates the row failures of a table build.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// TableBuilder computes the all-pairs knight distance table. Each row is an
// independent breadth-first search over the shared, read-only graph.
type TableBuilder struct {
	graph   search.Adjacency
	squares []board.Square
	workers int
}

// NewTableBuilder creates a TableBuilder running rows on the given number of workers.
func NewTableBuilder(g *board.Graph, workers int) *TableBuilder {
	if workers <= 0 {
		workers = 4
	}
	return &TableBuilder{
		graph:   g,
		squares: g.Squares(),
		workers: workers,
	}
}

// Build returns one row per square in board index order.
func (tb *TableBuilder) Build(ctx context.Context) (domain.DistanceTable, error) {
	rows := make([]domain.DistanceRow, len(tb.squares))
	err := tb.run(ctx, len(tb.squares), func(idx int) error {
		from := tb.squares[idx]
		dist, ok := search.Distances(tb.graph, from)
		if !ok {
			return errors.New("square " + from.String() + " is not in the graph")
		}
		rows[idx] = domain.DistanceRow{From: from, Distances: dist[:]}
		return nil
	})
	if err != nil {
		return domain.DistanceTable{}, err
	}

	table := domain.DistanceTable{Rows: rows}
	for _, row := range rows {
		for _, d := range row.Distances {
			if d > table.MaxDistance {
				table.MaxDistance = d
			}
		}
	}
	return table, nil
}

func (tb *TableBuilder) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				errCh <- err
			}
		}
	}

	for i := 0; i < tb.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		taskErr.append(err)
	}
	return taskErr.asError()
}
