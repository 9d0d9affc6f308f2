package parallel

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

type result[D any] struct {
	d D
	e error
}

// Map is a parallel mapping function backed by a fixed pool of workers which
// drain a single queue fed from the input iterator, so at most limit mapFuncs
// run at any time. Entries are dispatched in input order, results are
// yielded in completion order. Map is context aware, so canceled context
// stops dispatching new entries.
//
//	for result, err := range pmap.Iter(input) {}
type Map[E, D any] struct {
	parentCtx    context.Context
	cancelParent context.CancelFunc
	limit        int
	mapFunc      func(context.Context, E) (D, error)
}

func NewMap[E, D any](parentCtx context.Context, limit int, mapFunc func(context.Context, E) (D, error)) *Map[E, D] {
	if limit < 1 {
		limit = 1
	}
	parentCtx, cancelParent := context.WithCancel(parentCtx)
	return &Map[E, D]{
		parentCtx:    parentCtx,
		cancelParent: cancelParent,
		limit:        limit,
		mapFunc:      mapFunc,
	}
}

func (s *Map[E, D]) goWorkers(g *errgroup.Group, gctx context.Context, seq iter.Seq2[E, error], mapped chan<- result[D]) {
	queue := make(chan E)

	g.Go(func() error {
		defer close(queue)
		for entry, nerr := range seq {
			if nerr != nil {
				continue
			}
			select {
			case <-gctx.Done():
				return gctx.Err()
			case queue <- entry:
			}
		}
		return nil
	})

	for range s.limit {
		g.Go(func() error {
			for entry := range queue {
				d, err := s.mapFunc(gctx, entry)
				select {
				case <-gctx.Done():
					return gctx.Err()
				case mapped <- result[D]{d: d, e: err}:
				}
			}
			return nil
		})
	}
}

// Iter can be ranged over once. Breaking out of the loop cancels the
// remaining work.
func (s *Map[E, D]) Iter(seq iter.Seq2[E, error]) iter.Seq2[D, error] {
	return func(yield func(D, error) bool) {
		defer s.cancelParent()

		g, gctx := errgroup.WithContext(s.parentCtx)
		mapped := make(chan result[D], s.limit)
		s.goWorkers(g, gctx, seq, mapped)

		done := make(chan struct{})
		go func() {
			_ = g.Wait()
			close(mapped)
			close(done)
		}()
		defer func() {
			s.cancelParent()
			<-done
		}()

		for r := range mapped {
			if !yield(r.d, r.e) {
				return
			}
		}
	}
}

// All adapts a slice to the input of Iter.
func All[T any](s []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, x := range s {
			if !yield(x, nil) {
				return
			}
		}
	}
}
