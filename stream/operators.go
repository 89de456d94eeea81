package stream

import (
	"iter"

	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/pipe"
)

// Filter keeps only elements that satisfy the predicate.
func (s *Stream[T]) Filter(pred func(T) bool) *Stream[T] {
	return &Stream[T]{
		materialize: func(down pipe.Stage[T]) pipe.Producer {
			return s.materialize(&filterStage[T]{down: down, pred: pred})
		},
	}
}

// Tap calls fn as a side-effect for each element, then passes the
// element through unchanged. Use for logging or counting mid-pipeline.
func (s *Stream[T]) Tap(fn func(T)) *Stream[T] {
	return &Stream[T]{
		materialize: func(down pipe.Stage[T]) pipe.Producer {
			return s.materialize(&tapStage[T]{down: down, fn: fn})
		},
	}
}

// Cumulate forwards the running combination of all elements seen so
// far: the first element passes through as-is and becomes the
// accumulator, each later element is combined into it via op before
// being forwarded. Stateful but O(1) memory.
func (s *Stream[T]) Cumulate(op func(T, T) T) *Stream[T] {
	return &Stream[T]{
		materialize: func(down pipe.Stage[T]) pipe.Producer {
			return s.materialize(&cumulateStage[T]{down: down, op: op})
		},
	}
}

// Map transforms each element using fn.
func Map[I, O any](s *Stream[I], fn func(I) O) *Stream[O] {
	return &Stream[O]{
		materialize: func(down pipe.Stage[O]) pipe.Producer {
			return s.materialize(&mapStage[I, O]{down: down, fn: fn})
		},
	}
}

// FlatMap transforms each element into a sequence and flattens the
// results. While an inner sequence is being drained the stage refuses
// new input (CanAccept reports false); each advance forwards one inner
// element, and the inner iterator is disposed as soon as it is
// exhausted.
func FlatMap[I, O any](s *Stream[I], fn func(I) iter.Seq[O]) *Stream[O] {
	return &Stream[O]{
		materialize: func(down pipe.Stage[O]) pipe.Producer {
			return s.materialize(&flatMapStage[I, O]{down: down, fn: fn})
		},
	}
}

// --- streaming stages ---

type filterStage[T any] struct {
	down pipe.Stage[T]
	pred func(T) bool
}

func (st *filterStage[T]) CanAccept() bool { return st.down.CanAccept() }

func (st *filterStage[T]) Accept(v T) error {
	if !st.pred(v) {
		return nil
	}
	return st.down.Accept(v)
}

func (st *filterStage[T]) Advance() (bool, error) { return st.down.Advance() }

func (st *filterStage[T]) Release() { pipe.Release(st.down) }

type tapStage[T any] struct {
	down pipe.Stage[T]
	fn   func(T)
}

func (st *tapStage[T]) CanAccept() bool { return st.down.CanAccept() }

func (st *tapStage[T]) Accept(v T) error {
	st.fn(v)
	return st.down.Accept(v)
}

func (st *tapStage[T]) Advance() (bool, error) { return st.down.Advance() }

func (st *tapStage[T]) Release() { pipe.Release(st.down) }

type cumulateStage[T any] struct {
	down   pipe.Stage[T]
	op     func(T, T) T
	acc    T
	seeded bool
}

func (st *cumulateStage[T]) CanAccept() bool { return st.down.CanAccept() }

func (st *cumulateStage[T]) Accept(v T) error {
	if !st.seeded {
		st.acc = v
		st.seeded = true
	} else {
		st.acc = st.op(st.acc, v)
	}
	return st.down.Accept(st.acc)
}

func (st *cumulateStage[T]) Advance() (bool, error) { return st.down.Advance() }

func (st *cumulateStage[T]) Release() { pipe.Release(st.down) }

type mapStage[I, O any] struct {
	down pipe.Stage[O]
	fn   func(I) O
}

func (st *mapStage[I, O]) CanAccept() bool { return st.down.CanAccept() }

func (st *mapStage[I, O]) Accept(v I) error {
	return st.down.Accept(st.fn(v))
}

func (st *mapStage[I, O]) Advance() (bool, error) { return st.down.Advance() }

func (st *mapStage[I, O]) Release() { pipe.Release(st.down) }

type flatMapStage[I, O any] struct {
	down pipe.Stage[O]
	fn   func(I) iter.Seq[O]

	// pull state of the active inner sequence, nil when none
	next func() (O, bool)
	stop func()

	// one-element lookahead so CanAccept can tell whether the inner
	// sequence is exhausted without losing an element
	pending    O
	hasPending bool
}

// prime pulls the lookahead element and disposes the inner iterator as
// soon as it runs dry.
func (st *flatMapStage[I, O]) prime() {
	if st.hasPending || st.next == nil {
		return
	}
	v, ok := st.next()
	if !ok {
		st.stop()
		st.next, st.stop = nil, nil
		return
	}
	st.pending, st.hasPending = v, true
}

func (st *flatMapStage[I, O]) CanAccept() bool {
	st.prime()
	return !st.hasPending && st.down.CanAccept()
}

func (st *flatMapStage[I, O]) Accept(v I) error {
	st.prime()
	if st.hasPending {
		return apperrors.InvalidState("flat-map stage cannot accept while an inner sequence is active")
	}
	st.next, st.stop = iter.Pull(st.fn(v))
	st.prime()
	return nil
}

func (st *flatMapStage[I, O]) Advance() (bool, error) {
	st.prime()
	if st.hasPending {
		if !st.down.CanAccept() {
			return st.down.Advance()
		}
		v := st.pending
		st.hasPending = false
		var zero O
		st.pending = zero
		if err := st.down.Accept(v); err != nil {
			return false, err
		}
		return true, nil
	}
	return st.down.Advance()
}

func (st *flatMapStage[I, O]) Release() {
	if st.stop != nil {
		st.stop()
		st.next, st.stop = nil, nil
	}
	st.hasPending = false
	pipe.Release(st.down)
}
