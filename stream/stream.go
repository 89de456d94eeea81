package stream

import (
	"iter"

	"github.com/kbukum/streamkit/pipe"
)

// Stream is a reusable, side-effect-free pipeline descriptor over
// single values. The zero value is not usable; build one with a source
// constructor and derive new descriptors with operators.
type Stream[T any] struct {
	materialize func(down pipe.Stage[T]) pipe.Producer
}

// Materialize wires a fresh disposable chain that feeds down, returning
// the head producer. The chain serves exactly one drive to exhaustion;
// rebuild from the descriptor for another pass. Most callers use the
// terminal methods instead and never touch this directly.
func (s *Stream[T]) Materialize(down pipe.Stage[T]) pipe.Producer {
	return s.materialize(down)
}

// FromSlice creates a stream over the elements of a slice. The slice is
// not copied; it must not be mutated while a drive is in progress.
func FromSlice[T any](items []T) *Stream[T] {
	return &Stream[T]{
		materialize: func(down pipe.Stage[T]) pipe.Producer {
			return &sliceSource[T]{items: items, down: down}
		},
	}
}

// Of creates a stream over the given values.
func Of[T any](values ...T) *Stream[T] {
	return FromSlice(values)
}

// FromValue creates a single-element stream.
func FromValue[T any](value T) *Stream[T] {
	return &Stream[T]{
		materialize: func(down pipe.Stage[T]) pipe.Producer {
			return &valueSource[T]{value: value, down: down}
		},
	}
}

// FromSeq creates a stream over a standard iterator sequence. The
// descriptor is reusable only if seq itself can be iterated more than
// once.
func FromSeq[T any](seq iter.Seq[T]) *Stream[T] {
	return &Stream[T]{
		materialize: func(down pipe.Stage[T]) pipe.Producer {
			next, stop := iter.Pull(seq)
			return &seqSource[T]{next: next, stop: stop, down: down}
		},
	}
}

// --- source stages ---

// A source pushes while native input remains and downstream can accept;
// otherwise it delegates to downstream to flush residual buffered work.

type sliceSource[T any] struct {
	items []T
	next  int
	down  pipe.Stage[T]
}

func (s *sliceSource[T]) Advance() (bool, error) {
	if s.next < len(s.items) && s.down.CanAccept() {
		v := s.items[s.next]
		s.next++
		if err := s.down.Accept(v); err != nil {
			return false, err
		}
		return true, nil
	}
	return s.down.Advance()
}

func (s *sliceSource[T]) Release() { pipe.Release(s.down) }

type valueSource[T any] struct {
	value    T
	produced bool
	down     pipe.Stage[T]
}

func (s *valueSource[T]) Advance() (bool, error) {
	if !s.produced && s.down.CanAccept() {
		s.produced = true
		if err := s.down.Accept(s.value); err != nil {
			return false, err
		}
		return true, nil
	}
	return s.down.Advance()
}

func (s *valueSource[T]) Release() { pipe.Release(s.down) }

type seqSource[T any] struct {
	next func() (T, bool)
	stop func()
	done bool
	down pipe.Stage[T]
}

func (s *seqSource[T]) Advance() (bool, error) {
	if !s.done && s.down.CanAccept() {
		v, ok := s.next()
		if !ok {
			s.done = true
			s.stop()
			return s.down.Advance()
		}
		if err := s.down.Accept(v); err != nil {
			return false, err
		}
		return true, nil
	}
	return s.down.Advance()
}

func (s *seqSource[T]) Release() {
	if !s.done {
		s.done = true
		s.stop()
	}
	pipe.Release(s.down)
}
