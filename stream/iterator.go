package stream

import (
	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/pipe"
)

// Iterator pulls elements out of a pipeline one at a time, driving the
// chain just far enough to buffer the next element. It bridges the
// push-based chain to pull-style consumption; unlike terminal drives it
// is uninstrumented and carries no context.
type Iterator[T any] struct {
	head pipe.Producer
	tail *iterTail[T]
	done bool
}

// Iter materializes the pipeline behind a pull iterator. Like any
// materialized chain it serves a single pass.
func (s *Stream[T]) Iter() *Iterator[T] {
	tail := &iterTail[T]{}
	return &Iterator[T]{head: s.materialize(tail), tail: tail}
}

// Iter materializes the keyed pipeline behind a pull iterator over its
// entries.
func (p *Pairs[K, V]) Iter() *Iterator[Pair[K, V]] {
	return p.Entries().Iter()
}

// HasNext reports whether another element is available, driving the
// chain as needed to find out.
func (it *Iterator[T]) HasNext() (bool, error) {
	for !it.done && !it.tail.has {
		more, err := it.head.Advance()
		if err != nil {
			return false, err
		}
		if !more {
			it.done = true
		}
	}
	return it.tail.has, nil
}

// Stop releases the underlying chain, stopping any partially drained
// pull iterators. Call it when abandoning the iterator before
// exhaustion; it is safe to call at any point, more than once.
func (it *Iterator[T]) Stop() {
	it.done = true
	it.tail.has = false
	pipe.Release(it.head)
}

// Next returns the next element. Fails with a sequence-exhausted error
// when called past the end.
func (it *Iterator[T]) Next() (T, error) {
	has, err := it.HasNext()
	if err != nil {
		var zero T
		return zero, err
	}
	if !has {
		var zero T
		return zero, apperrors.Exhausted("next")
	}
	v := it.tail.value
	var zero T
	it.tail.value = zero
	it.tail.has = false
	return v, nil
}

// iterTail buffers one element and blocks upstream until it is taken.
type iterTail[T any] struct {
	pipe.Tail
	value T
	has   bool
}

func (t *iterTail[T]) CanAccept() bool { return !t.has }

func (t *iterTail[T]) Accept(v T) error {
	if t.has {
		return apperrors.InvalidState("iterator tail already holds an element")
	}
	t.value = v
	t.has = true
	return nil
}
