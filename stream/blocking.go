package stream

import (
	"cmp"
	"slices"

	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/pipe"
)

// DefaultBufferCapacity is the initial capacity of the growable buffer
// owned by each blocking operator stage. The buffer grows by doubling.
const DefaultBufferCapacity = 256

var bufferCapacity = DefaultBufferCapacity

// SetBufferCapacity overrides the initial buffer capacity used by
// blocking operators in chains materialized afterwards. Values below 1
// reset the default.
func SetBufferCapacity(n int) {
	if n < 1 {
		n = DefaultBufferCapacity
	}
	bufferCapacity = n
}

// Sorted buffers the whole upstream, sorts it once with cmp on the
// first advance after upstream exhaustion, then emits one element per
// advance. The sort is stable: elements comparing equal keep their
// arrival order.
func (s *Stream[T]) Sorted(cmp func(T, T) int) *Stream[T] {
	return &Stream[T]{
		materialize: func(down pipe.Stage[T]) pipe.Producer {
			return s.materialize(&sortedStage[T]{down: down, cmp: cmp})
		},
	}
}

// SortByKey sorts by an ordered sort key extracted from each element.
func SortByKey[T any, C cmp.Ordered](s *Stream[T], key func(T) C) *Stream[T] {
	return s.Sorted(func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
}

// Unique drops duplicate elements. It is blocking: the whole upstream
// is observed before anything is emitted, and elements drain in
// first-seen (insertion) order.
func Unique[T comparable](s *Stream[T]) *Stream[T] {
	return &Stream[T]{
		materialize: func(down pipe.Stage[T]) pipe.Producer {
			return s.materialize(&uniqueStage[T]{down: down, seen: make(map[T]struct{})})
		},
	}
}

// GroupBy buckets elements by the key keyFn assigns them, producing a
// keyed pipeline of (key, bucket) pairs. Buckets preserve element
// arrival order; keys drain in first-seen order.
func GroupBy[T any, K comparable](s *Stream[T], keyFn func(T) K) *Pairs[K, []T] {
	return &Pairs[K, []T]{
		materialize: func(down pipe.PairStage[K, []T]) pipe.Producer {
			return s.materialize(&groupStage[T, K]{
				down:    down,
				keysOf:  func(v T) []K { return []K{keyFn(v)} },
				buckets: make(map[K][]T),
			})
		},
	}
}

// GroupByMulti buckets each element under every key keysFn assigns it;
// an element appears in one bucket per distinct key produced for it.
func GroupByMulti[T any, K comparable](s *Stream[T], keysFn func(T) []K) *Pairs[K, []T] {
	return &Pairs[K, []T]{
		materialize: func(down pipe.PairStage[K, []T]) pipe.Producer {
			return s.materialize(&groupStage[T, K]{
				down:    down,
				keysOf:  keysFn,
				buckets: make(map[K][]T),
			})
		},
	}
}

// --- blocking stages ---

// A blocking stage buffers while consuming. Its first Advance call
// arrives only once upstream is exhausted (sources and flat-maps never
// delegate while they can still push), flipping it into the producing
// phase; from then on it emits one buffered element per advance and
// rejects further input.

type sortedStage[T any] struct {
	down      pipe.Stage[T]
	cmp       func(T, T) int
	buf       []T
	producing bool
	next      int
}

func (st *sortedStage[T]) CanAccept() bool { return !st.producing }

func (st *sortedStage[T]) Accept(v T) error {
	if st.producing {
		return apperrors.InvalidState("sorted stage is draining and cannot accept")
	}
	if st.buf == nil {
		st.buf = make([]T, 0, bufferCapacity)
	}
	st.buf = append(st.buf, v)
	return nil
}

func (st *sortedStage[T]) Advance() (bool, error) {
	if !st.producing {
		st.producing = true
		slices.SortStableFunc(st.buf, st.cmp)
	}
	if st.next < len(st.buf) {
		if !st.down.CanAccept() {
			return st.down.Advance()
		}
		v := st.buf[st.next]
		st.next++
		if err := st.down.Accept(v); err != nil {
			return false, err
		}
		return true, nil
	}
	return st.down.Advance()
}

func (st *sortedStage[T]) Release() { pipe.Release(st.down) }

type uniqueStage[T comparable] struct {
	down      pipe.Stage[T]
	seen      map[T]struct{}
	order     []T
	producing bool
	next      int
}

func (st *uniqueStage[T]) CanAccept() bool { return !st.producing }

func (st *uniqueStage[T]) Accept(v T) error {
	if st.producing {
		return apperrors.InvalidState("unique stage is draining and cannot accept")
	}
	if _, dup := st.seen[v]; dup {
		return nil
	}
	st.seen[v] = struct{}{}
	st.order = append(st.order, v)
	return nil
}

func (st *uniqueStage[T]) Advance() (bool, error) {
	st.producing = true
	if st.next < len(st.order) {
		if !st.down.CanAccept() {
			return st.down.Advance()
		}
		v := st.order[st.next]
		st.next++
		if err := st.down.Accept(v); err != nil {
			return false, err
		}
		return true, nil
	}
	return st.down.Advance()
}

func (st *uniqueStage[T]) Release() { pipe.Release(st.down) }

type groupStage[T any, K comparable] struct {
	down      pipe.PairStage[K, []T]
	keysOf    func(T) []K
	buckets   map[K][]T
	order     []K
	producing bool
	next      int
}

func (st *groupStage[T, K]) CanAccept() bool { return !st.producing }

func (st *groupStage[T, K]) Accept(v T) error {
	if st.producing {
		return apperrors.InvalidState("group-by stage is draining and cannot accept")
	}
	for _, k := range st.keysOf(v) {
		if _, ok := st.buckets[k]; !ok {
			st.order = append(st.order, k)
		}
		st.buckets[k] = append(st.buckets[k], v)
	}
	return nil
}

func (st *groupStage[T, K]) Advance() (bool, error) {
	st.producing = true
	if st.next < len(st.order) {
		if !st.down.CanAccept() {
			return st.down.Advance()
		}
		k := st.order[st.next]
		st.next++
		if err := st.down.Accept(k, st.buckets[k]); err != nil {
			return false, err
		}
		return true, nil
	}
	return st.down.Advance()
}

func (st *groupStage[T, K]) Release() { pipe.Release(st.down) }
