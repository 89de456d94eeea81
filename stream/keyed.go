package stream

import (
	"iter"
	"maps"

	"github.com/kbukum/streamkit/pipe"
)

// Pair is a key/value entry flowing through a keyed pipeline.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Pairs is the keyed counterpart of Stream: a reusable descriptor for a
// pipeline of key/value pairs.
type Pairs[K, V any] struct {
	materialize func(down pipe.PairStage[K, V]) pipe.Producer
}

// Materialize wires a fresh disposable chain that feeds down, returning
// the head producer. See Stream.Materialize.
func (p *Pairs[K, V]) Materialize(down pipe.PairStage[K, V]) pipe.Producer {
	return p.materialize(down)
}

// FromMap creates a keyed pipeline over the entries of a map. Entry
// order is the map's iteration order and therefore unspecified; apply
// Sorted when a deterministic order matters. The map is not copied.
func FromMap[K comparable, V any](m map[K]V) *Pairs[K, V] {
	return &Pairs[K, V]{
		materialize: func(down pipe.PairStage[K, V]) pipe.Producer {
			next, stop := iter.Pull2(maps.All(m))
			return &pairSeqSource[K, V]{next: next, stop: stop, down: down}
		},
	}
}

// FromPairs creates a keyed pipeline over a slice of entries, in slice
// order. The slice is not copied.
func FromPairs[K, V any](entries []Pair[K, V]) *Pairs[K, V] {
	return &Pairs[K, V]{
		materialize: func(down pipe.PairStage[K, V]) pipe.Producer {
			return &pairSliceSource[K, V]{entries: entries, down: down}
		},
	}
}

// FromSeq2 creates a keyed pipeline over a standard two-value iterator
// sequence. The descriptor is reusable only if seq itself can be
// iterated more than once.
func FromSeq2[K, V any](seq iter.Seq2[K, V]) *Pairs[K, V] {
	return &Pairs[K, V]{
		materialize: func(down pipe.PairStage[K, V]) pipe.Producer {
			next, stop := iter.Pull2(seq)
			return &pairSeqSource[K, V]{next: next, stop: stop, down: down}
		},
	}
}

// Keyed lifts a stream into a keyed pipeline, using each element as the
// key and fn(element) as its value.
func Keyed[T, V any](s *Stream[T], fn func(T) V) *Pairs[T, V] {
	return &Pairs[T, V]{
		materialize: func(down pipe.PairStage[T, V]) pipe.Producer {
			return s.materialize(&keyedStage[T, V]{down: down, fn: fn})
		},
	}
}

// Keys projects the keyed pipeline down to a stream of its keys.
func (p *Pairs[K, V]) Keys() *Stream[K] {
	return &Stream[K]{
		materialize: func(down pipe.Stage[K]) pipe.Producer {
			return p.materialize(&keysStage[K, V]{down: down})
		},
	}
}

// Values projects the keyed pipeline down to a stream of its values.
func (p *Pairs[K, V]) Values() *Stream[V] {
	return &Stream[V]{
		materialize: func(down pipe.Stage[V]) pipe.Producer {
			return p.materialize(&valuesStage[K, V]{down: down})
		},
	}
}

// Entries projects the keyed pipeline down to a stream of Pair entries.
func (p *Pairs[K, V]) Entries() *Stream[Pair[K, V]] {
	return &Stream[Pair[K, V]]{
		materialize: func(down pipe.Stage[Pair[K, V]]) pipe.Producer {
			return p.materialize(&entriesStage[K, V]{down: down})
		},
	}
}

// --- keyed sources ---

type pairSliceSource[K, V any] struct {
	entries []Pair[K, V]
	next    int
	down    pipe.PairStage[K, V]
}

func (s *pairSliceSource[K, V]) Advance() (bool, error) {
	if s.next < len(s.entries) && s.down.CanAccept() {
		e := s.entries[s.next]
		s.next++
		if err := s.down.Accept(e.Key, e.Value); err != nil {
			return false, err
		}
		return true, nil
	}
	return s.down.Advance()
}

func (s *pairSliceSource[K, V]) Release() { pipe.Release(s.down) }

type pairSeqSource[K, V any] struct {
	next func() (K, V, bool)
	stop func()
	done bool
	down pipe.PairStage[K, V]
}

func (s *pairSeqSource[K, V]) Advance() (bool, error) {
	if !s.done && s.down.CanAccept() {
		k, v, ok := s.next()
		if !ok {
			s.done = true
			s.stop()
			return s.down.Advance()
		}
		if err := s.down.Accept(k, v); err != nil {
			return false, err
		}
		return true, nil
	}
	return s.down.Advance()
}

func (s *pairSeqSource[K, V]) Release() {
	if !s.done {
		s.done = true
		s.stop()
	}
	pipe.Release(s.down)
}

// --- conversion stages ---

type keyedStage[T, V any] struct {
	down pipe.PairStage[T, V]
	fn   func(T) V
}

func (st *keyedStage[T, V]) CanAccept() bool { return st.down.CanAccept() }

func (st *keyedStage[T, V]) Accept(v T) error {
	return st.down.Accept(v, st.fn(v))
}

func (st *keyedStage[T, V]) Advance() (bool, error) { return st.down.Advance() }

func (st *keyedStage[T, V]) Release() { pipe.Release(st.down) }

type keysStage[K, V any] struct {
	down pipe.Stage[K]
}

func (st *keysStage[K, V]) CanAccept() bool { return st.down.CanAccept() }

func (st *keysStage[K, V]) Accept(k K, _ V) error {
	return st.down.Accept(k)
}

func (st *keysStage[K, V]) Advance() (bool, error) { return st.down.Advance() }

func (st *keysStage[K, V]) Release() { pipe.Release(st.down) }

type valuesStage[K, V any] struct {
	down pipe.Stage[V]
}

func (st *valuesStage[K, V]) CanAccept() bool { return st.down.CanAccept() }

func (st *valuesStage[K, V]) Accept(_ K, v V) error {
	return st.down.Accept(v)
}

func (st *valuesStage[K, V]) Advance() (bool, error) { return st.down.Advance() }

func (st *valuesStage[K, V]) Release() { pipe.Release(st.down) }

type entriesStage[K, V any] struct {
	down pipe.Stage[Pair[K, V]]
}

func (st *entriesStage[K, V]) CanAccept() bool { return st.down.CanAccept() }

func (st *entriesStage[K, V]) Accept(k K, v V) error {
	return st.down.Accept(Pair[K, V]{Key: k, Value: v})
}

func (st *entriesStage[K, V]) Advance() (bool, error) { return st.down.Advance() }

func (st *entriesStage[K, V]) Release() { pipe.Release(st.down) }
