package stream

import (
	"iter"
	"slices"

	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/pipe"
)

// FilterKeys keeps only entries whose key satisfies the predicate.
func (p *Pairs[K, V]) FilterKeys(pred func(K) bool) *Pairs[K, V] {
	return p.Filter(func(k K, _ V) bool { return pred(k) })
}

// FilterValues keeps only entries whose value satisfies the predicate.
func (p *Pairs[K, V]) FilterValues(pred func(V) bool) *Pairs[K, V] {
	return p.Filter(func(_ K, v V) bool { return pred(v) })
}

// Filter keeps only entries that satisfy the two-argument predicate.
func (p *Pairs[K, V]) Filter(pred func(K, V) bool) *Pairs[K, V] {
	return &Pairs[K, V]{
		materialize: func(down pipe.PairStage[K, V]) pipe.Producer {
			return p.materialize(&pairFilterStage[K, V]{down: down, pred: pred})
		},
	}
}

// Swap exchanges keys and values.
func (p *Pairs[K, V]) Swap() *Pairs[V, K] {
	return &Pairs[V, K]{
		materialize: func(down pipe.PairStage[V, K]) pipe.Producer {
			return p.materialize(&swapStage[K, V]{down: down})
		},
	}
}

// Merge interleaves two keyed pipelines into one, alternating entries
// between the receiver and other while both have input and draining the
// remainder once one is exhausted.
func (p *Pairs[K, V]) Merge(other *Pairs[K, V]) *Pairs[K, V] {
	return &Pairs[K, V]{
		materialize: func(down pipe.PairStage[K, V]) pipe.Producer {
			return &mergeProducer{
				primary:   p.materialize(&fenceStage[K, V]{down: down}),
				secondary: other.materialize(&fenceStage[K, V]{down: down}),
				down:      down,
			}
		},
	}
}

// Sorted orders entries by key using cmp. Blocking, and stable: entries
// with equal keys keep their arrival order.
func (p *Pairs[K, V]) Sorted(cmp func(K, K) int) *Pairs[K, V] {
	return &Pairs[K, V]{
		materialize: func(down pipe.PairStage[K, V]) pipe.Producer {
			return p.materialize(&pairSortedStage[K, V]{down: down, cmp: cmp})
		},
	}
}

// MapPairs collapses each entry into a single value computed from both
// key and value, producing a plain stream.
func MapPairs[K, V, W any](p *Pairs[K, V], fn func(K, V) W) *Stream[W] {
	return &Stream[W]{
		materialize: func(down pipe.Stage[W]) pipe.Producer {
			return p.materialize(&mapPairsStage[K, V, W]{down: down, fn: fn})
		},
	}
}

// MapValues transforms each value, keeping the key.
func MapValues[K, V, W any](p *Pairs[K, V], fn func(V) W) *Pairs[K, W] {
	return &Pairs[K, W]{
		materialize: func(down pipe.PairStage[K, W]) pipe.Producer {
			return p.materialize(&mapValuesStage[K, V, W]{down: down, fn: fn})
		},
	}
}

// FlatMapValues expands each entry into a sequence of values, emitting
// one entry per produced value under the original key. While an inner
// sequence is being drained the stage refuses new input.
func FlatMapValues[K, V, W any](p *Pairs[K, V], fn func(K, V) iter.Seq[W]) *Pairs[K, W] {
	return &Pairs[K, W]{
		materialize: func(down pipe.PairStage[K, W]) pipe.Producer {
			return p.materialize(&flatMapValuesStage[K, V, W]{down: down, fn: fn})
		},
	}
}

// GroupByKey gathers the values sharing a key into one slice per
// distinct key. Blocking; values keep arrival order within a group and
// keys drain in first-seen order.
func GroupByKey[K comparable, V any](p *Pairs[K, V]) *Pairs[K, []V] {
	return &Pairs[K, []V]{
		materialize: func(down pipe.PairStage[K, []V]) pipe.Producer {
			return p.materialize(&groupByKeyStage[K, V]{
				down:    down,
				buckets: make(map[K][]V),
			})
		},
	}
}

// --- keyed streaming stages ---

type pairFilterStage[K, V any] struct {
	down pipe.PairStage[K, V]
	pred func(K, V) bool
}

func (st *pairFilterStage[K, V]) CanAccept() bool { return st.down.CanAccept() }

func (st *pairFilterStage[K, V]) Accept(k K, v V) error {
	if !st.pred(k, v) {
		return nil
	}
	return st.down.Accept(k, v)
}

func (st *pairFilterStage[K, V]) Advance() (bool, error) { return st.down.Advance() }

func (st *pairFilterStage[K, V]) Release() { pipe.Release(st.down) }

type swapStage[K, V any] struct {
	down pipe.PairStage[V, K]
}

func (st *swapStage[K, V]) CanAccept() bool { return st.down.CanAccept() }

func (st *swapStage[K, V]) Accept(k K, v V) error {
	return st.down.Accept(v, k)
}

func (st *swapStage[K, V]) Advance() (bool, error) { return st.down.Advance() }

func (st *swapStage[K, V]) Release() { pipe.Release(st.down) }

type mapPairsStage[K, V, W any] struct {
	down pipe.Stage[W]
	fn   func(K, V) W
}

func (st *mapPairsStage[K, V, W]) CanAccept() bool { return st.down.CanAccept() }

func (st *mapPairsStage[K, V, W]) Accept(k K, v V) error {
	return st.down.Accept(st.fn(k, v))
}

func (st *mapPairsStage[K, V, W]) Advance() (bool, error) { return st.down.Advance() }

func (st *mapPairsStage[K, V, W]) Release() { pipe.Release(st.down) }

type mapValuesStage[K, V, W any] struct {
	down pipe.PairStage[K, W]
	fn   func(V) W
}

func (st *mapValuesStage[K, V, W]) CanAccept() bool { return st.down.CanAccept() }

func (st *mapValuesStage[K, V, W]) Accept(k K, v V) error {
	return st.down.Accept(k, st.fn(v))
}

func (st *mapValuesStage[K, V, W]) Advance() (bool, error) { return st.down.Advance() }

func (st *mapValuesStage[K, V, W]) Release() { pipe.Release(st.down) }

type flatMapValuesStage[K, V, W any] struct {
	down pipe.PairStage[K, W]
	fn   func(K, V) iter.Seq[W]

	// pull state of the active inner sequence, nil when none
	key  K
	next func() (W, bool)
	stop func()

	pending    W
	hasPending bool
}

func (st *flatMapValuesStage[K, V, W]) prime() {
	if st.hasPending || st.next == nil {
		return
	}
	w, ok := st.next()
	if !ok {
		st.stop()
		st.next, st.stop = nil, nil
		return
	}
	st.pending, st.hasPending = w, true
}

func (st *flatMapValuesStage[K, V, W]) CanAccept() bool {
	st.prime()
	return !st.hasPending && st.down.CanAccept()
}

func (st *flatMapValuesStage[K, V, W]) Accept(k K, v V) error {
	st.prime()
	if st.hasPending {
		return apperrors.InvalidState("flat-map stage cannot accept while an inner sequence is active")
	}
	st.key = k
	st.next, st.stop = iter.Pull(st.fn(k, v))
	st.prime()
	return nil
}

func (st *flatMapValuesStage[K, V, W]) Advance() (bool, error) {
	st.prime()
	if st.hasPending {
		if !st.down.CanAccept() {
			return st.down.Advance()
		}
		w := st.pending
		st.hasPending = false
		var zero W
		st.pending = zero
		if err := st.down.Accept(st.key, w); err != nil {
			return false, err
		}
		return true, nil
	}
	return st.down.Advance()
}

func (st *flatMapValuesStage[K, V, W]) Release() {
	if st.stop != nil {
		st.stop()
		st.next, st.stop = nil, nil
	}
	st.hasPending = false
	pipe.Release(st.down)
}

// --- merge ---

// fenceStage sits between a merged chain and the shared downstream. It
// forwards accepts but absorbs the upstream's exhaustion delegation, so
// one side running dry cannot advance (and prematurely flip) stages
// past the merge point while the other side is still producing. The
// merge producer itself flushes downstream once both sides are done.
type fenceStage[K, V any] struct {
	down pipe.PairStage[K, V]
}

func (f *fenceStage[K, V]) CanAccept() bool { return f.down.CanAccept() }

func (f *fenceStage[K, V]) Accept(k K, v V) error { return f.down.Accept(k, v) }

func (f *fenceStage[K, V]) Advance() (bool, error) {
	// A delegation that arrives while downstream holds residual work
	// (a pending flat-map element, say) drains it; one that arrives
	// with downstream idle means the upstream is exhausted.
	if !f.down.CanAccept() {
		return f.down.Advance()
	}
	return false, nil
}

// Release is absorbed like exhaustion delegation: the merge producer
// releases the shared downstream exactly once itself.
func (f *fenceStage[K, V]) Release() {}

// mergeProducer alternates advances between two chains feeding the same
// downstream stage through fences. Once one chain is exhausted the
// other runs uncontended; once both are, downstream is flushed.
type mergeProducer struct {
	primary, secondary pipe.Producer
	down               pipe.Producer
	primaryDone        bool
	secondaryDone      bool
	secondaryTurn      bool
}

func (m *mergeProducer) Advance() (bool, error) {
	for {
		switch {
		case m.primaryDone && m.secondaryDone:
			return m.down.Advance()
		case m.primaryDone:
			more, err := m.step(m.secondary, &m.secondaryDone)
			if err != nil || more {
				return more, err
			}
		case m.secondaryDone:
			more, err := m.step(m.primary, &m.primaryDone)
			if err != nil || more {
				return more, err
			}
		case m.secondaryTurn:
			m.secondaryTurn = false
			more, err := m.step(m.secondary, &m.secondaryDone)
			if err != nil || more {
				return more, err
			}
		default:
			m.secondaryTurn = true
			more, err := m.step(m.primary, &m.primaryDone)
			if err != nil || more {
				return more, err
			}
		}
	}
}

func (m *mergeProducer) Release() {
	pipe.Release(m.primary)
	pipe.Release(m.secondary)
	pipe.Release(m.down)
}

func (m *mergeProducer) step(head pipe.Producer, done *bool) (bool, error) {
	more, err := head.Advance()
	if err != nil {
		return false, err
	}
	if !more {
		*done = true
	}
	return more, nil
}

// --- keyed blocking stages ---

type pairSortedStage[K, V any] struct {
	down      pipe.PairStage[K, V]
	cmp       func(K, K) int
	buf       []Pair[K, V]
	producing bool
	next      int
}

func (st *pairSortedStage[K, V]) CanAccept() bool { return !st.producing }

func (st *pairSortedStage[K, V]) Accept(k K, v V) error {
	if st.producing {
		return apperrors.InvalidState("sorted stage is draining and cannot accept")
	}
	if st.buf == nil {
		st.buf = make([]Pair[K, V], 0, bufferCapacity)
	}
	st.buf = append(st.buf, Pair[K, V]{Key: k, Value: v})
	return nil
}

func (st *pairSortedStage[K, V]) Advance() (bool, error) {
	if !st.producing {
		st.producing = true
		slices.SortStableFunc(st.buf, func(a, b Pair[K, V]) int {
			return st.cmp(a.Key, b.Key)
		})
	}
	if st.next < len(st.buf) {
		if !st.down.CanAccept() {
			return st.down.Advance()
		}
		e := st.buf[st.next]
		st.next++
		if err := st.down.Accept(e.Key, e.Value); err != nil {
			return false, err
		}
		return true, nil
	}
	return st.down.Advance()
}

func (st *pairSortedStage[K, V]) Release() { pipe.Release(st.down) }

type groupByKeyStage[K comparable, V any] struct {
	down      pipe.PairStage[K, []V]
	buckets   map[K][]V
	order     []K
	producing bool
	next      int
}

func (st *groupByKeyStage[K, V]) CanAccept() bool { return !st.producing }

func (st *groupByKeyStage[K, V]) Accept(k K, v V) error {
	if st.producing {
		return apperrors.InvalidState("group-by stage is draining and cannot accept")
	}
	if _, ok := st.buckets[k]; !ok {
		st.order = append(st.order, k)
	}
	st.buckets[k] = append(st.buckets[k], v)
	return nil
}

func (st *groupByKeyStage[K, V]) Advance() (bool, error) {
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

func (st *groupByKeyStage[K, V]) Release() { pipe.Release(st.down) }
