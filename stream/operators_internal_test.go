package stream

import (
	"iter"
	"slices"
	"testing"

	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/pipe"
)

type pairSinkStage[K, V any] struct {
	pipe.Tail
	entries []Pair[K, V]
}

func (s *pairSinkStage[K, V]) Accept(k K, v V) error {
	s.entries = append(s.entries, Pair[K, V]{Key: k, Value: v})
	return nil
}

func TestFlatMapStageRejectsInputDuringInnerDrain(t *testing.T) {
	sink := &sinkStage[int]{}
	st := &flatMapStage[int, int]{down: sink, fn: func(v int) iter.Seq[int] {
		return slices.Values([]int{v, v + 1})
	}}

	if err := st.Accept(1); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if st.CanAccept() {
		t.Error("stage must refuse input while its inner sequence is active")
	}
	if err := st.Accept(2); err == nil || !apperrors.IsInvalidState(err) {
		t.Errorf("got %v, want an invalid-state error", err)
	}

	// draining the inner sequence restores acceptance
	for i := 0; i < 2; i++ {
		if _, err := st.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}
	if !st.CanAccept() {
		t.Error("stage must accept again once the inner sequence is drained")
	}
	if err := st.Accept(9); err != nil {
		t.Errorf("Accept after drain failed: %v", err)
	}
	if !slices.Equal(sink.items, []int{1, 2}) {
		t.Errorf("got drained output %v, want [1 2]", sink.items)
	}
}

func TestFlatMapValuesStageRejectsInputDuringInnerDrain(t *testing.T) {
	sink := &pairSinkStage[string, int]{}
	st := &flatMapValuesStage[string, int, int]{down: sink, fn: func(_ string, v int) iter.Seq[int] {
		return slices.Values([]int{v, v * 10})
	}}

	if err := st.Accept("k", 2); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if st.CanAccept() {
		t.Error("stage must refuse input while its inner sequence is active")
	}
	if err := st.Accept("k2", 3); err == nil || !apperrors.IsInvalidState(err) {
		t.Errorf("got %v, want an invalid-state error", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}
	if !st.CanAccept() {
		t.Error("stage must accept again once the inner sequence is drained")
	}
	want := []Pair[string, int]{{Key: "k", Value: 2}, {Key: "k", Value: 20}}
	if !slices.Equal(sink.entries, want) {
		t.Errorf("got drained output %v, want %v", sink.entries, want)
	}
}

func TestFlatMapStageReleaseStopsInnerSequence(t *testing.T) {
	stopped := false
	st := &flatMapStage[int, int]{down: &sinkStage[int]{}, fn: func(int) iter.Seq[int] {
		return func(yield func(int) bool) {
			defer func() { stopped = true }()
			for i := 0; ; i++ {
				if !yield(i) {
					return
				}
			}
		}
	}}

	if err := st.Accept(1); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	st.Release()
	if !stopped {
		t.Error("releasing the stage must stop its active inner sequence")
	}
}
