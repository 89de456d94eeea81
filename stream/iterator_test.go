package stream_test

import (
	"cmp"
	"testing"

	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

func TestIterator(t *testing.T) {
	it := stream.Of(1, 2, 3).Iter()

	var got []int
	for {
		has, err := it.HasNext()
		if err != nil {
			t.Fatalf("HasNext failed: %v", err)
		}
		if !has {
			break
		}
		v, err := it.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		got = append(got, v)
	}

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("got %v", got)
	}
}

func TestIteratorPastEnd(t *testing.T) {
	it := stream.Of(1).Iter()

	if _, err := it.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	_, err := it.Next()
	if err == nil || !apperrors.IsExhausted(err) {
		t.Errorf("got %v, want a sequence-exhausted error", err)
	}
}

func TestIteratorHasNextIsIdempotent(t *testing.T) {
	it := stream.Of("a").Iter()

	for i := 0; i < 3; i++ {
		has, err := it.HasNext()
		if err != nil {
			t.Fatalf("HasNext failed: %v", err)
		}
		if !has {
			t.Fatal("expected an element")
		}
	}
	v, err := it.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if v != "a" {
		t.Errorf("got %q", v)
	}
}

func TestIteratorStopReleasesChain(t *testing.T) {
	released := false
	naturals := func(yield func(int) bool) {
		defer func() { released = true }()
		for i := 0; ; i++ {
			if !yield(i) {
				return
			}
		}
	}

	it := stream.FromSeq(naturals).Iter()
	if _, err := it.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	it.Stop()
	if !released {
		t.Error("Stop must stop the source's pull iterator")
	}

	has, err := it.HasNext()
	if err != nil {
		t.Fatalf("HasNext failed: %v", err)
	}
	if has {
		t.Error("a stopped iterator must report exhaustion")
	}
}

func TestIteratorEmpty(t *testing.T) {
	it := stream.FromSlice([]int(nil)).Iter()

	has, err := it.HasNext()
	if err != nil {
		t.Fatalf("HasNext failed: %v", err)
	}
	if has {
		t.Error("expected no elements")
	}
}

func TestIteratorOverBlockingOperator(t *testing.T) {
	it := stream.Of(3, 1, 2).Sorted(cmp.Compare).Iter()

	var got []int
	for {
		has, err := it.HasNext()
		if err != nil {
			t.Fatalf("HasNext failed: %v", err)
		}
		if !has {
			break
		}
		v, err := it.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("got %v, want sorted output", got)
	}
}

func TestPairsIterator(t *testing.T) {
	it := stream.FromPairs([]stream.Pair[string, int]{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
	}).Iter()

	first, err := it.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if first.Key != "a" || first.Value != 1 {
		t.Errorf("got %+v", first)
	}
}
