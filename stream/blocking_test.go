package stream_test

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"testing"

	"github.com/kbukum/streamkit/pipe"
	"github.com/kbukum/streamkit/stream"
)

func TestSorted(t *testing.T) {
	ctx := context.Background()
	got, err := stream.FromSlice([]int{3, 1, 2}).Sorted(cmp.Compare).Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestSortedIdempotent(t *testing.T) {
	ctx := context.Background()
	src := stream.FromSlice([]int{3, 1, 2}).Sorted(cmp.Compare).Sorted(cmp.Compare)
	got, err := src.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

type record struct {
	key int
	tag string
}

func TestSortedIsStable(t *testing.T) {
	ctx := context.Background()
	src := stream.FromSlice([]record{
		{2, "a"}, {1, "b"}, {2, "c"}, {1, "d"},
	})
	got, err := src.Sorted(func(a, b record) int { return cmp.Compare(a.key, b.key) }).Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	want := []record{{1, "b"}, {1, "d"}, {2, "a"}, {2, "c"}}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v (equal keys keep arrival order)", got, want)
	}
}

func TestSortByKey(t *testing.T) {
	ctx := context.Background()
	src := stream.Of("ccc", "a", "bb")
	got, err := stream.SortByKey(src, func(s string) int { return len(s) }).Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if !slices.Equal(got, []string{"a", "bb", "ccc"}) {
		t.Errorf("got %v", got)
	}
}

func TestSortedThenFilter(t *testing.T) {
	// a streaming stage downstream of a blocking one
	ctx := context.Background()
	got, err := stream.FromSlice([]int{5, 1, 4, 2, 3}).
		Sorted(cmp.Compare).
		Filter(func(v int) bool { return v%2 == 1 }).
		Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if !slices.Equal(got, []int{1, 3, 5}) {
		t.Errorf("got %v, want [1 3 5]", got)
	}
}

func TestUnique(t *testing.T) {
	ctx := context.Background()
	n, err := stream.Unique(stream.FromSlice([]int{1, 2, 2, 3})).Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("got count %d, want 3", n)
	}
}

func TestUniqueKeepsFirstSeenOrder(t *testing.T) {
	ctx := context.Background()
	got, err := stream.Unique(stream.Of("b", "a", "b", "c", "a")).Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if !slices.Equal(got, []string{"b", "a", "c"}) {
		t.Errorf("got %v, want first-seen order [b a c]", got)
	}
}

func TestGroupBy(t *testing.T) {
	ctx := context.Background()
	words := []string{"apple", "avocado", "banana", "cherry", "blueberry"}
	groups, err := stream.CollectMap(ctx, stream.GroupBy(
		stream.FromSlice(words),
		func(w string) byte { return w[0] },
	))
	if err != nil {
		t.Fatalf("CollectMap failed: %v", err)
	}

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3: %v", len(groups), groups)
	}
	if !slices.Equal(groups['a'], []string{"apple", "avocado"}) {
		t.Errorf("got a-group %v", groups['a'])
	}
	if !slices.Equal(groups['b'], []string{"banana", "blueberry"}) {
		t.Errorf("got b-group %v", groups['b'])
	}
	if !slices.Equal(groups['c'], []string{"cherry"}) {
		t.Errorf("got c-group %v", groups['c'])
	}
}

func TestGroupByRoundTripMultiset(t *testing.T) {
	// projecting the buckets and flattening them reproduces the
	// original elements as a multiset
	ctx := context.Background()
	input := []int{5, 2, 8, 1, 4, 2}

	grouped := stream.GroupBy(stream.FromSlice(input), func(v int) int { return v % 3 })
	flat, err := stream.FlatMap(grouped.Values(), func(bucket []int) iter.Seq[int] {
		return slices.Values(bucket)
	}).Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	want := slices.Clone(input)
	slices.Sort(want)
	slices.Sort(flat)
	if !slices.Equal(flat, want) {
		t.Errorf("got multiset %v, want %v", flat, want)
	}
}

func TestGroupByKeysDrainInFirstSeenOrder(t *testing.T) {
	ctx := context.Background()
	keys, err := stream.GroupBy(
		stream.Of(5, 2, 8, 1, 4),
		func(v int) string {
			if v%2 == 0 {
				return "even"
			}
			return "odd"
		},
	).Keys().Collect(ctx)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if !slices.Equal(keys, []string{"odd", "even"}) {
		t.Errorf("got key order %v, want [odd even]", keys)
	}
}

func TestGroupByMulti(t *testing.T) {
	ctx := context.Background()
	groups, err := stream.CollectMap(ctx, stream.GroupByMulti(
		stream.Of(6, 10, 15),
		func(v int) []string {
			var ks []string
			if v%2 == 0 {
				ks = append(ks, "div2")
			}
			if v%3 == 0 {
				ks = append(ks, "div3")
			}
			if v%5 == 0 {
				ks = append(ks, "div5")
			}
			return ks
		},
	))
	if err != nil {
		t.Fatalf("CollectMap failed: %v", err)
	}

	if !slices.Equal(groups["div2"], []int{6, 10}) {
		t.Errorf("got div2 %v", groups["div2"])
	}
	if !slices.Equal(groups["div3"], []int{6, 15}) {
		t.Errorf("got div3 %v", groups["div3"])
	}
	if !slices.Equal(groups["div5"], []int{10, 15}) {
		t.Errorf("got div5 %v", groups["div5"])
	}
}

// collectStage drains a materialized chain by hand through the
// low-level protocol.
type collectStage[T any] struct {
	pipe.Tail
	items []T
}

func (c *collectStage[T]) Accept(v T) error {
	c.items = append(c.items, v)
	return nil
}

func TestMaterializedSortedChain(t *testing.T) {
	tail := &collectStage[int]{}
	head := stream.FromSlice([]int{2, 1}).Sorted(cmp.Compare).Materialize(tail)

	if err := pipe.Run(head); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !slices.Equal(tail.items, []int{1, 2}) {
		t.Fatalf("got %v, want [1 2]", tail.items)
	}
}
