package stream

import "context"

// Count drives the pipeline and returns the number of entries that
// reached the end.
func (p *Pairs[K, V]) Count(ctx context.Context) (int64, error) {
	return p.Entries().Count(ctx)
}

// ForEach drives the pipeline, calling fn once per entry.
func (p *Pairs[K, V]) ForEach(ctx context.Context, fn func(K, V)) error {
	return p.Entries().ForEach(ctx, func(e Pair[K, V]) {
		fn(e.Key, e.Value)
	})
}

// First short-circuits on the first entry. Fails with an empty-result
// error when the pipeline produces nothing.
func (p *Pairs[K, V]) First(ctx context.Context) (Pair[K, V], error) {
	return p.Entries().First(ctx)
}

// Only returns the sole entry of the pipeline. Fails with an
// empty-result error when there is none and a multiple-results error
// when there is more than one.
func (p *Pairs[K, V]) Only(ctx context.Context) (Pair[K, V], error) {
	return p.Entries().Only(ctx)
}

// AnyMatch reports whether any entry satisfies pred, short-circuiting
// on the first match.
func (p *Pairs[K, V]) AnyMatch(ctx context.Context, pred func(K, V) bool) (bool, error) {
	return p.Entries().AnyMatch(ctx, func(e Pair[K, V]) bool {
		return pred(e.Key, e.Value)
	})
}

// AllMatch reports whether every entry satisfies pred, short-circuiting
// on the first counterexample.
func (p *Pairs[K, V]) AllMatch(ctx context.Context, pred func(K, V) bool) (bool, error) {
	return p.Entries().AllMatch(ctx, func(e Pair[K, V]) bool {
		return pred(e.Key, e.Value)
	})
}

// NoneMatch reports whether no entry satisfies pred, short-circuiting
// on the first match.
func (p *Pairs[K, V]) NoneMatch(ctx context.Context, pred func(K, V) bool) (bool, error) {
	return p.Entries().NoneMatch(ctx, func(e Pair[K, V]) bool {
		return pred(e.Key, e.Value)
	})
}

// PairCollector receives entries from Into.
type PairCollector[K, V any] interface {
	Put(k K, v V)
}

// Into drives the pipeline, putting every entry into dst.
func (p *Pairs[K, V]) Into(ctx context.Context, dst PairCollector[K, V]) error {
	return p.ForEach(ctx, dst.Put)
}

// IntoMap drives the pipeline, storing every entry in dst. A later
// entry overwrites an earlier one under the same key.
func IntoMap[K comparable, V any](ctx context.Context, p *Pairs[K, V], dst map[K]V) error {
	return p.ForEach(ctx, func(k K, v V) {
		dst[k] = v
	})
}

// CollectMap drives the pipeline and gathers all entries into a fresh
// map. A later entry overwrites an earlier one under the same key.
func CollectMap[K comparable, V any](ctx context.Context, p *Pairs[K, V]) (map[K]V, error) {
	dst := make(map[K]V)
	if err := IntoMap(ctx, p, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
