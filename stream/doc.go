// Package stream provides composable, lazily-evaluated data pipelines
// over single values (Stream) and over key/value pairs (Pairs).
//
// A Stream or Pairs value is a descriptor: a reusable, side-effect-free
// recipe for a pipeline. Operators return new descriptors without
// mutating the receiver, and no work happens until a terminal operation
// (Count, Collect, Reduce, First, ...) materializes the chain and
// drives it to exhaustion. A materialized chain serves exactly one
// drive; the descriptor can be driven any number of independent times.
//
// Type-preserving operators are methods, so chains read fluently;
// operators that change the element type (or need extra constraints)
// are package functions, as Go methods cannot introduce type
// parameters:
//
//	src := stream.FromSlice([]string{"a", "bb", "ccc"})
//	lengths := stream.Map(src, func(s string) int { return len(s) })
//	total, err := lengths.ReduceFrom(ctx, 0, func(a, b int) int { return a + b })
//
// # Streaming and blocking operators
//
// Filter, Map, FlatMap, Tap and Cumulate are streaming: they forward
// output as soon as input arrives and hold at most O(1) state. Sorted,
// Unique, GroupBy and the keyed Sorted/GroupByKey are blocking: they
// buffer the whole upstream before emitting anything, then drain one
// element per advance. Pushing into a blocking stage after it has begun
// draining is a protocol violation and fails with an invalid-state
// error.
//
// # Keyed pipelines
//
// Pairs is the keyed counterpart of Stream with its own operator
// algebra (FilterKeys, MapValues, Swap, Merge, GroupByKey, ...). The
// two algebras convert into each other: GroupBy lifts a Stream into
// Pairs, and the Keys, Values and Entries projections come back down.
//
// # Execution
//
// Every terminal drive runs the same instrumented loop: it opens an
// OpenTelemetry span named "stream.<operation>" tagged with a unique
// drive id, logs completion at debug level, and optionally records
// metrics (see SetMetrics). Execution is single-threaded and
// synchronous; short-circuiting terminals (First, AnyMatch, ...) stop
// the loop as soon as their result is determined.
package stream
