package stream

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
	"github.com/kbukum/streamkit/pipe"
)

var driveMetrics *observability.Metrics

// SetMetrics installs the metric instruments recorded after every
// terminal drive. Pass nil to disable recording again.
func SetMetrics(m *observability.Metrics) { driveMetrics = m }

// drive runs one materialized chain to exhaustion under a span named
// "stream.<op>", stopping early once satisfied reports true or the
// context is cancelled. The chain is released afterwards so pull
// iterators abandoned by a short-circuit are stopped, not leaked.
func drive(ctx context.Context, op string, head pipe.Producer, satisfied func() bool) error {
	driveID := uuid.NewString()
	ctx, span := observability.StartSpan(ctx, "stream."+op)
	defer span.End()
	defer pipe.Release(head)
	observability.SetSpanAttribute(ctx, observability.AttrDriveID, driveID)

	start := time.Now()
	advances := 0
	var err error
	for satisfied == nil || !satisfied() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
			break
		}
		var more bool
		more, err = head.Advance()
		if err != nil || !more {
			break
		}
		advances++
	}

	duration := time.Since(start)
	observability.SetSpanAttribute(ctx, observability.AttrAdvances, advances)

	if err != nil {
		observability.SetSpanError(ctx, err)
		logger.Error("drive failed", logger.Fields(
			logger.FieldOperation, op,
			logger.FieldDriveID, driveID,
			logger.FieldAdvances, advances,
			logger.FieldError, err.Error(),
		))
		if driveMetrics != nil {
			driveMetrics.RecordDrive(ctx, op, "error", advances, duration)
			driveMetrics.RecordError(ctx, "drive", op)
		}
		return err
	}

	logger.Debug("drive completed", logger.Fields(
		logger.FieldOperation, op,
		logger.FieldDriveID, driveID,
		logger.FieldAdvances, advances,
		logger.FieldDuration, duration.Milliseconds(),
	))
	if driveMetrics != nil {
		driveMetrics.RecordDrive(ctx, op, "ok", advances, duration)
	}
	return nil
}

// Count drives the pipeline and returns the number of elements that
// reached the end.
func (s *Stream[T]) Count(ctx context.Context) (int64, error) {
	tail := &countTail[T]{}
	if err := drive(ctx, "count", s.materialize(tail), nil); err != nil {
		return 0, err
	}
	return tail.n, nil
}

// ForEach drives the pipeline, calling fn once per element.
func (s *Stream[T]) ForEach(ctx context.Context, fn func(T)) error {
	tail := &forEachTail[T]{fn: fn}
	return drive(ctx, "for-each", s.materialize(tail), nil)
}

// Reduce combines all elements with op, seeding the accumulator with
// the first element. Fails with an empty-result error when the pipeline
// produces nothing.
func (s *Stream[T]) Reduce(ctx context.Context, op func(T, T) T) (T, error) {
	tail := &reduceTail[T]{op: op}
	if err := drive(ctx, "reduce", s.materialize(tail), nil); err != nil {
		var zero T
		return zero, err
	}
	if !tail.seeded {
		var zero T
		return zero, apperrors.EmptyResult("reduce")
	}
	return tail.acc, nil
}

// ReduceFrom combines all elements with op starting from base. An empty
// pipeline yields base.
func (s *Stream[T]) ReduceFrom(ctx context.Context, base T, op func(T, T) T) (T, error) {
	tail := &reduceTail[T]{op: op, acc: base, seeded: true}
	if err := drive(ctx, "reduce-from", s.materialize(tail), nil); err != nil {
		var zero T
		return zero, err
	}
	return tail.acc, nil
}

// Fold accumulates all elements into a result of a different type,
// starting from init. An empty pipeline yields init.
func Fold[T, R any](ctx context.Context, s *Stream[T], init R, fn func(R, T) R) (R, error) {
	tail := &foldTail[T, R]{acc: init, fn: fn}
	if err := drive(ctx, "fold", s.materialize(tail), nil); err != nil {
		var zero R
		return zero, err
	}
	return tail.acc, nil
}

// First short-circuits on the first element. Fails with an empty-result
// error when the pipeline produces nothing.
func (s *Stream[T]) First(ctx context.Context) (T, error) {
	return s.firstOp(ctx, "first")
}

// Any returns some element of the pipeline. With a single-threaded
// drive it is the first one; the weaker name signals that callers must
// not rely on which.
func (s *Stream[T]) Any(ctx context.Context) (T, error) {
	return s.firstOp(ctx, "any")
}

func (s *Stream[T]) firstOp(ctx context.Context, op string) (T, error) {
	tail := &firstTail[T]{}
	if err := drive(ctx, op, s.materialize(tail), tail.satisfied); err != nil {
		var zero T
		return zero, err
	}
	if !tail.has {
		var zero T
		return zero, apperrors.EmptyResult(op)
	}
	return tail.value, nil
}

// Only returns the sole element of the pipeline. Fails with an
// empty-result error when there is none and a multiple-results error
// when there is more than one.
func (s *Stream[T]) Only(ctx context.Context) (T, error) {
	tail := &onlyTail[T]{}
	if err := drive(ctx, "only", s.materialize(tail), nil); err != nil {
		var zero T
		return zero, err
	}
	if !tail.has {
		var zero T
		return zero, apperrors.EmptyResult("only")
	}
	return tail.value, nil
}

// AnyMatch reports whether any element satisfies pred, short-circuiting
// on the first match.
func (s *Stream[T]) AnyMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	tail := &matchTail[T]{pred: pred}
	if err := drive(ctx, "any-match", s.materialize(tail), tail.satisfied); err != nil {
		return false, err
	}
	return tail.matched, nil
}

// AllMatch reports whether every element satisfies pred,
// short-circuiting on the first counterexample. An empty pipeline
// matches vacuously.
func (s *Stream[T]) AllMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	tail := &matchTail[T]{pred: func(v T) bool { return !pred(v) }}
	if err := drive(ctx, "all-match", s.materialize(tail), tail.satisfied); err != nil {
		return false, err
	}
	return !tail.matched, nil
}

// NoneMatch reports whether no element satisfies pred, short-circuiting
// on the first match.
func (s *Stream[T]) NoneMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	matched, err := s.AnyMatch(ctx, pred)
	if err != nil {
		return false, err
	}
	return !matched, nil
}

// Collector receives elements from Into.
type Collector[T any] interface {
	Append(v T)
}

// Into drives the pipeline, appending every element to dst.
func (s *Stream[T]) Into(ctx context.Context, dst Collector[T]) error {
	tail := &forEachTail[T]{fn: dst.Append}
	return drive(ctx, "into", s.materialize(tail), nil)
}

// Collect drives the pipeline and gathers all elements into a slice.
func (s *Stream[T]) Collect(ctx context.Context) ([]T, error) {
	tail := &collectTail[T]{}
	if err := drive(ctx, "collect", s.materialize(tail), nil); err != nil {
		return nil, err
	}
	return tail.items, nil
}

// --- tails ---

type countTail[T any] struct {
	pipe.Tail
	n int64
}

func (t *countTail[T]) Accept(T) error {
	t.n++
	return nil
}

type forEachTail[T any] struct {
	pipe.Tail
	fn func(T)
}

func (t *forEachTail[T]) Accept(v T) error {
	t.fn(v)
	return nil
}

type reduceTail[T any] struct {
	pipe.Tail
	op     func(T, T) T
	acc    T
	seeded bool
}

func (t *reduceTail[T]) Accept(v T) error {
	if !t.seeded {
		t.acc = v
		t.seeded = true
		return nil
	}
	t.acc = t.op(t.acc, v)
	return nil
}

type foldTail[T, R any] struct {
	pipe.Tail
	fn  func(R, T) R
	acc R
}

func (t *foldTail[T, R]) Accept(v T) error {
	t.acc = t.fn(t.acc, v)
	return nil
}

type firstTail[T any] struct {
	pipe.Tail
	value T
	has   bool
}

func (t *firstTail[T]) Accept(v T) error {
	if !t.has {
		t.value = v
		t.has = true
	}
	return nil
}

func (t *firstTail[T]) satisfied() bool { return t.has }

type onlyTail[T any] struct {
	pipe.Tail
	value T
	has   bool
}

func (t *onlyTail[T]) Accept(v T) error {
	if t.has {
		return apperrors.MultipleResults("only")
	}
	t.value = v
	t.has = true
	return nil
}

type matchTail[T any] struct {
	pipe.Tail
	pred    func(T) bool
	matched bool
}

func (t *matchTail[T]) Accept(v T) error {
	if !t.matched && t.pred(v) {
		t.matched = true
	}
	return nil
}

func (t *matchTail[T]) satisfied() bool { return t.matched }

type collectTail[T any] struct {
	pipe.Tail
	items []T
}

func (t *collectTail[T]) Accept(v T) error {
	t.items = append(t.items, v)
	return nil
}
