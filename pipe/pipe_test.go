package pipe_test

import (
	"testing"

	"github.com/kbukum/streamkit/pipe"
)

// intSource pushes slice elements downstream, one per advance, while
// the downstream stage can accept; then it delegates.
type intSource struct {
	items []int
	next  int
	down  pipe.Stage[int]
}

func (s *intSource) Advance() (bool, error) {
	if s.next < len(s.items) && s.down.CanAccept() {
		v := s.items[s.next]
		s.next++
		if err := s.down.Accept(v); err != nil {
			return false, err
		}
		return true, nil
	}
	return s.down.Advance()
}

// doubler forwards twice the accepted value.
type doubler struct {
	down pipe.Stage[int]
}

func (d *doubler) CanAccept() bool        { return d.down.CanAccept() }
func (d *doubler) Accept(v int) error     { return d.down.Accept(v * 2) }
func (d *doubler) Advance() (bool, error) { return d.down.Advance() }

// sumTail accumulates everything that reaches the end of the chain.
type sumTail struct {
	pipe.Tail
	sum int
}

func (t *sumTail) Accept(v int) error {
	t.sum += v
	return nil
}

func TestRunDrivesChainToExhaustion(t *testing.T) {
	tail := &sumTail{}
	head := &intSource{items: []int{1, 2, 3}, down: &doubler{down: tail}}

	if err := pipe.Run(head); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if tail.sum != 12 {
		t.Errorf("got sum %d, want 12", tail.sum)
	}
}

func TestRunEmptyInput(t *testing.T) {
	tail := &sumTail{}
	head := &intSource{down: tail}

	if err := pipe.Run(head); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if tail.sum != 0 {
		t.Errorf("got sum %d, want 0", tail.sum)
	}
}

func TestTailDefaults(t *testing.T) {
	var tail pipe.Tail
	if !tail.CanAccept() {
		t.Error("a tail must always accept")
	}
	more, err := tail.Advance()
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if more {
		t.Error("a tail has no upstream work and must report exhaustion")
	}
}

type failingTail struct {
	pipe.Tail
	err error
}

func (t *failingTail) Accept(int) error { return t.err }

func TestRunPropagatesAcceptError(t *testing.T) {
	wantErr := &pipeError{"downstream rejected"}
	head := &intSource{items: []int{1}, down: &failingTail{err: wantErr}}

	if err := pipe.Run(head); err != wantErr {
		t.Errorf("got error %v, want %v", err, wantErr)
	}
}

type pipeError struct{ msg string }

func (e *pipeError) Error() string { return e.msg }

type releasingSource struct {
	intSource
	released int
}

func (s *releasingSource) Release() { s.released++ }

func TestRelease(t *testing.T) {
	// nodes without resources are silently skipped
	pipe.Release(&intSource{down: &sumTail{}})

	src := &releasingSource{}
	pipe.Release(src)
	pipe.Release(src)
	if src.released != 2 {
		t.Errorf("got %d release calls, want 2", src.released)
	}
}
