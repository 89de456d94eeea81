package pipe

// Producer is one driving node of a materialized pipeline chain.
type Producer interface {
	// Advance attempts at most one unit of downstream progress.
	// It returns true while this node or anything downstream of it may
	// still make progress, and false once everything is exhausted.
	// An error aborts the drive and propagates to the terminal caller.
	Advance() (bool, error)
}

// Stage is a pipeline node that accepts single elements.
type Stage[T any] interface {
	Producer

	// CanAccept reports whether Accept may be called right now.
	CanAccept() bool

	// Accept pushes one element into the stage. It may forward zero or
	// more elements downstream immediately, or only buffer. Calling
	// Accept while CanAccept is false returns an invalid-state error.
	Accept(v T) error
}

// PairStage is a pipeline node that accepts (key, value) pairs. It is
// the keyed counterpart of Stage with an otherwise identical protocol.
type PairStage[K, V any] interface {
	Producer

	CanAccept() bool
	Accept(k K, v V) error
}

// Tail is an embeddable base for terminal sinks: always accepting,
// never producing. Terminal stages embed Tail and implement Accept.
type Tail struct{}

// CanAccept always reports true.
func (Tail) CanAccept() bool { return true }

// Advance always reports exhaustion.
func (Tail) Advance() (bool, error) { return false, nil }

// Releaser is implemented by chain elements that hold disposable
// resources, typically pull iterators. Release frees them and
// propagates to the element's downstream; it must be idempotent and
// safe to call on an exhausted chain.
type Releaser interface {
	Release()
}

// Release disposes p's resources if it implements Releaser. Drivers
// call it when a chain is dropped before exhaustion, so partially
// drained pull iterators are stopped rather than abandoned.
func Release(p Producer) {
	if r, ok := p.(Releaser); ok {
		r.Release()
	}
}

// Run drives head to exhaustion. Terminal drivers in the stream package
// wrap this loop with instrumentation and short-circuit checks; Run is
// the bare primitive for hand-wired chains.
func Run(head Producer) error {
	for {
		more, err := head.Advance()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}
