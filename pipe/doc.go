// Package pipe defines the stage protocol that materialized pipeline
// chains are built from.
//
// A chain is a linked list of stages. At construction time each stage
// captures its downstream neighbour; at execution time a terminal driver
// repeatedly calls Advance on the head, and each call recurses through
// the chain performing at most one unit of progress.
//
// Three capabilities make up the protocol:
//
//   - CanAccept reports whether a stage is currently able to take input.
//     Streaming stages delegate to their downstream; blocking stages
//     (sort, group) accept only while still in their consuming phase.
//   - Accept pushes one element into a stage. Calling Accept while
//     CanAccept is false is a protocol violation and returns an
//     invalid-state error.
//   - Advance asks a stage to make at most one unit of downstream
//     progress. A stage with pending output of its own emits one element
//     (or flushes downstream first when downstream cannot accept);
//     otherwise it delegates to its downstream. Advance returns false
//     once the stage and everything downstream of it is exhausted.
//
// The higher-level stream package builds both pipeline algebras on top
// of this protocol; pipe is exported so that custom sources, operators
// and sinks can be wired by hand:
//
//	head := descriptor.Materialize(mySink)
//	if err := pipe.Run(head); err != nil { ... }
package pipe
