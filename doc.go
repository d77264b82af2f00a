// Package fluentpath is a fluent engine for composing deferred operations
// over sets of file-system path strings.
//
// The central type is Path: an immutable set of path strings together with
// the history of operations that produced it and a handle to the one
// operation that may still be running. Deriving a new Path never blocks and
// never branches: each value depends on exactly one prior computation, so
// walking Previous always yields a linear, acyclic history.
//
// Operations attach through four chaining primitives:
//
//   - Chain derives a value from a synchronous resolver, evaluated lazily
//     and memoized once the current operation has settled.
//   - ChainAsync schedules an asynchronous resolver and settles the derived
//     value when it finishes.
//   - ChainDo attaches a side effect that carries the path set through
//     unchanged.
//   - ChainDoAsync does the same for side effects that run asynchronously.
//
// ChainSequence and FromSequence bridge to the seq package, draining a lazy
// sequence into a path set exactly once.
//
// Reading a Path (Paths, Equal, Hash, iteration via Sequence) requires the
// pending operation to have settled; earlier reads fail with
// ErrPendingOperation. Await is the one blocking read, and it takes a
// context. Scalar accessors (Count, First, Contains, All, Any) return
// awaitables from the await package instead of blocking.
//
// Failures ride the pending-operation handle: a failed operation surfaces
// its error from every read of the derived value, and continuations
// downstream of a failure are skipped.
package fluentpath
