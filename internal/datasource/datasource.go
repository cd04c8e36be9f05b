// Package datasource implements spec.md's C5 data sources: the
// per-check collectors that produce one typed measurement per
// measurement id on every tick.
package datasource

import "context"

// Sample is one data source's per-id result for a tick. Present is
// false when the source has no value yet for this id this tick (e.g.
// a monotonic counter's first reading, which only establishes a
// baseline) — such samples are dropped silently rather than fed to an
// alarm, mirroring the upstream Option<T> semantics.
type Sample[T any] struct {
	Value   T
	Err     error
	Present bool
}

// Ok wraps a successful, present value.
func Ok[T any](v T) Sample[T] { return Sample[T]{Value: v, Present: true} }

// Skip produces a sample with no value and no error for this tick.
func Skip[T any]() Sample[T] { return Sample[T]{} }

// Failed wraps a per-id error.
func Failed[T any](err error) Sample[T] { return Sample[T]{Err: err} }

// Source is a data source bound to one or more measurement ids,
// producing one Sample per id, per id order, on every Get call.
type Source[T any] interface {
	IDs() []string
	Get(ctx context.Context) []Sample[T]
}
