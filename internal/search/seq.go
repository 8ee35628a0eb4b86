package search

import (
	"iter"
	"sync/atomic"
)

func empty[T any]() iter.Seq[T] {
	return func(func(T) bool) {}
}

// once makes seq single-pass: ranging over it again yields nothing.
func once[T any](seq iter.Seq[T]) iter.Seq[T] {
	var used atomic.Bool
	return func(yield func(T) bool) {
		if used.Swap(true) {
			return
		}
		seq(yield)
	}
}
