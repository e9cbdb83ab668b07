// Package transformer reshapes decoded source records into star-schema rows.
//
// The normalizer functions map records to rows one to one, the dimension
// builders collapse rows to one per natural key, and the fact builder joins
// playback events to the song catalog through a Resolver.
package transformer

// Transformer rewrites a batch of items.
type Transformer[T any] interface{ Apply([]T) []T }

// Chain is an ordered list of transformers.
type Chain[T any] []Transformer[T]

func (c Chain[T]) Apply(in []T) []T {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}

// Filter keeps the items for which it returns true, preserving order.
type Filter[T any] func(T) bool

func (f Filter[T]) Apply(in []T) []T {
	var out []T
	for _, v := range in {
		if f(v) {
			out = append(out, v)
		}
	}
	return out
}
