// Package builtin contains reusable, generic transformers.
//
// DeDup collapses duplicates by a key function and chooses a winner
// according to a policy:
//
//   - "keep-first" : keep the earliest occurrence (default)
//   - "keep-last"  : keep the latest occurrence
//   - "latest"     : keep the occurrence for which Newer reports true against
//     every other; ties keep the earlier occurrence
//
// Output holds one winner per key, ordered by the first appearance of the
// key in the input. The database keeps its PRIMARY KEY constraints as a
// backstop.
package builtin

import (
	"fmt"
	"strings"
)

// Policy names accepted by DeDup.
const (
	KeepFirst = "keep-first"
	KeepLast  = "keep-last"
	Latest    = "latest"
)

// DeDup implements a configurable, in-memory de-duplication policy.
type DeDup[T any] struct {
	// Key returns the business key of an item.
	Key func(T) string

	// Policy selects the winner among duplicates.
	Policy string

	// Newer reports whether a is strictly newer than b. Required for "latest".
	Newer func(a, b T) bool
}

// Validate reports configuration errors.
func (d DeDup[T]) Validate() error {
	if d.Key == nil {
		return fmt.Errorf("dedup: Key must not be nil")
	}
	switch d.policy() {
	case KeepFirst, KeepLast:
		return nil
	case Latest:
		if d.Newer == nil {
			return fmt.Errorf("dedup: policy %q requires Newer", Latest)
		}
		return nil
	default:
		return fmt.Errorf("dedup: unknown policy %q", d.Policy)
	}
}

func (d DeDup[T]) policy() string {
	p := strings.ToLower(strings.TrimSpace(d.Policy))
	if p == "" {
		return KeepFirst
	}
	return p
}

// Apply returns one winner per key. It panics on an invalid configuration;
// call Validate first when the configuration is user supplied.
func (d DeDup[T]) Apply(in []T) []T {
	if err := d.Validate(); err != nil {
		panic(err)
	}
	if len(in) == 0 {
		return nil
	}

	policy := d.policy()
	slot := make(map[string]int, len(in))
	out := make([]T, 0, len(in))

	for _, item := range in {
		k := d.Key(item)
		i, seen := slot[k]
		if !seen {
			slot[k] = len(out)
			out = append(out, item)
			continue
		}
		switch policy {
		case KeepLast:
			out[i] = item
		case Latest:
			if d.Newer(item, out[i]) {
				out[i] = item
			}
		}
	}
	return out
}
