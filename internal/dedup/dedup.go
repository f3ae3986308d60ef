// Package dedup merges occupant lists into a duplicate-free, first-seen
// ordered result.
//
// Two strategies are available. Linear checks the output slice itself and
// needs no extra memory; Set tracks seen ids in a reusable map. Choose picks
// one from an upper bound on the number of ids that will be offered, so
// short results skip hashing entirely.
package dedup

import "slices"

// DefaultThreshold is the estimated candidate count above which the set
// strategy is used.
const DefaultThreshold = 16

// Strategy selects how duplicates are detected.
type Strategy uint8

const (
	// Linear scans the output for each id.
	Linear Strategy = iota
	// Set tracks seen ids in a hash set.
	Set
)

func (s Strategy) String() string {
	switch s {
	case Linear:
		return "linear"
	case Set:
		return "set"
	default:
		return "unknown"
	}
}

// Choose returns Set when estimate exceeds threshold and Linear otherwise.
// A negative threshold always selects Set.
func Choose(estimate, threshold int) Strategy {
	if estimate > threshold {
		return Set
	}
	return Linear
}

// Appender appends ids to a result while skipping ones already present.
// It keeps its set between uses; the zero value is ready after Reset.
type Appender[ID comparable] struct {
	seen     map[ID]struct{}
	strategy Strategy
}

// Reset prepares the appender for a new result. estimate sizes the set on
// first use.
func (a *Appender[ID]) Reset(s Strategy, estimate int) {
	a.strategy = s
	if s != Set {
		return
	}
	if a.seen == nil {
		a.seen = make(map[ID]struct{}, estimate)
		return
	}
	clear(a.seen)
}

// Strategy returns the strategy chosen by the last Reset.
func (a *Appender[ID]) Strategy() Strategy { return a.strategy }

// Append adds every id of ids not yet in dst, preserving order.
func (a *Appender[ID]) Append(dst []ID, ids []ID) []ID {
	if a.strategy == Set {
		for _, id := range ids {
			if _, ok := a.seen[id]; ok {
				continue
			}
			a.seen[id] = struct{}{}
			dst = append(dst, id)
		}
		return dst
	}
	for _, id := range ids {
		if !slices.Contains(dst, id) {
			dst = append(dst, id)
		}
	}
	return dst
}

// Add appends a single id and reports whether it was new.
func (a *Appender[ID]) Add(dst []ID, id ID) ([]ID, bool) {
	if a.strategy == Set {
		if _, ok := a.seen[id]; ok {
			return dst, false
		}
		a.seen[id] = struct{}{}
		return append(dst, id), true
	}
	if slices.Contains(dst, id) {
		return dst, false
	}
	return append(dst, id), true
}
