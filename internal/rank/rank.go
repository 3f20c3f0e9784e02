// Package rank maintains dense 1-based priority ranks over an ordered collection.
//
// Ranks are always 1..N with no gaps or duplicates, and entries reporting Done sit after
// every entry that does not. Functions take the collection in its current display order
// and return it re-ranked; the entries themselves are updated through SetRank.
package rank

import (
	"slices"
	"strings"
)

type Entry interface {
	EntryID() string
	Rank() int
	SetRank(int)
	Done() bool
}

type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Top    Direction = "top"
	Bottom Direction = "bottom"
)

func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, true
	case Down:
		return Down, true
	case Top, "first":
		return Top, true
	case Bottom, "last":
		return Bottom, true
	default:
		return "", false
	}
}

// ByRank returns a copy ordered by current rank. Ties keep their input order.
func ByRank[T Entry](xs []T) []T {
	out := slices.Clone(xs)
	slices.SortStableFunc(out, func(a, b T) int {
		switch {
		case a.Rank() < b.Rank():
			return -1
		case a.Rank() > b.Rank():
			return 1
		default:
			return 0
		}
	})
	return out
}

// Normalize partitions xs into not-done then done (stable within each partition) and
// assigns ranks 1..N in that order.
func Normalize[T Entry](xs []T) []T {
	out := make([]T, 0, len(xs))
	for _, x := range xs {
		if !x.Done() {
			out = append(out, x)
		}
	}
	for _, x := range xs {
		if x.Done() {
			out = append(out, x)
		}
	}
	for i, x := range out {
		x.SetRank(i + 1)
	}
	return out
}

func IndexOf[T Entry](xs []T, id string) int {
	for i, x := range xs {
		if x.EntryID() == id {
			return i
		}
	}
	return -1
}

// Move reinserts the entry at 1-based newPosition and re-normalizes. Positions outside
// [1, N] are clamped. ok is false when id is not present; xs is then returned unchanged.
func Move[T Entry](xs []T, id string, newPosition int) (out []T, ok bool) {
	from := IndexOf(xs, id)
	if from < 0 {
		return xs, false
	}
	return Normalize(moveIndex(xs, from, newPosition-1)), true
}

// MoveDirection shifts the entry one step up or down, or to the top or bottom. Steps past
// either end are no-ops.
func MoveDirection[T Entry](xs []T, id string, dir Direction) (out []T, ok bool) {
	from := IndexOf(xs, id)
	if from < 0 {
		return xs, false
	}
	to := from
	switch dir {
	case Up:
		to = from - 1
	case Down:
		to = from + 1
	case Top:
		to = 0
	case Bottom:
		to = len(xs) - 1
	}
	return Normalize(moveIndex(xs, from, to)), true
}

// Append adds x at the end with rank N+1. The collection is not re-normalized, so a new
// entry lands after done entries until the next normalization.
func Append[T Entry](xs []T, x T) []T {
	x.SetRank(len(xs) + 1)
	return append(slices.Clone(xs), x)
}

// Remove drops the entry and re-normalizes what is left.
func Remove[T Entry](xs []T, id string) (out []T, ok bool) {
	i := IndexOf(xs, id)
	if i < 0 {
		return xs, false
	}
	rest := slices.Delete(slices.Clone(xs), i, i+1)
	return Normalize(rest), true
}

// Valid reports whether ranks, read in slice order, are exactly 1..N with done entries
// after the rest.
func Valid[T Entry](xs []T) bool {
	seenDone := false
	for i, x := range xs {
		if x.Rank() != i+1 {
			return false
		}
		if x.Done() {
			seenDone = true
		} else if seenDone {
			return false
		}
	}
	return true
}

func moveIndex[T Entry](xs []T, from, to int) []T {
	out := slices.Clone(xs)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	if to < 0 {
		to = 0
	}
	if to > len(out) {
		to = len(out)
	}
	return slices.Insert(out, to, moved)
}
