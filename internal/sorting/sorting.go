// Package sorting orders filtered tasks and lists for display.
//
// All sorts are stable: items with equal keys keep their relative input order.
package sorting

import (
	"slices"
	"time"

	"lista-cli/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Options struct {
	// StrictCreatedAt makes the createdAt field compare creation instants. When false,
	// createdAt resolves to the latest activity instant exactly like updatedAt, which is
	// what previously persisted sort preferences were produced with.
	StrictCreatedAt bool

	// Language drives title collation. The zero value means Swedish.
	Language language.Tag
}

func (o Options) tag() language.Tag {
	if o.Language == (language.Tag{}) {
		return language.Swedish
	}
	return o.Language
}

type keys[T any] struct {
	rank     func(T) int
	due      func(T) *time.Time
	created  func(T) time.Time
	activity func(T) time.Time
	title    func(T) string
}

var taskKeys = keys[model.Task]{
	rank:     func(t model.Task) int { return t.Priority },
	due:      func(t model.Task) *time.Time { return t.DueDate },
	created:  func(t model.Task) time.Time { return t.CreatedAt },
	activity: func(t model.Task) time.Time { return t.LatestActivity() },
	title:    func(t model.Task) string { return t.Title },
}

var listKeys = keys[model.List]{
	rank:     func(l model.List) int { return l.Priority },
	due:      func(model.List) *time.Time { return nil },
	created:  func(l model.List) time.Time { return l.CreatedAt },
	activity: func(l model.List) time.Time { return l.LatestActivity() },
	title:    func(l model.List) string { return l.Title },
}

// Tasks returns a sorted copy of tasks.
func Tasks(tasks []model.Task, spec model.SortSpec, opts Options) []model.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, comparator(taskKeys, spec, opts))
	return out
}

// Lists returns a sorted copy of lists.
func Lists(lists []model.List, spec model.SortSpec, opts Options) []model.List {
	out := slices.Clone(lists)
	slices.SortStableFunc(out, comparator(listKeys, spec, opts))
	return out
}

func comparator[T any](k keys[T], spec model.SortSpec, opts Options) func(a, b T) int {
	sign := spec.Direction.Sign()
	switch spec.Field {
	case model.SortDueDate:
		return func(a, b T) int {
			da, db := k.due(a), k.due(b)
			switch {
			case da == nil && db == nil:
				return 0
			case da == nil:
				return 1
			case db == nil:
				return -1
			}
			return sign * da.Compare(*db)
		}
	case model.SortCreatedAt:
		at := k.activity
		if opts.StrictCreatedAt {
			at = k.created
		}
		return func(a, b T) int { return sign * at(a).Compare(at(b)) }
	case model.SortUpdatedAt:
		return func(a, b T) int { return sign * k.activity(a).Compare(k.activity(b)) }
	case model.SortTitle:
		c := collate.New(opts.tag())
		return func(a, b T) int { return sign * c.CompareString(k.title(a), k.title(b)) }
	default:
		// Priority is a manual ordering; it has no meaningful reverse.
		return func(a, b T) int { return cmpInt(k.rank(a), k.rank(b)) }
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
