package model

import (
	"fmt"
	"strings"
)

// FilterKind separates reserved pseudo filters from user labels so that a user label
// named "completed" never collides with the completion filter.
type FilterKind string

const (
	FilterCompleted FilterKind = "completed"
	FilterDueDate   FilterKind = "due-date"
	FilterSize      FilterKind = "size"
	FilterLabel     FilterKind = "label"
)

type FilterKey struct {
	Kind  FilterKind `json:"kind"`
	Value string     `json:"value,omitempty"`
}

func CompletedKey() FilterKey         { return FilterKey{Kind: FilterCompleted} }
func DueDateKey() FilterKey           { return FilterKey{Kind: FilterDueDate} }
func SizeKey(s Size) FilterKey        { return FilterKey{Kind: FilterSize, Value: string(s)} }
func LabelKey(label string) FilterKey { return FilterKey{Kind: FilterLabel, Value: strings.TrimSpace(label)} }

func (k FilterKey) String() string {
	switch k.Kind {
	case FilterCompleted, FilterDueDate:
		return string(k.Kind)
	default:
		return string(k.Kind) + ":" + k.Value
	}
}

// ParseFilterKey maps a filter key string to its tagged form.
//
//	completed, dueDate        -> pseudo filters (case-insensitive; due-date, due_date too)
//	S, M, L                   -> size filters (legacy bare form)
//	size:<X>                  -> size filter, XS through XL
//	label:<name>              -> user label (use this for labels that shadow a pseudo key)
//	anything else             -> user label
func ParseFilterKey(s string) (FilterKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FilterKey{}, fmt.Errorf("empty filter key")
	}
	if rest, ok := strings.CutPrefix(s, "label:"); ok {
		if strings.TrimSpace(rest) == "" {
			return FilterKey{}, fmt.Errorf("empty label in filter key %q", s)
		}
		return LabelKey(rest), nil
	}
	if rest, ok := strings.CutPrefix(s, "size:"); ok {
		sz, err := ParseSize(rest)
		if err != nil {
			return FilterKey{}, err
		}
		if sz == "" {
			return FilterKey{}, fmt.Errorf("empty size in filter key %q", s)
		}
		return SizeKey(sz), nil
	}
	switch foldKey(s) {
	case "completed":
		return CompletedKey(), nil
	case "duedate":
		return DueDateKey(), nil
	}
	switch Size(s) {
	case SizeS, SizeM, SizeL:
		return SizeKey(Size(s)), nil
	}
	return LabelKey(s), nil
}

type FilterState string

const (
	ShowAll    FilterState = "show-all"
	ShowOnly   FilterState = "show-only"
	ShowOthers FilterState = "show-others"
)

func ParseFilterState(s string) (FilterState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "show-all", "show_all":
		return ShowAll, nil
	case "only", "show-only", "show_only":
		return ShowOnly, nil
	case "others", "show-others", "show_others", "not":
		return ShowOthers, nil
	default:
		return "", fmt.Errorf("invalid filter state: %q (expected only|others|all)", s)
	}
}

// Next cycles all -> only -> others -> all, the order a filter chip toggles through.
func (s FilterState) Next() FilterState {
	switch s {
	case ShowOnly:
		return ShowOthers
	case ShowOthers:
		return ShowAll
	default:
		return ShowOnly
	}
}

type LabelFilter struct {
	Key   FilterKey   `json:"key"`
	State FilterState `json:"state"`
}

// LabelFilters holds at most one entry per key. Keys absent from the set are show-all.
type LabelFilters []LabelFilter

// Set returns a copy with key set to state. Setting show-all removes the entry.
func (fs LabelFilters) Set(key FilterKey, state FilterState) LabelFilters {
	out := make(LabelFilters, 0, len(fs)+1)
	replaced := false
	for _, f := range fs {
		if f.Key != key {
			out = append(out, f)
			continue
		}
		if replaced {
			continue
		}
		replaced = true
		if state != ShowAll {
			out = append(out, LabelFilter{Key: key, State: state})
		}
	}
	if !replaced && state != ShowAll {
		out = append(out, LabelFilter{Key: key, State: state})
	}
	return out
}

func (fs LabelFilters) State(key FilterKey) FilterState {
	for _, f := range fs {
		if f.Key == key {
			return f.State
		}
	}
	return ShowAll
}

// ParseLabelFilter parses "key=state" (state defaults to only when omitted).
func ParseLabelFilter(s string) (LabelFilter, error) {
	k, v, hasState := strings.Cut(s, "=")
	key, err := ParseFilterKey(k)
	if err != nil {
		return LabelFilter{}, err
	}
	state := ShowOnly
	if hasState {
		state, err = ParseFilterState(v)
		if err != nil {
			return LabelFilter{}, err
		}
	}
	return LabelFilter{Key: key, State: state}, nil
}

// foldKey lowercases s and drops '-' and '_', so dueDate, due-date and due_date match.
func foldKey(s string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(s)))
}
