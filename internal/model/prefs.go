package model

import (
	"fmt"
	"strings"
)

type SortField string

const (
	SortPriority  SortField = "priority"
	SortDueDate   SortField = "dueDate"
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortTitle     SortField = "title"
)

var SortFields = []SortField{SortPriority, SortDueDate, SortCreatedAt, SortUpdatedAt, SortTitle}

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Sign is the comparator multiplier for the direction.
func (d SortDirection) Sign() int {
	if d == Desc {
		return -1
	}
	return 1
}

func (d SortDirection) Reverse() SortDirection {
	if d == Desc {
		return Asc
	}
	return Desc
}

type SortSpec struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

func DefaultSort() SortSpec { return SortSpec{Field: SortPriority, Direction: Asc} }

func (s SortSpec) String() string { return string(s.Field) + ":" + string(s.Direction) }

// ParseSortSpec parses "field" or "field:dir". Field names are case-insensitive and accept
// kebab/snake forms (due-date, created_at).
func ParseSortSpec(s string) (SortSpec, error) {
	f, d, _ := strings.Cut(strings.TrimSpace(s), ":")
	spec := DefaultSort()
	if strings.TrimSpace(f) != "" {
		norm := foldKey(f)
		found := false
		for _, sf := range SortFields {
			if strings.ToLower(string(sf)) == norm {
				spec.Field = sf
				found = true
				break
			}
		}
		if !found {
			return SortSpec{}, fmt.Errorf("invalid sort field: %q (expected priority|dueDate|createdAt|updatedAt|title)", f)
		}
	}
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "", "asc":
		spec.Direction = Asc
	case "desc":
		spec.Direction = Desc
	default:
		return SortSpec{}, fmt.Errorf("invalid sort direction: %q (expected asc|desc)", d)
	}
	return spec, nil
}

// NextField cycles through SortFields, used by the TUI sort key.
func (s SortSpec) NextField() SortSpec {
	for i, f := range SortFields {
		if f == s.Field {
			s.Field = SortFields[(i+1)%len(SortFields)]
			return s
		}
	}
	s.Field = SortPriority
	return s
}

type StorageMode string

const (
	StorageLocal  StorageMode = "local"
	StorageRemote StorageMode = "remote"
)

func ParseStorageMode(s string) (StorageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return StorageLocal, nil
	case "remote", "cloud":
		return StorageRemote, nil
	default:
		return "", fmt.Errorf("invalid storage mode: %q (expected local|remote)", s)
	}
}

type ExpansionMode string

const (
	ExpandNone ExpansionMode = "none"
	ExpandOne  ExpansionMode = "one"
	ExpandAll  ExpansionMode = "all"
)

// Expansion is the persisted form of the view's expansion state.
type Expansion struct {
	Mode ExpansionMode `json:"mode"`
	ID   string        `json:"id,omitempty"`
}
