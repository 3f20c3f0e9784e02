package model

import (
	"fmt"
	"strings"
	"time"
)

type Size string

const (
	SizeXS Size = "XS"
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

var Sizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL}

// ParseSize accepts a size letter in any case. The empty string means "no size".
func ParseSize(s string) (Size, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "NONE" {
		return "", nil
	}
	for _, sz := range Sizes {
		if string(sz) == s {
			return sz, nil
		}
	}
	return "", fmt.Errorf("invalid size: %q (expected XS|S|M|L|XL)", s)
}

// Tab partitions tasks: todos holds everything not archived.
type Tab string

const (
	TabTodos   Tab = "todos"
	TabArchive Tab = "archive"
)

func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "todos", "todo":
		return TabTodos, nil
	case "archive", "archived":
		return TabArchive, nil
	default:
		return "", fmt.Errorf("invalid tab: %q (expected todos|archive)", s)
	}
}

// Update is one entry of a task's append-only activity log.
type Update struct {
	Who  string    `json:"who"`
	When time.Time `json:"when"`
}

type Subtask struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`

	Completed bool `json:"completed"`
	Archived  bool `json:"archived"`
	Priority  int  `json:"priority"`

	Labels  []string   `json:"labels,omitempty"`
	Size    Size       `json:"size,omitempty"`
	DueDate *time.Time `json:"dueDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Updates   []Update  `json:"updates,omitempty"`

	Subtasks     []Subtask `json:"subtasks,omitempty"`
	ParentTaskID *string   `json:"parentTaskId,omitempty"`
}

func (t Task) Tab() Tab {
	if t.Archived {
		return TabArchive
	}
	return TabTodos
}

func (t Task) HasLabel(label string) bool {
	return containsLabel(t.Labels, label)
}

// LatestActivity is the instant of the newest update-log entry, or CreatedAt when the
// log is empty.
func (t Task) LatestActivity() time.Time {
	if n := len(t.Updates); n > 0 {
		return t.Updates[n-1].When
	}
	return t.CreatedAt
}

func (t Task) OpenSubtasks() int {
	n := 0
	for _, st := range t.Subtasks {
		if !st.Completed {
			n++
		}
	}
	return n
}

func (t *Task) EntryID() string { return t.ID }
func (t *Task) Rank() int       { return t.Priority }
func (t *Task) SetRank(r int)   { t.Priority = r }
func (t *Task) Done() bool      { return t.Completed }

// Touch stamps UpdatedAt and appends an entry to the update log.
func (t *Task) Touch(who string, now time.Time) {
	t.UpdatedAt = now
	t.Updates = append(t.Updates, Update{Who: who, When: now})
}

type ListType string

const (
	ListOrdered   ListType = "ordered"
	ListUnordered ListType = "unordered"
)

func ParseListType(s string) (ListType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unordered":
		return ListUnordered, nil
	case "ordered":
		return ListOrdered, nil
	default:
		return "", fmt.Errorf("invalid list type: %q (expected ordered|unordered)", s)
	}
}

type ListItem struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type List struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Type        ListType   `json:"type"`
	Items       []ListItem `json:"items"`
	Priority    int        `json:"priority"`
	Labels      []string   `json:"labels,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Author      string     `json:"author,omitempty"`
}

// AllCompleted reports whether the list has items and every one of them is completed.
// An empty list is not considered completed.
func (l List) AllCompleted() bool {
	if len(l.Items) == 0 {
		return false
	}
	for _, it := range l.Items {
		if !it.Completed {
			return false
		}
	}
	return true
}

func (l List) HasLabel(label string) bool {
	return containsLabel(l.Labels, label)
}

// LatestActivity for lists is UpdatedAt, falling back to CreatedAt.
func (l List) LatestActivity() time.Time {
	if !l.UpdatedAt.IsZero() {
		return l.UpdatedAt
	}
	return l.CreatedAt
}

func (l *List) EntryID() string { return l.ID }
func (l *List) Rank() int       { return l.Priority }
func (l *List) SetRank(r int)   { l.Priority = r }
func (l *List) Done() bool      { return l.AllCompleted() }

// NormalizeLabels trims, drops empties and de-duplicates while keeping first-seen order.
func NormalizeLabels(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, l := range in {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func containsLabel(labels []string, label string) bool {
	label = strings.TrimSpace(label)
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
