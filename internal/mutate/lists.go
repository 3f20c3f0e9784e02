package mutate

import (
	"slices"
	"strings"

	"lista-cli/internal/model"
	"lista-cli/internal/rank"
	"lista-cli/internal/store"
)

type ListResult struct {
	List    model.List
	Changed bool
}

type NewList struct {
	Title       string
	Description string
	Type        model.ListType
	Labels      []string
	// Items seeds the list with incomplete items, in order. Blank entries are skipped.
	Items []string
}

// AddList appends a list with priority M+1 and re-normalizes the lists.
func AddList(st *store.State, s Stamp, in NewList) (ListResult, error) {
	title, err := requireText("title", in.Title)
	if err != nil {
		return ListResult{}, err
	}
	typ := in.Type
	if typ == "" {
		typ = model.ListUnordered
	}
	now := s.now()
	l := model.List{
		ID:          store.NextID(st, store.PrefixList),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Type:        typ,
		Items:       []model.ListItem{},
		Labels:      model.NormalizeLabels(in.Labels),
		CreatedAt:   now,
		UpdatedAt:   now,
		Author:      strings.TrimSpace(s.Who),
	}
	for _, content := range in.Items {
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		id := store.NextID(st, store.PrefixListItem)
		for slices.ContainsFunc(l.Items, func(it model.ListItem) bool { return it.ID == id }) {
			id = store.NextID(st, store.PrefixListItem)
		}
		l.Items = append(l.Items, model.ListItem{ID: id, Content: content, CreatedAt: now, UpdatedAt: now})
	}
	rank.Append(st.RankedLists(), &l)
	st.Lists = append(st.Lists, l)
	NormalizeLists(st)

	got, _ := st.FindList(l.ID)
	return ListResult{List: *got, Changed: true}, nil
}

type ListEdit struct {
	Title       *string
	Description *string
	Type        *model.ListType
	Labels      *[]string
}

func EditList(st *store.State, s Stamp, id string, e ListEdit) (ListResult, error) {
	id = strings.TrimSpace(id)
	var title string
	if e.Title != nil {
		var err error
		if title, err = requireText("title", *e.Title); err != nil {
			return ListResult{}, err
		}
	}
	l, ok := st.FindList(id)
	if !ok {
		return ListResult{}, NotFoundError{Kind: "list", ID: id}
	}
	changed := false
	if e.Title != nil && l.Title != title {
		l.Title = title
		changed = true
	}
	if e.Description != nil {
		if d := strings.TrimSpace(*e.Description); d != l.Description {
			l.Description = d
			changed = true
		}
	}
	if e.Type != nil && *e.Type != l.Type {
		l.Type = *e.Type
		changed = true
	}
	if e.Labels != nil {
		if labels := model.NormalizeLabels(*e.Labels); !slices.Equal(labels, l.Labels) {
			l.Labels = labels
			changed = true
		}
	}
	if changed {
		l.UpdatedAt = s.now()
	}
	return ListResult{List: *l, Changed: changed}, nil
}

// DeleteList removes a list and re-ranks the rest. Unknown ids are a no-op.
func DeleteList(st *store.State, id string) (ListResult, error) {
	id = strings.TrimSpace(id)
	l, ok := st.FindList(id)
	if !ok {
		return ListResult{}, nil
	}
	removed := *l
	if _, ok := rank.Remove(st.RankedLists(), id); !ok {
		return ListResult{}, nil
	}
	st.RemoveList(id)
	return ListResult{List: removed, Changed: true}, nil
}

func MoveList(st *store.State, id string, position int) (ListResult, error) {
	id = strings.TrimSpace(id)
	l, ok := st.FindList(id)
	if !ok {
		return ListResult{}, nil
	}
	xs := st.RankedLists()
	before := rankSnapshot(xs)
	out, _ := rank.Move(xs, id, position)
	return ListResult{List: *l, Changed: ranksChanged(before, out)}, nil
}

func MoveListDirection(st *store.State, id string, dir rank.Direction) (ListResult, error) {
	id = strings.TrimSpace(id)
	l, ok := st.FindList(id)
	if !ok {
		return ListResult{}, nil
	}
	xs := st.RankedLists()
	before := rankSnapshot(xs)
	out, _ := rank.MoveDirection(xs, id, dir)
	return ListResult{List: *l, Changed: ranksChanged(before, out)}, nil
}
