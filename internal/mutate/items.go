package mutate

import (
	"errors"
	"slices"
	"strings"

	"lista-cli/internal/model"
	"lista-cli/internal/store"
)

// ItemResult reports a list item change. DoneChanged is set when the change flipped whether
// the whole list counts as completed, which moves it between rank partitions on the next
// normalization.
type ItemResult struct {
	List        model.List
	Item        model.ListItem
	Changed     bool
	DoneChanged bool
}

func AddListItem(st *store.State, s Stamp, listID, content string) (ItemResult, error) {
	content, err := requireText("content", content)
	if err != nil {
		return ItemResult{}, err
	}
	listID = strings.TrimSpace(listID)
	l, ok := st.FindList(listID)
	if !ok {
		return ItemResult{}, NotFoundError{Kind: "list", ID: listID}
	}
	wasDone := l.AllCompleted()
	now := s.now()
	it := model.ListItem{
		ID:        store.NextID(st, store.PrefixListItem),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.Items = append(l.Items, it)
	l.UpdatedAt = now
	return ItemResult{List: *l, Item: it, Changed: true, DoneChanged: wasDone != l.AllCompleted()}, nil
}

func SetListItemCompleted(st *store.State, s Stamp, listID, itemID string, completed bool) (ItemResult, error) {
	l, i, err := findItem(st, listID, itemID)
	if err != nil {
		return ItemResult{}, err
	}
	it := &l.Items[i]
	if it.Completed == completed {
		return ItemResult{List: *l, Item: *it, Changed: false}, nil
	}
	wasDone := l.AllCompleted()
	now := s.now()
	it.Completed = completed
	it.UpdatedAt = now
	l.UpdatedAt = now
	return ItemResult{List: *l, Item: *it, Changed: true, DoneChanged: wasDone != l.AllCompleted()}, nil
}

func EditListItem(st *store.State, s Stamp, listID, itemID, content string) (ItemResult, error) {
	content, err := requireText("content", content)
	if err != nil {
		return ItemResult{}, err
	}
	l, i, err := findItem(st, listID, itemID)
	if err != nil {
		return ItemResult{}, err
	}
	it := &l.Items[i]
	if it.Content == content {
		return ItemResult{List: *l, Item: *it, Changed: false}, nil
	}
	now := s.now()
	it.Content = content
	it.UpdatedAt = now
	l.UpdatedAt = now
	return ItemResult{List: *l, Item: *it, Changed: true}, nil
}

// DeleteListItem removes an item. Unknown item ids are a no-op.
func DeleteListItem(st *store.State, s Stamp, listID, itemID string) (ItemResult, error) {
	l, i, err := findItem(st, listID, itemID)
	if err != nil {
		var nf NotFoundError
		if errors.As(err, &nf) && nf.Kind == "item" {
			return ItemResult{}, nil
		}
		return ItemResult{}, err
	}
	wasDone := l.AllCompleted()
	removed := l.Items[i]
	l.Items = slices.Delete(l.Items, i, i+1)
	l.UpdatedAt = s.now()
	return ItemResult{List: *l, Item: removed, Changed: true, DoneChanged: wasDone != l.AllCompleted()}, nil
}

func findItem(st *store.State, listID, itemID string) (*model.List, int, error) {
	listID = strings.TrimSpace(listID)
	itemID = strings.TrimSpace(itemID)
	l, ok := st.FindList(listID)
	if !ok {
		return nil, -1, NotFoundError{Kind: "list", ID: listID}
	}
	i := slices.IndexFunc(l.Items, func(x model.ListItem) bool { return x.ID == itemID })
	if i < 0 {
		return nil, -1, NotFoundError{Kind: "item", ID: itemID}
	}
	return l, i, nil
}
