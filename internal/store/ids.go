package store

import (
	"strings"

	"github.com/google/uuid"
)

const (
	PrefixTask     = "task"
	PrefixSubtask  = "sub"
	PrefixList     = "list"
	PrefixListItem = "item"
)

// NewID returns prefix-<8 hex chars> taken from a random UUID.
func NewID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return prefix + "-" + suffix
}

// NextID returns a new id that does not collide with anything in st.
func NextID(st *State, prefix string) string {
	for {
		id := NewID(prefix)
		if st == nil || !st.IDExists(id) {
			return id
		}
	}
}
