package store

import "fmt"

// PersistError reports a failed load or save of one collection.
type PersistError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
