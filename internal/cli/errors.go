package cli

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errDoctorIssuesFound = errors.New("doctor found errors")

type usageError struct {
	arg    string
	reason string
}

func (e usageError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.arg, e.reason)
}

func errUsage(arg, reason string) error {
	return usageError{arg: arg, reason: reason}
}

// marshalSlice keeps empty results as [] rather than null.
func marshalSlice[T any](xs []T) ([]byte, error) {
	if xs == nil {
		xs = []T{}
	}
	return json.Marshal(xs)
}
