package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolved is matched by every *ResolutionError.
var ErrUnresolved = errors.New("record not resolved")

// ResolutionError is returned when no strategy recognised the input.
type ResolutionError struct {
	Input string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("can't recognize %q as a record in the database", e.Input)
}

// Is implements errors.Is support.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrUnresolved
}

// AmbiguousMatchError is returned in strict mode when a name matches several records.
type AmbiguousMatchError struct {
	Input string
	IDs   []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("name %q matches %d records: %s", e.Input, len(e.IDs), strings.Join(e.IDs, ", "))
}

// MalformedURLError is returned for a record URL that cannot be taken apart.
type MalformedURLError struct {
	URL    string
	Reason string
}

func (e *MalformedURLError) Error() string {
	return fmt.Sprintf("malformed record URL %q: %s", e.URL, e.Reason)
}
