package derive

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrIncompleteBuilder is returned by a generated Build method when one or
// more required fields were never set.
var ErrIncompleteBuilder = errors.New("derive: builder incomplete")

// IncompleteBuilderError reports every required field that was unset when
// a generated Build method ran.
type IncompleteBuilderError struct {
	record  string
	missing []string
}

// Error returns the error string.
func (e *IncompleteBuilderError) Error() string {
	return fmt.Sprintf("derive: %s: the following fields are not yet set: %s", e.record, strings.Join(e.missing, ","))
}

// Is reports whether the target error matches IncompleteBuilderError.
// This allows errors.Is(err, ErrIncompleteBuilder) to return true.
func (e *IncompleteBuilderError) Is(err error) bool {
	return err == ErrIncompleteBuilder
}

// Record returns the name of the record type the builder produces.
func (e *IncompleteBuilderError) Record() string {
	return e.record
}

// Missing returns the unset field names in declaration order.
func (e *IncompleteBuilderError) Missing() []string {
	return slices.Clone(e.missing)
}

// NewIncompleteBuilderError returns a new IncompleteBuilderError for the given record.
func NewIncompleteBuilderError(record string, missing []string) *IncompleteBuilderError {
	return &IncompleteBuilderError{record: record, missing: slices.Clone(missing)}
}

// IsIncompleteBuilder returns true if the error is an IncompleteBuilderError.
func IsIncompleteBuilder(err error) bool {
	if err == nil {
		return false
	}
	var e *IncompleteBuilderError
	return errors.As(err, &e) || errors.Is(err, ErrIncompleteBuilder)
}
