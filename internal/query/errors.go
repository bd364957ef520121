package query

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is matched by every InvalidQueryError through errors.Is.
var ErrInvalidQuery = errors.New("invalid query")

// InvalidQueryError reports a malformed query parameter such as a negative skip.
type InvalidQueryError struct {
	Param   string
	Message string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Message)
}

// Is reports whether target is ErrInvalidQuery.
func (e *InvalidQueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

func invalid(param, format string, args ...any) *InvalidQueryError {
	return &InvalidQueryError{Param: param, Message: fmt.Sprintf(format, args...)}
}
