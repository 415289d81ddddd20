package line

import (
	"fmt"
	"strings"
)

// ValidationError reports one malformed or inconsistent input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass over the input.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	switch len(es) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + es[0].Error()
	}
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("validation failed (%d issues): %s", len(es), strings.Join(parts, "; "))
}

func (es *ValidationErrors) add(field, format string, args ...any) {
	*es = append(*es, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// orNil returns nil when nothing was collected, so callers can return it as error.
func (es ValidationErrors) orNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}
