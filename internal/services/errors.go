package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/yukikurage/task-manager/internal/utils"
)

// ErrForbidden is returned when the actor may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ValidationError carries per-field messages for a rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid input: " + strings.Join(names, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// orNil returns nil when no field failed, so callers can `return v.orNil()`.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.add(field, message)
	return v
}

// ListInput is the query and page requested by a list screen.
type ListInput struct {
	Query string
	Page  int
}

// Listing is one page of results together with the query that produced it.
type Listing[T any] struct {
	Items []T
	Page  utils.Page
	Query string
}
