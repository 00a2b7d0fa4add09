package service

import (
	"github.com/pkg/errors"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/store"
)

// Error kinds surfaced to callers. Match with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid input")
)

// Error carries a user-facing detail for one of the kinds above.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.Kind }

func notFound(detail string) error  { return &Error{Kind: ErrNotFound, Detail: detail} }
func conflict(detail string) error  { return &Error{Kind: ErrConflict, Detail: detail} }
func forbidden(detail string) error { return &Error{Kind: ErrForbidden, Detail: detail} }
func invalid(detail string) error   { return &Error{Kind: ErrInvalid, Detail: detail} }

// fromStore maps a missing row to NotFound with detail and wraps anything else.
func fromStore(err error, detail string) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(detail)
	}
	return errors.Wrap(err, detail)
}
