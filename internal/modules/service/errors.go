package service

import (
	"errors"
	"fmt"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"gorm.io/gorm"
)

// Error kinds. Handlers map them to status codes with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

// Error carries a human-readable message and unwraps to its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return newError(ErrNotFound, "%s not found", what)
}

func validation(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

// lookupErr turns a missing record into a NotFound error naming what.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	return err
}

func requireUser(viewer *model.User) error {
	if viewer == nil {
		return newError(ErrUnauthorized, "you must be logged in")
	}
	return nil
}

func requireOwner(viewer *model.User, p *model.Project) error {
	if err := requireUser(viewer); err != nil {
		return err
	}
	if p.SellerID != viewer.ID {
		return newError(ErrForbidden, "only the seller can modify this project")
	}
	return nil
}
