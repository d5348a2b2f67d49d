// Package apperr carries the failure kinds surfaced by the provisioning and aggregation engine.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInput
	KindConflict
	KindNotFound
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindTransaction:
		return "transaction"
	default:
		return "internal"
	}
}

// RowError is a row-scoped rejection. Row is the zero-based index in the submitted roster.
type RowError struct {
	Roster string `json:"roster,omitempty"`
	Row    int    `json:"row"`
	Email  string `json:"email,omitempty"`
	Reason string `json:"reason"`
}

type Error struct {
	Kind    Kind
	Message string
	Rows    []RowError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Input(msg string, rows ...RowError) *Error {
	return &Error{Kind: KindInput, Message: msg, Rows: rows}
}

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Transaction(msg string, err error) *Error {
	return &Error{Kind: KindTransaction, Message: msg, Err: err}
}

// KindOf returns the kind of the outermost *Error in the chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsUniqueViolation reports SQLSTATE 23505 anywhere in the chain.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// FromDB maps storage errors onto engine kinds; other errors pass through unchanged.
func FromDB(err error) error {
	switch {
	case err == nil:
		return nil
	case KindOf(err) != KindInternal:
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Message: "record not found", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey), IsUniqueViolation(err):
		return Conflict("duplicate key", err)
	}
	return err
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInput:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the public message of an engine error.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal server error"
}

// RowsOf returns the row errors attached to err, if any.
func RowsOf(err error) []RowError {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Rows
	}
	return nil
}
