package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalid         = errors.New("invalid entity")
	ErrNotSerializable = errors.New("value not serializable")

	// ErrConstraint matches every store-level rejection; the kind errors below narrow it.
	ErrConstraint = errors.New("constraint violation")
	ErrDuplicate  = errors.New("duplicate key")
	ErrForeignKey = errors.New("referenced row does not exist")
	ErrCheck      = errors.New("check constraint failed")
	ErrReferenced = errors.New("row is still referenced")
)

type ConstraintKind string

const (
	KindDuplicate  ConstraintKind = "duplicate"
	KindForeignKey ConstraintKind = "foreign_key"
	KindCheck      ConstraintKind = "check"
	KindReferenced ConstraintKind = "referenced"
)

func (k ConstraintKind) sentinel() error {
	switch k {
	case KindDuplicate:
		return ErrDuplicate
	case KindForeignKey:
		return ErrForeignKey
	case KindCheck:
		return ErrCheck
	case KindReferenced:
		return ErrReferenced
	}
	return nil
}

// ConstraintError is a rejection reported by the store. Err keeps the
// driver error (e.g. *mysql.MySQLError) reachable through errors.As.
type ConstraintError struct {
	Entity     string
	Kind       ConstraintKind
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	msg := fmt.Sprintf("%s: %s constraint %q violated", e.Entity, e.Kind, e.Constraint)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConstraintError) Unwrap() error { return e.Err }

func (e *ConstraintError) Is(target error) bool {
	if target == ErrConstraint {
		return true
	}
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// SerializeError is returned by ISOFormat for a value that is not a date, datetime or time.
type SerializeError struct {
	Value any
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("type %T not serializable", e.Value)
}

func (e *SerializeError) Unwrap() error { return ErrNotSerializable }
