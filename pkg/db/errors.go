package db

import (
	"strings"

	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
	sqlStateInvalidEnumValue    = "22P02"
)

// IsUniqueViolation reports whether err is a unique constraint failure. When
// constraintName is provided the constraint must match as well.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && !strings.Contains(msg, constraintName) {
		return false
	}
	if pkgerrors.SQLState(err) == sqlStateUniqueViolation {
		return true
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err references a missing parent row.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if pkgerrors.SQLState(err) == sqlStateForeignKeyViolation {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsCheckViolation reports whether err is a CHECK constraint or enum cast failure.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	switch pkgerrors.SQLState(err) {
	case sqlStateCheckViolation, sqlStateInvalidEnumValue:
		return true
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}

// Constraint kinds reported by ConstraintKind.
const (
	ConstraintUnique     = "unique"
	ConstraintForeignKey = "foreign_key"
	ConstraintCheck      = "check"
)

// ConstraintKind classifies a constraint failure, or returns "" when err is
// not one.
func ConstraintKind(err error) string {
	switch {
	case IsUniqueViolation(err, ""):
		return ConstraintUnique
	case IsForeignKeyViolation(err):
		return ConstraintForeignKey
	case IsCheckViolation(err):
		return ConstraintCheck
	}
	return ""
}
