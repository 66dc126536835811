package repo

import (
	"errors"
	"fmt"

	"github.com/riderhub/riderhub-backend/pkg/db"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"gorm.io/gorm"
)

// MapError converts a persistence error into the typed error surfaced to
// callers. Missing rows become NotFound; every other driver error, including
// constraint violations, becomes DatabaseError. Constraint failures carry
// their kind in the details for the request log.
func MapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity)
	}
	wrapped := pkgerrors.Wrap(pkgerrors.CodeDatabase, err, fmt.Sprintf("%s query failed", entity))
	if kind := db.ConstraintKind(err); kind != "" {
		wrapped = wrapped.WithDetails(map[string]string{"constraint_kind": kind})
	}
	return wrapped
}

// NotFound builds the canonical "<entity> not found" error.
func NotFound(entity string) error {
	return pkgerrors.Newf(pkgerrors.CodeNotFound, "%s not found", entity)
}
