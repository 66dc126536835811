// Package access describes who is calling a service and which rows they may
// touch. Staff see everything; customers see what they own.
package access

import (
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
)

type Actor struct {
	UserID   uint
	UserType enums.UserType
}

func (a Actor) IsStaff() bool {
	return a.UserType.IsStaff()
}

// Owns reports whether the actor may read or change a row owned by ownerID.
func (a Actor) Owns(ownerID uint) bool {
	return a.IsStaff() || (a.UserID != 0 && a.UserID == ownerID)
}

// Scope returns the owner id list queries must be restricted to, or nil for
// staff.
func (a Actor) Scope() *uint {
	if a.IsStaff() {
		return nil
	}
	id := a.UserID
	return &id
}

// Require rejects anonymous actors.
func (a Actor) Require() error {
	if a.UserID == 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return nil
}

// Check returns NotFound rather than Forbidden so row existence does not leak.
func (a Actor) Check(ownerID uint, entity string) error {
	if err := a.Require(); err != nil {
		return err
	}
	if !a.Owns(ownerID) {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "%s not found", entity)
	}
	return nil
}
