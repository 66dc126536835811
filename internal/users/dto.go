package users

import (
	"strings"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/enums"
)

// UpdateRequest is the admin partial update for an account. Credentials are
// changed through the auth flows only.
type UpdateRequest struct {
	Name       *string         `json:"name" validate:"omitempty,min=1,max=255"`
	Email      *string         `json:"email" validate:"omitempty,email,max=255"`
	UserType   *enums.UserType `json:"userType" validate:"omitempty,enum"`
	IsApproved *bool           `json:"isApproved"`
	IsVerified *bool           `json:"isVerified"`
}

func (r UpdateRequest) fields() map[string]any {
	fields := map[string]any{}
	if r.Name != nil {
		fields["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		fields["email"] = NormalizeEmail(*r.Email)
	}
	if r.UserType != nil {
		fields["user_type"] = *r.UserType
	}
	if r.IsApproved != nil {
		fields["is_approved"] = *r.IsApproved
	}
	if r.IsVerified != nil {
		fields["is_verified"] = *r.IsVerified
	}
	return fields
}

// ListFilter narrows the admin user listing.
type ListFilter struct {
	UserType   *enums.UserType
	IsApproved *bool
}

func (f ListFilter) toRepo() repo.Filter {
	filter := repo.Filter{}
	if f.UserType != nil {
		filter["user_type"] = *f.UserType
	}
	if f.IsApproved != nil {
		filter["is_approved"] = *f.IsApproved
	}
	return filter
}
