package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
)

// Service is the admin surface over user accounts.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*repo.Page[models.User], error)
	Get(ctx context.Context, id uint) (*models.User, error)
	Update(ctx context.Context, id uint, req UpdateRequest) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	Approve(ctx context.Context, id uint) (*models.User, error)
}

type service struct {
	repo *Repository
}

func NewService(r *Repository) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: r}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*repo.Page[models.User], error) {
	if filter.UserType != nil && !filter.UserType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid userType filter")
	}
	return s.repo.List(ctx, filter.toRepo(), params)
}

func (s *service) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id uint, req UpdateRequest) (*models.User, error) {
	if req.UserType != nil && !req.UserType.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid userType %q", *req.UserType)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if req.Email != nil {
		existing, err := s.repo.FindByEmail(ctx, *req.Email)
		if err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
	}

	user, err := s.repo.Update(ctx, id, req.fields())
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the account; orders, payments, addresses and the rest of the
// user's rows cascade while owned services and assignments are nulled.
func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Approve(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.Update(ctx, id, map[string]any{"is_approved": true})
}
