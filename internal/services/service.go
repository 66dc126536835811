// Package services manages the workshop offerings customers can book.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"gorm.io/gorm"
)

type CreateRequest struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Description string      `json:"description"`
	Price       types.Money `json:"price"`
}

type UpdateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *types.Money     `json:"price"`
	UserID      types.NullableID `json:"userId"`
}

type ListFilter struct {
	UserID *uint
	Name   string
}

type Service interface {
	Create(ctx context.Context, ownerID uint, req CreateRequest) (*models.Service, error)
	Get(ctx context.Context, id uint) (*models.Service, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*repo.Page[models.Service], error)
	Update(ctx context.Context, id uint, req UpdateRequest) (*models.Service, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	store repo.Store[models.Service]
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &service{store: repo.NewStore[models.Service](db, "service", func(s *models.Service) uint { return s.ID })}, nil
}

func (s *service) Create(ctx context.Context, ownerID uint, req CreateRequest) (*models.Service, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	svc := &models.Service{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
	}
	if ownerID != 0 {
		svc.UserID = &ownerID
	}
	if err := s.store.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Service, error) {
	return s.store.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter, params pagination.Params) (*repo.Page[models.Service], error) {
	return s.store.ListWhere(ctx, func(q *gorm.DB) *gorm.DB {
		if f.UserID != nil {
			q = q.Where("user_id = ?", *f.UserID)
		}
		if name := strings.TrimSpace(f.Name); name != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
		}
		return q
	}, params)
}

func (s *service) Update(ctx context.Context, id uint, req UpdateRequest) (*models.Service, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		fields["price"] = *req.Price
	}
	if req.UserID.Valid {
		fields["user_id"] = req.UserID.Column()
	}
	return s.store.Update(ctx, id, fields)
}

// Delete removes the offering together with its bookings.
func (s *service) Delete(ctx context.Context, id uint) error {
	return s.store.Delete(ctx, id)
}
