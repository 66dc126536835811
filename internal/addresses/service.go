// Package addresses stores delivery addresses for customers.
package addresses

import (
	"context"
	"fmt"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/access"
	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

type AddressRequest struct {
	County      enums.County `json:"county" validate:"required,enum"`
	SubCounty   string       `json:"subCounty" validate:"max=100"`
	Ward        string       `json:"ward" validate:"max=100"`
	Street      string       `json:"street" validate:"max=255"`
	PhoneNumber string       `json:"phoneNumber" validate:"required,ke_phone"`
	PostalCode  string       `json:"postalCode" validate:"max=10"`
}

type UpdateAddressRequest struct {
	County      *enums.County `json:"county" validate:"omitempty,enum"`
	SubCounty   *string       `json:"subCounty" validate:"omitempty,max=100"`
	Ward        *string       `json:"ward" validate:"omitempty,max=100"`
	Street      *string       `json:"street" validate:"omitempty,max=255"`
	PhoneNumber *string       `json:"phoneNumber" validate:"omitempty,ke_phone"`
	PostalCode  *string       `json:"postalCode" validate:"omitempty,max=10"`
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, req AddressRequest) (*models.UserAddress, error)
	Get(ctx context.Context, actor access.Actor, id uint) (*models.UserAddress, error)
	List(ctx context.Context, actor access.Actor, userID *uint, params pagination.Params) (*repo.Page[models.UserAddress], error)
	Update(ctx context.Context, actor access.Actor, id uint, req UpdateAddressRequest) (*models.UserAddress, error)
	Delete(ctx context.Context, actor access.Actor, id uint) error
}

type service struct {
	store repo.Store[models.UserAddress]
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &service{store: repo.NewStore[models.UserAddress](db, "address", func(a *models.UserAddress) uint { return a.ID })}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, req AddressRequest) (*models.UserAddress, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if !req.County.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid county %q", req.County)
	}
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phoneNumber is required")
	}
	address := &models.UserAddress{
		UserID:      actor.UserID,
		County:      req.County,
		SubCounty:   strings.TrimSpace(req.SubCounty),
		Ward:        strings.TrimSpace(req.Ward),
		Street:      strings.TrimSpace(req.Street),
		PhoneNumber: phone,
		PostalCode:  strings.TrimSpace(req.PostalCode),
	}
	if err := s.store.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id uint) (*models.UserAddress, error) {
	address, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Check(address.UserID, "address"); err != nil {
		return nil, err
	}
	return address, nil
}

// List returns the caller's addresses. Staff may pass userID to look at a
// specific customer or nil for all.
func (s *service) List(ctx context.Context, actor access.Actor, userID *uint, params pagination.Params) (*repo.Page[models.UserAddress], error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if scope := actor.Scope(); scope != nil {
		userID = scope
	}
	filter := repo.Filter{}
	if userID != nil {
		filter["user_id"] = *userID
	}
	return s.store.List(ctx, filter, params)
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uint, req UpdateAddressRequest) (*models.UserAddress, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.County != nil {
		if !req.County.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid county %q", *req.County)
		}
		fields["county"] = *req.County
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phoneNumber cannot be empty")
		}
		fields["phone_number"] = phone
	}
	setTrimmed(fields, "sub_county", req.SubCounty)
	setTrimmed(fields, "ward", req.Ward)
	setTrimmed(fields, "street", req.Street)
	setTrimmed(fields, "postal_code", req.PostalCode)
	return s.store.Update(ctx, id, fields)
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func setTrimmed(fields map[string]any, column string, value *string) {
	if value != nil {
		fields[column] = strings.TrimSpace(*value)
	}
}
