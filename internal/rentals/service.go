package rentals

import (
	"context"
	"fmt"
	"time"

	"github.com/riderhub/riderhub-backend/internal/access"
	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"gorm.io/gorm"
)

type CreateRentalRequest struct {
	UserID    uint               `json:"userId"`
	ProductID uint               `json:"productId" validate:"required"`
	StaffID   *uint              `json:"staffId"`
	RentStart time.Time          `json:"rentStart" validate:"required"`
	RentEnd   time.Time          `json:"rentEnd" validate:"required"`
	Status    enums.RentalStatus `json:"status" validate:"omitempty,enum"`
}

type UpdateRentalRequest struct {
	StaffID   types.NullableID    `json:"staffId"`
	RentStart *time.Time          `json:"rentStart"`
	RentEnd   *time.Time          `json:"rentEnd"`
	Status    *enums.RentalStatus `json:"status" validate:"omitempty,enum"`
}

type ListFilter struct {
	UserID    *uint
	ProductID *uint
	Status    *enums.RentalStatus
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, req CreateRentalRequest) (*models.Rental, error)
	Get(ctx context.Context, actor access.Actor, id uint) (*models.Rental, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter, params pagination.Params) (*repo.Page[models.Rental], error)
	Update(ctx context.Context, id uint, req UpdateRentalRequest) (*models.Rental, error)
	Delete(ctx context.Context, actor access.Actor, id uint) error
}

type service struct {
	store repo.Store[models.Rental]
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &service{store: repo.NewStore[models.Rental](db, "rental", func(r *models.Rental) uint { return r.ID })}, nil
}

// Create books a rental. Customers always rent for themselves; staff may
// book on behalf of a user.
func (s *service) Create(ctx context.Context, actor access.Actor, req CreateRentalRequest) (*models.Rental, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	userID := req.UserID
	if !actor.IsStaff() || userID == 0 {
		userID = actor.UserID
	}
	if err := validateWindow(req.RentStart, req.RentEnd); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = enums.RentalStatusPending
	}
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", status)
	}

	rental := &models.Rental{
		UserID:    userID,
		ProductID: req.ProductID,
		StaffID:   req.StaffID,
		RentStart: req.RentStart.UTC(),
		RentEnd:   req.RentEnd.UTC(),
		Status:    status,
	}
	if err := s.store.Create(ctx, rental); err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id uint) (*models.Rental, error) {
	rental, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Check(rental.UserID, "rental"); err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, f ListFilter, params pagination.Params) (*repo.Page[models.Rental], error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if scope := actor.Scope(); scope != nil {
		f.UserID = scope
	}
	filter := repo.Filter{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.ProductID != nil {
		filter["product_id"] = *f.ProductID
	}
	if f.Status != nil {
		if !f.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *f.Status)
		}
		filter["status"] = *f.Status
	}
	return s.store.List(ctx, filter, params)
}

// Update re-checks the rent window against the stored values when only one
// bound changes.
func (s *service) Update(ctx context.Context, id uint, req UpdateRentalRequest) (*models.Rental, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	start, end := existing.RentStart, existing.RentEnd
	if req.RentStart != nil {
		start = req.RentStart.UTC()
		fields["rent_start"] = start
	}
	if req.RentEnd != nil {
		end = req.RentEnd.UTC()
		fields["rent_end"] = end
	}
	if req.RentStart != nil || req.RentEnd != nil {
		if err := validateWindow(start, end); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *req.Status)
		}
		fields["status"] = *req.Status
	}
	if req.StaffID.Valid {
		fields["staff_id"] = req.StaffID.Column()
	}
	return s.store.Update(ctx, id, fields)
}

// Delete removes a rental and, through the cascade, its fines. Customers may
// only remove their own.
func (s *service) Delete(ctx context.Context, actor access.Actor, id uint) error {
	rental, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.Check(rental.UserID, "rental"); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "rentStart and rentEnd are required")
	}
	if !end.After(start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "rentEnd must be after rentStart")
	}
	return nil
}
