package fines

import (
	"context"
	"fmt"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/access"
	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type CreateFineRequest struct {
	RentalID uint        `json:"rentalId" validate:"required"`
	Amount   types.Money `json:"amount"`
	Reason   string      `json:"reason" validate:"max=2000"`
}

type UpdateFineRequest struct {
	Amount *types.Money `json:"amount"`
	Reason *string      `json:"reason" validate:"omitempty,max=2000"`
}

type ListFilter struct {
	UserID   *uint
	RentalID *uint
}

// Service issues fines against rentals. A fine and the rental pointing at it
// are always written together.
type Service interface {
	Create(ctx context.Context, req CreateFineRequest) (*models.Fine, error)
	Get(ctx context.Context, actor access.Actor, id uint) (*models.Fine, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter, params pagination.Params) (*repo.Page[models.Fine], error)
	Update(ctx context.Context, id uint, req UpdateFineRequest) (*models.Fine, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	db *gorm.DB
	tx txRunner
}

func NewService(db *gorm.DB, tx txRunner) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{db: db, tx: tx}, nil
}

func fineStore(db *gorm.DB) repo.Store[models.Fine] {
	return repo.NewStore[models.Fine](db, "fine", func(f *models.Fine) uint { return f.ID })
}

func rentalStore(db *gorm.DB) repo.Store[models.Rental] {
	return repo.NewStore[models.Rental](db, "rental", func(r *models.Rental) uint { return r.ID })
}

// Create charges the renter and points the rental at the new fine.
func (s *service) Create(ctx context.Context, req CreateFineRequest) (*models.Fine, error) {
	if req.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}

	var fine *models.Fine
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rental, err := rentalStore(tx).FindByID(ctx, req.RentalID)
		if err != nil {
			return err
		}
		fine = &models.Fine{
			UserID:   rental.UserID,
			RentalID: rental.ID,
			Amount:   req.Amount,
			Reason:   strings.TrimSpace(req.Reason),
		}
		if err := fineStore(tx).Create(ctx, fine); err != nil {
			return err
		}
		_, err = rentalStore(tx).Update(ctx, rental.ID, map[string]any{"fine_id": fine.ID})
		return err
	})
	if err != nil {
		return nil, err
	}
	return fine, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id uint) (*models.Fine, error) {
	fine, err := fineStore(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Check(fine.UserID, "fine"); err != nil {
		return nil, err
	}
	return fine, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, f ListFilter, params pagination.Params) (*repo.Page[models.Fine], error) {
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
	if f.RentalID != nil {
		filter["rental_id"] = *f.RentalID
	}
	return fineStore(s.db).List(ctx, filter, params)
}

func (s *service) Update(ctx context.Context, id uint, req UpdateFineRequest) (*models.Fine, error) {
	fields := map[string]any{}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
		}
		fields["amount"] = *req.Amount
	}
	if req.Reason != nil {
		fields["reason"] = strings.TrimSpace(*req.Reason)
	}
	return fineStore(s.db).Update(ctx, id, fields)
}

// Delete clears rentals.fine_id explicitly before removing the fine so the
// outcome matches the ON DELETE SET NULL rule on every backend.
func (s *service) Delete(ctx context.Context, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := fineStore(tx).FindByID(ctx, id); err != nil {
			return err
		}
		err := tx.WithContext(ctx).Model(&models.Rental{}).Where("fine_id = ?", id).Update("fine_id", nil).Error
		if err != nil {
			return repo.MapError(err, "rental")
		}
		return fineStore(tx).Delete(ctx, id)
	})
}
