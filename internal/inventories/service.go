// Package inventories records stock movements. Entries are an audit trail
// only and never touch products.stock_quantity.
package inventories

import (
	"context"
	"fmt"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"gorm.io/gorm"
)

type CreateEntryRequest struct {
	ProductID  uint                      `json:"productId" validate:"required"`
	OrderID    *uint                     `json:"orderId"`
	Quantity   int                       `json:"quantity"`
	ChangeType enums.InventoryChangeType `json:"changeType" validate:"required,enum"`
	Reason     string                    `json:"reason"`
}

type UpdateEntryRequest struct {
	OrderID    types.NullableID           `json:"orderId"`
	Quantity   *int                       `json:"quantity"`
	ChangeType *enums.InventoryChangeType `json:"changeType" validate:"omitempty,enum"`
	Reason     *string                    `json:"reason"`
}

type ListFilter struct {
	ProductID  *uint
	OrderID    *uint
	ChangeType *enums.InventoryChangeType
}

type Service interface {
	Create(ctx context.Context, req CreateEntryRequest) (*models.Inventory, error)
	Get(ctx context.Context, id uint) (*models.Inventory, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*repo.Page[models.Inventory], error)
	Update(ctx context.Context, id uint, req UpdateEntryRequest) (*models.Inventory, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	store repo.Store[models.Inventory]
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &service{store: repo.NewStore[models.Inventory](db, "inventory", func(i *models.Inventory) uint { return i.ID })}, nil
}

func (s *service) Create(ctx context.Context, req CreateEntryRequest) (*models.Inventory, error) {
	if req.ProductID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	if err := validateMovement(req.ChangeType, req.Quantity); err != nil {
		return nil, err
	}
	entry := &models.Inventory{
		ProductID:  req.ProductID,
		OrderID:    req.OrderID,
		Quantity:   req.Quantity,
		ChangeType: req.ChangeType,
		Reason:     strings.TrimSpace(req.Reason),
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Inventory, error) {
	return s.store.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter, params pagination.Params) (*repo.Page[models.Inventory], error) {
	filter := repo.Filter{}
	if f.ProductID != nil {
		filter["product_id"] = *f.ProductID
	}
	if f.OrderID != nil {
		filter["order_id"] = *f.OrderID
	}
	if f.ChangeType != nil {
		if !f.ChangeType.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid changeType %q", *f.ChangeType)
		}
		filter["change_type"] = *f.ChangeType
	}
	return s.store.List(ctx, filter, params)
}

func (s *service) Update(ctx context.Context, id uint, req UpdateEntryRequest) (*models.Inventory, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	changeType, quantity := existing.ChangeType, existing.Quantity
	if req.ChangeType != nil {
		changeType = *req.ChangeType
		fields["change_type"] = changeType
	}
	if req.Quantity != nil {
		quantity = *req.Quantity
		fields["quantity"] = quantity
	}
	if req.ChangeType != nil || req.Quantity != nil {
		if err := validateMovement(changeType, quantity); err != nil {
			return nil, err
		}
	}
	if req.OrderID.Valid {
		fields["order_id"] = req.OrderID.Column()
	}
	if req.Reason != nil {
		fields["reason"] = strings.TrimSpace(*req.Reason)
	}
	return s.store.Update(ctx, id, fields)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.store.Delete(ctx, id)
}

// Add and remove carry a positive magnitude; adjust may be signed.
func validateMovement(changeType enums.InventoryChangeType, quantity int) error {
	if !changeType.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid changeType %q", changeType)
	}
	if quantity == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be zero")
	}
	if changeType != enums.InventoryChangeAdjust && quantity < 0 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be positive for %s", changeType)
	}
	return nil
}
