package dispatches

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
	"gorm.io/gorm"
)

type CreateDispatchRequest struct {
	DriverID     uint                  `json:"driverId" validate:"required"`
	OrderID      uint                  `json:"orderId" validate:"required"`
	Status       *enums.DispatchStatus `json:"status" validate:"omitempty,enum"`
	DeliveryDate *time.Time            `json:"deliveryDate"`
}

type UpdateDispatchRequest struct {
	DriverID     *uint                 `json:"driverId"`
	Status       *enums.DispatchStatus `json:"status" validate:"omitempty,enum"`
	DeliveryDate *time.Time            `json:"deliveryDate"`
}

type ListFilter struct {
	DriverID *uint
	OrderID  *uint
	Status   *enums.DispatchStatus
}

type Service interface {
	Create(ctx context.Context, req CreateDispatchRequest) (*models.Dispatch, error)
	Get(ctx context.Context, actor access.Actor, id uint) (*models.Dispatch, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter, params pagination.Params) (*repo.Page[models.Dispatch], error)
	Update(ctx context.Context, actor access.Actor, id uint, req UpdateDispatchRequest) (*models.Dispatch, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	store repo.Store[models.Dispatch]
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &service{store: repo.NewStore[models.Dispatch](db, "dispatch", func(d *models.Dispatch) uint { return d.ID })}, nil
}

func (s *service) Create(ctx context.Context, req CreateDispatchRequest) (*models.Dispatch, error) {
	if req.DriverID == 0 || req.OrderID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driverId and orderId are required")
	}
	status := enums.DispatchStatusAssigned
	if req.Status != nil {
		status = *req.Status
	}
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", status)
	}
	dispatch := &models.Dispatch{
		DriverID:     req.DriverID,
		OrderID:      req.OrderID,
		Status:       status,
		DeliveryDate: utc(req.DeliveryDate),
	}
	if err := s.store.Create(ctx, dispatch); err != nil {
		return nil, err
	}
	return dispatch, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id uint) (*models.Dispatch, error) {
	dispatch, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDriver(actor, dispatch); err != nil {
		return nil, err
	}
	return dispatch, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, f ListFilter, params pagination.Params) (*repo.Page[models.Dispatch], error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if actor.UserType == enums.UserTypeDriver {
		id := actor.UserID
		f.DriverID = &id
	}
	filter := repo.Filter{}
	if f.DriverID != nil {
		filter["driver_id"] = *f.DriverID
	}
	if f.OrderID != nil {
		filter["order_id"] = *f.OrderID
	}
	if f.Status != nil {
		if !f.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *f.Status)
		}
		filter["status"] = *f.Status
	}
	return s.store.List(ctx, filter, params)
}

// Update lets drivers move their own dispatches along; reassignment is
// left to dispatch managers.
func (s *service) Update(ctx context.Context, actor access.Actor, id uint, req UpdateDispatchRequest) (*models.Dispatch, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDriver(actor, existing); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.DriverID != nil {
		if actor.UserType == enums.UserTypeDriver {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "drivers cannot reassign dispatches")
		}
		fields["driver_id"] = *req.DriverID
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *req.Status)
		}
		fields["status"] = *req.Status
	}
	if req.DeliveryDate != nil {
		fields["delivery_date"] = req.DeliveryDate.UTC()
	}
	return s.store.Update(ctx, id, fields)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.store.Delete(ctx, id)
}

func checkDriver(actor access.Actor, d *models.Dispatch) error {
	if err := actor.Require(); err != nil {
		return err
	}
	if actor.UserType == enums.UserTypeDriver && d.DriverID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "dispatch not found")
	}
	return nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
