package bookings

import (
	"context"
	"fmt"
	"strings"
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

type CreateBookingRequest struct {
	ServiceID   uint       `json:"serviceId" validate:"required"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Notes       string     `json:"notes"`
}

type UpdateBookingRequest struct {
	AssignedTo  types.NullableID     `json:"assignedTo"`
	ScheduledAt *time.Time           `json:"scheduledAt"`
	Notes       *string              `json:"notes"`
	Status      *enums.BookingStatus `json:"status" validate:"omitempty,enum"`
}

type ListFilter struct {
	UserID     *uint
	ServiceID  *uint
	AssignedTo *uint
	Status     *enums.BookingStatus
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, req CreateBookingRequest) (*models.Booking, error)
	Get(ctx context.Context, actor access.Actor, id uint) (*models.Booking, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter, params pagination.Params) (*repo.Page[models.Booking], error)
	Update(ctx context.Context, id uint, req UpdateBookingRequest) (*models.Booking, error)
	Delete(ctx context.Context, actor access.Actor, id uint) error
}

type service struct {
	store repo.Store[models.Booking]
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &service{store: repo.NewStore[models.Booking](db, "booking", func(b *models.Booking) uint { return b.ID })}, nil
}

// Create books a workshop service for the calling user. Bookings always
// start pending and unassigned.
func (s *service) Create(ctx context.Context, actor access.Actor, req CreateBookingRequest) (*models.Booking, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if req.ServiceID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "serviceId is required")
	}
	booking := &models.Booking{
		ServiceID: req.ServiceID,
		UserID:    actor.UserID,
		Notes:     strings.TrimSpace(req.Notes),
		Status:    enums.BookingStatusPending,
	}
	if req.ScheduledAt != nil {
		at := req.ScheduledAt.UTC()
		booking.ScheduledAt = &at
	}
	if err := s.store.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id uint) (*models.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Check(booking.UserID, "booking"); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) find(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.store.DB(ctx).Preload("Service").First(&booking, id).Error
	if err != nil {
		return nil, repo.MapError(err, "booking")
	}
	return &booking, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, f ListFilter, params pagination.Params) (*repo.Page[models.Booking], error) {
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
	if f.ServiceID != nil {
		filter["service_id"] = *f.ServiceID
	}
	if f.AssignedTo != nil {
		filter["assigned_to"] = *f.AssignedTo
	}
	if f.Status != nil {
		if !f.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *f.Status)
		}
		filter["status"] = *f.Status
	}
	return s.store.List(ctx, filter, params)
}

// Update is a staff operation. Assignment accepts any existing user.
func (s *service) Update(ctx context.Context, id uint, req UpdateBookingRequest) (*models.Booking, error) {
	fields := map[string]any{}
	if req.AssignedTo.Valid {
		fields["assigned_to"] = req.AssignedTo.Column()
	}
	if req.ScheduledAt != nil {
		fields["scheduled_at"] = req.ScheduledAt.UTC()
	}
	if req.Notes != nil {
		fields["notes"] = strings.TrimSpace(*req.Notes)
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *req.Status)
		}
		fields["status"] = *req.Status
	}
	if _, err := s.store.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// Delete lets customers cancel their own bookings outright.
func (s *service) Delete(ctx context.Context, actor access.Actor, id uint) error {
	booking, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.Check(booking.UserID, "booking"); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
