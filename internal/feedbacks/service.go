package feedbacks

import (
	"context"
	"fmt"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/access"
	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

type CreateFeedbackRequest struct {
	ProductID uint   `json:"productId" validate:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment" validate:"max=2000"`
}

type UpdateFeedbackRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type ListFilter struct {
	UserID    *uint
	ProductID *uint
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, req CreateFeedbackRequest) (*models.Feedback, error)
	Get(ctx context.Context, id uint) (*models.Feedback, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*repo.Page[models.Feedback], error)
	Update(ctx context.Context, actor access.Actor, id uint, req UpdateFeedbackRequest) (*models.Feedback, error)
	Delete(ctx context.Context, actor access.Actor, id uint) error
}

type service struct {
	store repo.Store[models.Feedback]
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &service{store: repo.NewStore[models.Feedback](db, "feedback", func(f *models.Feedback) uint { return f.ID })}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, req CreateFeedbackRequest) (*models.Feedback, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}
	feedback := &models.Feedback{
		UserID:    actor.UserID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}
	if err := s.store.Create(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// Get and List are public; reviews are shown on product pages.
func (s *service) Get(ctx context.Context, id uint) (*models.Feedback, error) {
	return s.store.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter, params pagination.Params) (*repo.Page[models.Feedback], error) {
	filter := repo.Filter{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.ProductID != nil {
		filter["product_id"] = *f.ProductID
	}
	return s.store.List(ctx, filter, params)
}

func (s *service) Update(ctx context.Context, actor access.Actor, id uint, req UpdateFeedbackRequest) (*models.Feedback, error) {
	if err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return nil, err
		}
		fields["rating"] = *req.Rating
	}
	if req.Comment != nil {
		fields["comment"] = strings.TrimSpace(*req.Comment)
	}
	return s.store.Update(ctx, id, fields)
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *service) authorize(ctx context.Context, actor access.Actor, id uint) error {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return actor.Check(existing.UserID, "feedback")
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "rating must be between %d and %d", MinRating, MaxRating).
			WithDetails(map[string]any{"rating": rating})
	}
	return nil
}
