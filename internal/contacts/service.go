package contacts

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

type CreateContactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

type UpdateContactRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
	Message *string `json:"message" validate:"omitempty,min=1,max=5000"`
}

// Service handles contact form submissions. Create is public; everything
// else is for staff.
type Service interface {
	Create(ctx context.Context, req CreateContactRequest) (*models.Contact, error)
	Get(ctx context.Context, id uint) (*models.Contact, error)
	List(ctx context.Context, email string, params pagination.Params) (*repo.Page[models.Contact], error)
	Update(ctx context.Context, id uint, req UpdateContactRequest) (*models.Contact, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	store repo.Store[models.Contact]
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &service{store: repo.NewStore[models.Contact](db, "contact", func(c *models.Contact) uint { return c.ID })}, nil
}

func (s *service) Create(ctx context.Context, req CreateContactRequest) (*models.Contact, error) {
	contact := &models.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Message: strings.TrimSpace(req.Message),
	}
	if contact.Name == "" || contact.Message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and message are required")
	}
	if err := checkEmail(contact.Email); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Contact, error) {
	return s.store.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, email string, params pagination.Params) (*repo.Page[models.Contact], error) {
	filter := repo.Filter{}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		filter["email"] = email
	}
	return s.store.List(ctx, filter, params)
}

func (s *service) Update(ctx context.Context, id uint, req UpdateContactRequest) (*models.Contact, error) {
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := checkEmail(email); err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if req.Message != nil {
		msg := strings.TrimSpace(*req.Message)
		if msg == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "message cannot be empty")
		}
		fields["message"] = msg
	}
	return s.store.Update(ctx, id, fields)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.store.Delete(ctx, id)
}

func checkEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	return nil
}
