// Package reports stores staff reports with free-form JSON content and
// computes sales and inventory summaries on demand.
package reports

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
	"github.com/riderhub/riderhub-backend/pkg/jsonfield"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, actor access.Actor, req CreateReportRequest) (*Report, error)
	Generate(ctx context.Context, actor access.Actor, req GenerateRequest) (*Report, error)
	Get(ctx context.Context, id uint) (*Report, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*ReportPage, error)
	Update(ctx context.Context, id uint, req UpdateReportRequest) (*Report, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	db    *gorm.DB
	store repo.Store[models.Report]
	now   func() time.Time
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &service{
		db:    db,
		store: repo.NewStore[models.Report](db, "report", func(r *models.Report) uint { return r.ID }),
		now:   time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, actor access.Actor, req CreateReportRequest) (*Report, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !req.Type.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid report type %q", req.Type)
	}
	return s.persist(ctx, actor.UserID, title, req.Type, req.Content)
}

// Generate computes a summary for sales or inventory and stores it as a new
// report owned by the caller.
func (s *service) Generate(ctx context.Context, actor access.Actor, req GenerateRequest) (*Report, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if req.From != nil && req.To != nil && !req.To.After(*req.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from")
	}

	var (
		content any
		err     error
	)
	switch req.Type {
	case enums.ReportTypeSales:
		content, err = salesSummary(ctx, s.db, req.From, req.To)
	case enums.ReportTypeInventory:
		content, err = inventorySummary(ctx, s.db, req.From, req.To)
	default:
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "cannot generate %q reports", req.Type).
			WithDetails(map[string]any{"supported": []enums.ReportType{enums.ReportTypeSales, enums.ReportTypeInventory}})
	}
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = fmt.Sprintf("%s summary %s", req.Type, s.now().UTC().Format("2006-01-02"))
	}
	return s.persist(ctx, actor.UserID, title, req.Type, content)
}

func (s *service) persist(ctx context.Context, userID uint, title string, typ enums.ReportType, content any) (*Report, error) {
	text, err := jsonfield.Stringify(content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "content is not serializable")
	}
	report := &models.Report{UserID: userID, Title: title, Type: typ, Content: text}
	if err := s.store.Create(ctx, report); err != nil {
		return nil, err
	}
	return toView(report), nil
}

func (s *service) Get(ctx context.Context, id uint) (*Report, error) {
	report, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toView(report), nil
}

func (s *service) List(ctx context.Context, f ListFilter, params pagination.Params) (*ReportPage, error) {
	filter := repo.Filter{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.Type != nil {
		if !f.Type.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid report type %q", *f.Type)
		}
		filter["type"] = *f.Type
	}
	page, err := s.store.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	out := &ReportPage{Items: make([]Report, 0, len(page.Items)), NextCursor: page.NextCursor}
	for i := range page.Items {
		out.Items = append(out.Items, *toView(&page.Items[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateReportRequest) (*Report, error) {
	fields := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		fields["title"] = title
	}
	if req.Type != nil {
		if !req.Type.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid report type %q", *req.Type)
		}
		fields["type"] = *req.Type
	}
	if req.Content != nil {
		text, err := jsonfield.Stringify(req.Content)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "content is not serializable")
		}
		fields["content"] = text
	}
	report, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return toView(report), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.store.Delete(ctx, id)
}
