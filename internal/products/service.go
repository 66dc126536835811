package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
	"github.com/riderhub/riderhub-backend/pkg/metrics"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/storage"
	"go.uber.org/multierr"
)

// Service manages the catalog and keeps product rows and stored images in
// step: an image is never left behind by a failed write.
type Service interface {
	Create(ctx context.Context, in CreateProductInput) (*models.Product, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*repo.Page[models.Product], error)
	Search(ctx context.Context, q SearchQuery, params pagination.Params) (*repo.Page[models.Product], error)
	Update(ctx context.Context, id uint, in UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
}

type ServiceParams struct {
	Repo    *Repository
	Images  storage.ImageStore
	Metrics *metrics.ImageMetrics
	Logger  *logger.Logger
}

type service struct {
	repo    *Repository
	images  storage.ImageStore
	metrics *metrics.ImageMetrics
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Images == nil {
		return nil, fmt.Errorf("image store is required")
	}
	return &service{
		repo:    params.Repo,
		images:  params.Images,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if in.SupplierID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	asset, err := s.upload(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	supplierID := in.SupplierID
	product := &models.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		Category:      in.Category,
		StockQuantity: in.StockQuantity,
		ImageURL:      asset.URL,
		ImagePublicID: asset.PublicID,
		SupplierID:    &supplierID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.discard(ctx, "create", asset.PublicID, err)
	}
	return product, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*repo.Page[models.Product], error) {
	if filter.Category != nil && !filter.Category.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", *filter.Category)
	}
	return s.repo.ListFiltered(ctx, filter, params)
}

func (s *service) Search(ctx context.Context, q SearchQuery, params pagination.Params) (*repo.Page[models.Product], error) {
	if q.Category != nil && !q.Category.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", *q.Category)
	}
	return s.repo.Search(ctx, q, params)
}

// Update uploads a replacement image first, writes the row, then removes the
// previous image. A failed row write removes the new image instead.
func (s *service) Update(ctx context.Context, id uint, in UpdateProductInput) (*models.Product, error) {
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var asset *storage.Asset
	if in.Image != nil {
		if asset, err = s.upload(ctx, in.Image); err != nil {
			return nil, err
		}
		fields["image_url"] = asset.URL
		fields["cloudinary_id"] = asset.PublicID
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if asset != nil {
			return nil, s.discard(ctx, "update", asset.PublicID, err)
		}
		return nil, err
	}

	if asset != nil && existing.ImagePublicID != "" {
		s.removeBestEffort(ctx, existing.ImagePublicID)
	}
	return updated, nil
}

// Delete removes the stored image best effort and then the row; dependent
// rows go with it through the foreign key actions.
func (s *service) Delete(ctx context.Context, id uint) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.ImagePublicID != "" {
		s.removeBestEffort(ctx, existing.ImagePublicID)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) upload(ctx context.Context, img *ImageUpload) (*storage.Asset, error) {
	if img == nil || img.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}
	asset, err := s.images.Upload(ctx, img.Filename, img.Body)
	s.metrics.Record("upload", err)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "image upload failed")
	}
	return asset, nil
}

// discard deletes an image whose product write failed. Both failures are
// reported when the delete fails too.
func (s *service) discard(ctx context.Context, op, publicID string, cause error) error {
	s.metrics.IncCompensation(op)
	err := s.images.Delete(ctx, publicID)
	s.metrics.Record("delete", err)
	if err == nil {
		return cause
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"public_id": publicID, "op": op})
		s.logg.Error(logCtx, "product.image.orphaned", err)
	}
	return multierr.Combine(cause, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "remove uploaded image"))
}

func (s *service) removeBestEffort(ctx context.Context, publicID string) {
	err := s.images.Delete(ctx, publicID)
	s.metrics.Record("delete", err)
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"public_id": publicID,
			"error":     err.Error(),
		}), "product.image.delete_failed")
	}
}
