package products

import (
	"context"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists catalog products.
type Repository struct {
	repo.Store[models.Product]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Store: repo.NewStore[models.Product](db, "product", func(p *models.Product) uint { return p.ID })}
}

func (r *Repository) Search(ctx context.Context, q SearchQuery, params pagination.Params) (*repo.Page[models.Product], error) {
	return r.ListWhere(ctx, func(db *gorm.DB) *gorm.DB {
		if q.Name != nil && strings.TrimSpace(*q.Name) != "" {
			db = db.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(*q.Name))
		}
		if q.Description != nil && strings.TrimSpace(*q.Description) != "" {
			db = db.Where("LOWER(description) LIKE ? ESCAPE '\\'", likePattern(*q.Description))
		}
		if q.Price != nil {
			db = db.Where("price = ?", *q.Price)
		}
		if q.Category != nil {
			db = db.Where("category = ?", *q.Category)
		}
		return db
	}, params)
}

func (r *Repository) ListFiltered(ctx context.Context, f ListFilter, params pagination.Params) (*repo.Page[models.Product], error) {
	filter := repo.Filter{}
	if f.Category != nil {
		filter["category"] = *f.Category
	}
	if f.SupplierID != nil {
		filter["supplier_id"] = *f.SupplierID
	}
	return r.List(ctx, filter, params)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}
