package repo

import (
	"context"

	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Filter restricts list queries by column equality.
type Filter map[string]any

// Page is one slice of a keyset-paginated list.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// Store is the typed CRUD repository shared by every entity. T must be a GORM
// model with a uint primary key column named id.
type Store[T any] struct {
	conn   *gorm.DB
	entity string
	idOf   func(*T) uint
}

// NewStore builds a store. entity names the resource in error messages; idOf
// reads the primary key for cursor construction.
func NewStore[T any](db *gorm.DB, entity string, idOf func(*T) uint) Store[T] {
	return Store[T]{conn: db, entity: entity, idOf: idOf}
}

// WithTx rebinds the store to a transaction handle.
func (s Store[T]) WithTx(tx *gorm.DB) Store[T] {
	if tx == nil {
		return s
	}
	s.conn = tx
	return s
}

// DB returns the handle scoped to ctx.
func (s Store[T]) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return s.conn
	}
	return s.conn.WithContext(ctx)
}

func (s Store[T]) Entity() string { return s.entity }

func (s Store[T]) Create(ctx context.Context, m *T) error {
	return MapError(s.DB(ctx).Create(m).Error, s.entity)
}

func (s Store[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var m T
	if err := s.DB(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, MapError(err, s.entity)
	}
	return &m, nil
}

// Exists reports whether a row with the id is present.
func (s Store[T]) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.DB(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, MapError(err, s.entity)
	}
	return count > 0, nil
}

// Update applies column changes to one row and returns the refreshed row.
// An empty change set only verifies the row exists.
func (s Store[T]) Update(ctx context.Context, id uint, fields map[string]any) (*T, error) {
	if len(fields) > 0 {
		res := s.DB(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, MapError(res.Error, s.entity)
		}
		if res.RowsAffected == 0 {
			return nil, NotFound(s.entity)
		}
	}
	return s.FindByID(ctx, id)
}

// Delete removes one row; referential actions run in the database.
func (s Store[T]) Delete(ctx context.Context, id uint) error {
	res := s.DB(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return MapError(res.Error, s.entity)
	}
	if res.RowsAffected == 0 {
		return NotFound(s.entity)
	}
	return nil
}

// List returns rows matching filter, newest first.
func (s Store[T]) List(ctx context.Context, filter Filter, params pagination.Params) (*Page[T], error) {
	return s.ListWhere(ctx, func(q *gorm.DB) *gorm.DB {
		if len(filter) == 0 {
			return q
		}
		return q.Where(map[string]any(filter))
	}, params)
}

// ListWhere is List with an arbitrary query scope.
func (s Store[T]) ListWhere(ctx context.Context, scope func(*gorm.DB) *gorm.DB, params pagination.Params) (*Page[T], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	q := s.DB(ctx).Model(new(T))
	if scope != nil {
		q = scope(q)
	}
	if cursor != nil {
		q = q.Where("id < ?", cursor.ID)
	}

	var rows []T
	if err := q.Order("id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&rows).Error; err != nil {
		return nil, MapError(err, s.entity)
	}

	page := &Page[T]{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		if s.idOf != nil {
			page.NextCursor = pagination.EncodeCursor(pagination.Cursor{ID: s.idOf(&page.Items[limit-1])})
		}
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
