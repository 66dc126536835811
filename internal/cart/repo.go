package cart

import (
	"context"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository bundles the cart and cart item stores.
type Repository struct {
	carts repo.Store[models.Cart]
	items repo.Store[models.CartItem]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		carts: repo.NewStore[models.Cart](db, "cart", func(c *models.Cart) uint { return c.ID }),
		items: repo.NewStore[models.CartItem](db, "cart item", func(i *models.CartItem) uint { return i.ID }),
	}
}

// WithTx rebinds both stores to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{carts: r.carts.WithTx(tx), items: r.items.WithTx(tx)}
}

// LatestForUser returns the newest cart owned by userID. Several carts per
// user may exist; the newest is the active one.
func (r *Repository) LatestForUser(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.carts.DB(ctx).Where("user_id = ?", userID).Order("id DESC").First(&cart).Error
	if err != nil {
		return nil, repo.MapError(err, "cart")
	}
	return &cart, nil
}

func (r *Repository) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.carts.Create(ctx, cart)
}

func (r *Repository) FindCart(ctx context.Context, id uint) (*models.Cart, error) {
	return r.carts.FindByID(ctx, id)
}

// Items loads a cart's lines with their products, oldest first.
func (r *Repository) Items(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.items.DB(ctx).Preload("Product").Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error
	if err != nil {
		return nil, repo.MapError(err, "cart item")
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

func (r *Repository) FindItemByProduct(ctx context.Context, cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.items.DB(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		return nil, repo.MapError(err, "cart item")
	}
	return &item, nil
}

func (r *Repository) FindItem(ctx context.Context, cartID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.items.DB(ctx).Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error
	if err != nil {
		return nil, repo.MapError(err, "cart item")
	}
	return &item, nil
}

func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.items.Create(ctx, item)
}

func (r *Repository) SetItemQuantity(ctx context.Context, itemID uint, qty int) error {
	_, err := r.items.Update(ctx, itemID, map[string]any{"quantity": qty})
	return err
}

func (r *Repository) DeleteItem(ctx context.Context, itemID uint) error {
	return r.items.Delete(ctx, itemID)
}

func (r *Repository) ClearItems(ctx context.Context, cartID uint) error {
	err := r.items.DB(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	return repo.MapError(err, "cart item")
}

func (r *Repository) ProductExists(ctx context.Context, productID uint) (bool, error) {
	var count int64
	err := r.items.DB(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error
	if err != nil {
		return false, repo.MapError(err, "product")
	}
	return count > 0, nil
}
