package orders

import (
	"context"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"gorm.io/gorm"
)

type Repository struct {
	orders repo.Store[models.Order]
	items  repo.Store[models.OrderItem]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		orders: repo.NewStore[models.Order](db, "order", func(o *models.Order) uint { return o.ID }),
		items:  repo.NewStore[models.OrderItem](db, "order item", func(i *models.OrderItem) uint { return i.ID }),
	}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{orders: r.orders.WithTx(tx), items: r.items.WithTx(tx)}
}

func (r *Repository) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if err := r.orders.Create(ctx, order); err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
		if err := r.items.Create(ctx, &items[i]); err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.orders.DB(ctx).Preload("UserAddress").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, repo.MapError(err, "order")
	}
	items, err := r.Items(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *Repository) Items(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.items.DB(ctx).Preload("Product").Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error
	if err != nil {
		return nil, repo.MapError(err, "order item")
	}
	if items == nil {
		items = []models.OrderItem{}
	}
	return items, nil
}

func (r *Repository) List(ctx context.Context, f ListFilter, params pagination.Params) (*repo.Page[models.Order], error) {
	filter := repo.Filter{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	if f.OrderStatus != nil {
		filter["order_status"] = *f.OrderStatus
	}
	if f.PaymentStatus != nil {
		filter["payment_status"] = *f.PaymentStatus
	}
	return r.orders.List(ctx, filter, params)
}

func (r *Repository) Update(ctx context.Context, id uint, fields map[string]any) error {
	_, err := r.orders.Update(ctx, id, fields)
	return err
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.orders.Delete(ctx, id)
}

// Products loads the products referenced by an order request.
func (r *Repository) Products(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var products []models.Product
	if err := r.orders.DB(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, repo.MapError(err, "product")
	}
	out := make(map[uint]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *Repository) Cart(ctx context.Context, id uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.orders.DB(ctx).Where("id = ?", id).First(&cart).Error; err != nil {
		return nil, repo.MapError(err, "cart")
	}
	return &cart, nil
}

func (r *Repository) CartItems(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.orders.DB(ctx).Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, repo.MapError(err, "cart item")
	}
	return items, nil
}

func (r *Repository) ClearCart(ctx context.Context, cartID uint) error {
	return repo.MapError(r.orders.DB(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error, "cart item")
}

func (r *Repository) Address(ctx context.Context, id uint) (*models.UserAddress, error) {
	var addr models.UserAddress
	if err := r.orders.DB(ctx).Where("id = ?", id).First(&addr).Error; err != nil {
		return nil, repo.MapError(err, "address")
	}
	return &addr, nil
}

func (r *Repository) User(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.orders.DB(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, repo.MapError(err, "user")
	}
	return &user, nil
}
