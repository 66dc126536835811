package cart

import (
	"context"
	"fmt"

	"github.com/riderhub/riderhub-backend/pkg/db/models"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type AddItemRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"omitempty,min=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// Service manages the caller's shopping cart.
type Service interface {
	Get(ctx context.Context, userID uint) (*models.Cart, error)
	AddItem(ctx context.Context, userID uint, req AddItemRequest) (*models.Cart, error)
	UpdateItem(ctx context.Context, userID, itemID uint, req UpdateItemRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uint) (*models.Cart, error)
	Clear(ctx context.Context, userID uint) (*models.Cart, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

func NewService(r *Repository, tx txRunner) (Service, error) {
	if r == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: r, tx: tx}, nil
}

// Get returns the caller's cart, creating an empty one on first use.
func (s *service) Get(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		cart, err = s.ensureCart(ctx, s.repo.WithTx(tx), userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, cart)
}

// AddItem merges quantities when the product is already in the cart.
func (s *service) AddItem(ctx context.Context, userID uint, req AddItemRequest) (*models.Cart, error) {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if req.ProductID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}

	var cart *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		ok, err := r.ProductExists(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}

		if cart, err = s.ensureCart(ctx, r, userID); err != nil {
			return err
		}

		existing, err := r.FindItemByProduct(ctx, cart.ID, req.ProductID)
		switch {
		case err == nil:
			return r.SetItemQuantity(ctx, existing.ID, existing.Quantity+qty)
		case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
			return r.CreateItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: req.ProductID, Quantity: qty})
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, cart)
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID uint, req UpdateItemRequest) (*models.Cart, error) {
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	cart, err := s.ownedCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.SetItemQuantity(ctx, itemID, req.Quantity); err != nil {
		return nil, err
	}
	return s.load(ctx, cart)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uint) (*models.Cart, error) {
	cart, err := s.ownedCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.load(ctx, cart)
}

func (s *service) Clear(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.ownedCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.load(ctx, cart)
}

func (s *service) ensureCart(ctx context.Context, r *Repository, userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	cart, err := r.LatestForUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}
	cart = &models.Cart{UserID: userID}
	if err := r.CreateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) ownedCart(ctx context.Context, userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return s.repo.LatestForUser(ctx, userID)
}

func (s *service) load(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	items, err := s.repo.Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}
