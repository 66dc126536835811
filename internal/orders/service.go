package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riderhub/riderhub-backend/internal/access"
	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
	"github.com/riderhub/riderhub-backend/pkg/mail"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Notifier emails the customer about order changes.
type Notifier interface {
	SendOrderNotification(ctx context.Context, to string, n mail.OrderNotification) error
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, req CreateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, actor access.Actor, id uint) (*models.Order, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter, params pagination.Params) (*repo.Page[models.Order], error)
	Update(ctx context.Context, id uint, req UpdateOrderRequest) (*models.Order, error)
	Delete(ctx context.Context, actor access.Actor, id uint) error
}

type ServiceParams struct {
	Repo        *Repository
	Tx          txRunner
	Notifier    Notifier
	FrontendURL string
	Logger      *logger.Logger
}

type service struct {
	repo        *Repository
	tx          txRunner
	notifier    Notifier
	frontendURL string
	logg        *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		repo:        params.Repo,
		tx:          params.Tx,
		notifier:    params.Notifier,
		frontendURL: strings.TrimRight(params.FrontendURL, "/"),
		logg:        params.Logger,
	}, nil
}

// Create snapshots product prices into order items and derives the total
// from them, all in one transaction. Ordering from a cart empties it.
func (s *service) Create(ctx context.Context, actor access.Actor, req CreateOrderRequest) (*models.Order, error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	fromCart := req.CartID != nil
	if fromCart == (len(req.Items) > 0) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provide either items or cartId")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		lines := req.Items
		if fromCart {
			cart, err := r.Cart(ctx, *req.CartID)
			if err != nil {
				return err
			}
			if cart.UserID != actor.UserID {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			cartItems, err := r.CartItems(ctx, cart.ID)
			if err != nil {
				return err
			}
			if len(cartItems) == 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			lines = make([]OrderItemInput, 0, len(cartItems))
			for _, ci := range cartItems {
				lines = append(lines, OrderItemInput{ProductID: ci.ProductID, Quantity: ci.Quantity})
			}
		}

		if req.UserAddressID != nil {
			addr, err := r.Address(ctx, *req.UserAddressID)
			if err != nil {
				return err
			}
			if addr.UserID != actor.UserID {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
		}

		items, total, err := s.priceLines(ctx, r, lines)
		if err != nil {
			return err
		}

		order = &models.Order{
			UserID:        actor.UserID,
			CartID:        req.CartID,
			UserAddressID: req.UserAddressID,
			TotalPrice:    total,
			OrderStatus:   enums.OrderStatusPending,
			PaymentStatus: enums.OrderPaymentPending,
		}
		if err := r.Create(ctx, order, items); err != nil {
			return err
		}
		if fromCart {
			return r.ClearCart(ctx, *req.CartID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, order, "We have received your order and will let you know once it is on its way.")
	return order, nil
}

func (s *service) priceLines(ctx context.Context, r *Repository, lines []OrderItemInput) ([]models.OrderItem, types.Money, error) {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == 0 {
			return nil, types.Money{}, pkgerrors.New(pkgerrors.CodeValidation, "productId is required for every item")
		}
		if line.Quantity < 1 {
			return nil, types.Money{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		ids = append(ids, line.ProductID)
	}

	products, err := r.Products(ctx, ids)
	if err != nil {
		return nil, types.Money{}, err
	}

	var missing []string
	items := make([]models.OrderItem, 0, len(lines))
	total := types.MoneyFromInt(0)
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			missing = append(missing, fmt.Sprint(line.ProductID))
			continue
		}
		item := models.OrderItem{ProductID: product.ID, Quantity: line.Quantity, Price: product.Price}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, types.Money{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"productIds": missing})
	}
	if err := total.CheckRange(); err != nil {
		return nil, types.Money{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "order total is too large")
	}
	return items, total, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Check(order.UserID, "order"); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, filter ListFilter, params pagination.Params) (*repo.Page[models.Order], error) {
	if err := actor.Require(); err != nil {
		return nil, err
	}
	if scope := actor.Scope(); scope != nil {
		filter.UserID = scope
	}
	if filter.OrderStatus != nil && !filter.OrderStatus.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid orderStatus %q", *filter.OrderStatus)
	}
	if filter.PaymentStatus != nil && !filter.PaymentStatus.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid paymentStatus %q", *filter.PaymentStatus)
	}
	return s.repo.List(ctx, filter, params)
}

// Update sets statuses or the delivery address. Any declared status may be
// set; transitions are not policed.
func (s *service) Update(ctx context.Context, id uint, req UpdateOrderRequest) (*models.Order, error) {
	fields := map[string]any{}
	if req.OrderStatus != nil {
		if !req.OrderStatus.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid orderStatus %q", *req.OrderStatus)
		}
		fields["order_status"] = *req.OrderStatus
	}
	if req.PaymentStatus != nil {
		if !req.PaymentStatus.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid paymentStatus %q", *req.PaymentStatus)
		}
		fields["payment_status"] = *req.PaymentStatus
	}
	if req.UserAddressID.Valid {
		fields["user_address_id"] = req.UserAddressID.Column()
	}

	before, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.OrderStatus != before.OrderStatus {
		s.notify(ctx, order, fmt.Sprintf("Your order status is now %s.", order.OrderStatus))
	}
	return order, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uint) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.Check(order.UserID, "order"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) notify(ctx context.Context, order *models.Order, content string) {
	if s.notifier == nil {
		return
	}
	user, err := s.repo.User(ctx, order.UserID)
	if err == nil {
		err = s.notifier.SendOrderNotification(ctx, user.Email, mail.OrderNotification{
			Name:        user.Name,
			OrderNumber: fmt.Sprint(order.ID),
			OrderTotal:  order.TotalPrice.String(),
			Content:     content,
			OrderLink:   fmt.Sprintf("%s/orders/%d", s.frontendURL, order.ID),
		})
	}
	if err != nil && s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"order_id": order.ID, "error": err.Error()})
		s.logg.Warn(logCtx, "orders.notification_failed")
	}
}
