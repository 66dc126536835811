package reports

import (
	"context"
	"time"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"gorm.io/gorm"
)

type SalesSummary struct {
	From          *time.Time    `json:"from,omitempty"`
	To            *time.Time    `json:"to,omitempty"`
	TotalOrders   int64         `json:"totalOrders"`
	TotalRevenue  types.Money   `json:"totalRevenue"`
	PaidRevenue   types.Money   `json:"paidRevenue"`
	ByOrderStatus []StatusTotal `json:"byOrderStatus"`
}

type StatusTotal struct {
	Status  string      `json:"status"`
	Orders  int64       `json:"orders"`
	Revenue types.Money `json:"revenue"`
}

type InventorySummary struct {
	TotalProducts int64           `json:"totalProducts"`
	TotalStock    int64           `json:"totalStock"`
	ByCategory    []CategoryStock `json:"byCategory"`
	Movements     []MovementTotal `json:"movements"`
}

type CategoryStock struct {
	Category enums.ProductCategory `json:"category"`
	Products int64                 `json:"products"`
	Stock    int64                 `json:"stock"`
}

type MovementTotal struct {
	ChangeType enums.InventoryChangeType `json:"changeType"`
	Entries    int64                     `json:"entries"`
	Quantity   int64                     `json:"quantity"`
}

func window(q *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		q = q.Where("created_at >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("created_at < ?", to.UTC())
	}
	return q
}

func salesSummary(ctx context.Context, db *gorm.DB, from, to *time.Time) (*SalesSummary, error) {
	var rows []StatusTotal
	err := window(db.WithContext(ctx).Model(&models.Order{}), from, to).
		Select("order_status AS status, COUNT(*) AS orders, COALESCE(SUM(total_price), 0) AS revenue").
		Group("order_status").
		Order("order_status").
		Scan(&rows).Error
	if err != nil {
		return nil, repo.MapError(err, "order")
	}

	summary := &SalesSummary{From: from, To: to, ByOrderStatus: rows}
	for _, row := range rows {
		summary.TotalOrders += row.Orders
		if row.Status == string(enums.OrderStatusCancelled) {
			continue
		}
		summary.TotalRevenue = summary.TotalRevenue.Add(row.Revenue)
	}

	var paid types.Money
	err = window(db.WithContext(ctx).Model(&models.Order{}), from, to).
		Select("COALESCE(SUM(total_price), 0)").
		Where("payment_status = ?", enums.OrderPaymentPaid).
		Row().Scan(&paid)
	if err != nil {
		return nil, repo.MapError(err, "order")
	}
	summary.PaidRevenue = paid
	if summary.ByOrderStatus == nil {
		summary.ByOrderStatus = []StatusTotal{}
	}
	return summary, nil
}

func inventorySummary(ctx context.Context, db *gorm.DB, from, to *time.Time) (*InventorySummary, error) {
	var categories []CategoryStock
	err := db.WithContext(ctx).Model(&models.Product{}).
		Select("category, COUNT(*) AS products, COALESCE(SUM(stock_quantity), 0) AS stock").
		Group("category").
		Order("category").
		Scan(&categories).Error
	if err != nil {
		return nil, repo.MapError(err, "product")
	}

	var movements []MovementTotal
	err = window(db.WithContext(ctx).Model(&models.Inventory{}), from, to).
		Select("change_type, COUNT(*) AS entries, COALESCE(SUM(quantity), 0) AS quantity").
		Group("change_type").
		Order("change_type").
		Scan(&movements).Error
	if err != nil {
		return nil, repo.MapError(err, "inventory")
	}

	summary := &InventorySummary{ByCategory: categories, Movements: movements}
	for _, c := range categories {
		summary.TotalProducts += c.Products
		summary.TotalStock += c.Stock
	}
	if summary.ByCategory == nil {
		summary.ByCategory = []CategoryStock{}
	}
	if summary.Movements == nil {
		summary.Movements = []MovementTotal{}
	}
	return summary, nil
}
