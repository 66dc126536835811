package users

import (
	"context"
	"testing"

	"github.com/riderhub/riderhub-backend/pkg/db/dbtest"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)
	return svc, client.DB()
}

func seedUser(t *testing.T, conn *gorm.DB, email string, userType enums.UserType) *models.User {
	t.Helper()
	user := &models.User{Name: "Wanjiru", Email: email, PasswordHash: "x", UserType: userType}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func count(t *testing.T, conn *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(model).Count(&n).Error)
	return n
}

func TestDeleteUserCascadesAndNullsOwnedServices(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	owner := seedUser(t, conn, "owner@riderhub.co.ke", enums.UserTypeCustomer)
	other := seedUser(t, conn, "other@riderhub.co.ke", enums.UserTypeSupplier)

	product := &models.Product{Name: "Helmet", Price: types.MoneyFromInt(20), Category: enums.ProductCategoryHelmet, StockQuantity: 5, SupplierID: &other.ID}
	require.NoError(t, conn.Create(product).Error)

	address := &models.UserAddress{UserID: owner.ID, County: enums.CountyNairobi, PhoneNumber: "0712345678"}
	require.NoError(t, conn.Create(address).Error)
	order := &models.Order{UserID: owner.ID, UserAddressID: &address.ID, TotalPrice: types.MoneyFromInt(20)}
	require.NoError(t, conn.Create(order).Error)
	require.NoError(t, conn.Create(&models.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: 1, Price: types.MoneyFromInt(20)}).Error)
	require.NoError(t, conn.Create(&models.Feedback{UserID: owner.ID, ProductID: product.ID, Rating: 4}).Error)
	require.NoError(t, conn.Create(&models.Payment{UserID: owner.ID, OrderID: &order.ID, Amount: types.MoneyFromInt(20)}).Error)

	service := &models.Service{Name: "Chain service", Price: types.MoneyFromInt(500), UserID: &owner.ID}
	require.NoError(t, conn.Create(service).Error)

	require.NoError(t, svc.Delete(ctx, owner.ID))

	assert.Zero(t, count(t, conn, &models.Order{}))
	assert.Zero(t, count(t, conn, &models.OrderItem{}))
	assert.Zero(t, count(t, conn, &models.Feedback{}))
	assert.Zero(t, count(t, conn, &models.UserAddress{}))
	assert.Zero(t, count(t, conn, &models.Payment{}))

	var reloaded models.Service
	require.NoError(t, conn.First(&reloaded, service.ID).Error)
	assert.Nil(t, reloaded.UserID)

	// the other user's product survives
	assert.EqualValues(t, 1, count(t, conn, &models.Product{}))
}

func TestDeleteUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "user not found", pkgerrors.As(err).Message())
}

func TestUpdateUserRejectsDuplicateEmail(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	seedUser(t, conn, "taken@riderhub.co.ke", enums.UserTypeCustomer)
	target := seedUser(t, conn, "free@riderhub.co.ke", enums.UserTypeCustomer)

	email := "Taken@RiderHub.co.ke"
	_, err := svc.Update(ctx, target.ID, UpdateRequest{Email: &email})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	name := "Achieng"
	role := enums.UserTypeDriver
	updated, err := svc.Update(ctx, target.ID, UpdateRequest{Name: &name, UserType: &role})
	require.NoError(t, err)
	assert.Equal(t, "Achieng", updated.Name)
	assert.Equal(t, enums.UserTypeDriver, updated.UserType)
}

func TestUpdateUserRejectsUnknownType(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, "x@riderhub.co.ke", enums.UserTypeCustomer)
	role := enums.UserType("pilot")
	_, err := svc.Update(context.Background(), user.ID, UpdateRequest{UserType: &role})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestApproveAndListFilter(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	supplier := seedUser(t, conn, "supplier@riderhub.co.ke", enums.UserTypeSupplier)
	seedUser(t, conn, "customer@riderhub.co.ke", enums.UserTypeCustomer)

	approved, err := svc.Approve(ctx, supplier.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	yes := true
	page, err := svc.List(ctx, ListFilter{IsApproved: &yes}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, supplier.ID, page.Items[0].ID)
}
