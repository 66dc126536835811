package fines

import (
	"context"
	"testing"
	"time"

	"github.com/riderhub/riderhub-backend/internal/access"
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

func setup(t *testing.T) (Service, *gorm.DB, *models.Rental) {
	t.Helper()
	client := dbtest.Open(t)
	conn := client.DB()

	user := &models.User{Name: "Renter", Email: "renter@example.com", PasswordHash: "x", UserType: enums.UserTypeCustomer}
	require.NoError(t, conn.Create(user).Error)
	product := &models.Product{Name: "Touring jacket", Price: types.MoneyFromInt(80), Category: enums.ProductCategoryJacket}
	require.NoError(t, conn.Create(product).Error)
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	rental := &models.Rental{UserID: user.ID, ProductID: product.ID, RentStart: start, RentEnd: start.Add(72 * time.Hour), Status: enums.RentalStatusPending}
	require.NoError(t, conn.Create(rental).Error)

	svc, err := NewService(conn, client)
	require.NoError(t, err)
	return svc, conn, rental
}

func TestCreateFineLinksRental(t *testing.T) {
	svc, conn, rental := setup(t)
	ctx := context.Background()

	fine, err := svc.Create(ctx, CreateFineRequest{RentalID: rental.ID, Amount: types.MoneyFromInt(250), Reason: " late return "})
	require.NoError(t, err)
	assert.Equal(t, rental.UserID, fine.UserID)
	assert.Equal(t, "late return", fine.Reason)

	var reloaded models.Rental
	require.NoError(t, conn.First(&reloaded, rental.ID).Error)
	require.NotNil(t, reloaded.FineID)
	assert.Equal(t, fine.ID, *reloaded.FineID)
}

func TestCreateFineValidation(t *testing.T) {
	svc, _, rental := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateFineRequest{RentalID: rental.ID, Amount: types.MoneyFromInt(-5)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, CreateFineRequest{RentalID: 777, Amount: types.MoneyFromInt(5)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteFineNullsRental(t *testing.T) {
	svc, conn, rental := setup(t)
	ctx := context.Background()
	fine, err := svc.Create(ctx, CreateFineRequest{RentalID: rental.ID, Amount: types.MoneyFromInt(100)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, fine.ID))

	var reloaded models.Rental
	require.NoError(t, conn.First(&reloaded, rental.ID).Error)
	assert.Nil(t, reloaded.FineID)

	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, fine.ID), pkgerrors.CodeNotFound))
}

func TestDeleteRentalCascadesFines(t *testing.T) {
	svc, conn, rental := setup(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateFineRequest{RentalID: rental.ID, Amount: types.MoneyFromInt(100)})
	require.NoError(t, err)

	require.NoError(t, conn.Delete(&models.Rental{}, rental.ID).Error)
	page, err := svc.List(ctx, access.Actor{UserID: 99, UserType: enums.UserTypeFinanceManager}, ListFilter{}, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestFinesAreOwnerScoped(t *testing.T) {
	svc, _, rental := setup(t)
	ctx := context.Background()
	fine, err := svc.Create(ctx, CreateFineRequest{RentalID: rental.ID, Amount: types.MoneyFromInt(40)})
	require.NoError(t, err)

	_, err = svc.Get(ctx, access.Actor{UserID: rental.UserID + 1, UserType: enums.UserTypeCustomer}, fine.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	got, err := svc.Get(ctx, access.Actor{UserID: rental.UserID, UserType: enums.UserTypeCustomer}, fine.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", got.Amount.String())

	amount := types.MoneyFromFloat(55.5)
	updated, err := svc.Update(ctx, fine.ID, UpdateFineRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "55.50", updated.Amount.String())
}
