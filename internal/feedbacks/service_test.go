package feedbacks

import (
	"context"
	"testing"

	"github.com/riderhub/riderhub-backend/internal/access"
	"github.com/riderhub/riderhub-backend/pkg/db/dbtest"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/riderhub/riderhub-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (Service, access.Actor, *models.Product) {
	t.Helper()
	conn := dbtest.Open(t).DB()
	user := &models.User{Name: "Reviewer", Email: "reviewer@example.com", PasswordHash: "x", UserType: enums.UserTypeCustomer}
	require.NoError(t, conn.Create(user).Error)
	product := &models.Product{Name: "Winter gloves", Price: types.MoneyFromInt(35), Category: enums.ProductCategoryGloves}
	require.NoError(t, conn.Create(product).Error)
	svc, err := NewService(conn)
	require.NoError(t, err)
	return svc, access.Actor{UserID: user.ID, UserType: enums.UserTypeCustomer}, product
}

func TestRatingBounds(t *testing.T) {
	svc, actor, product := setup(t)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(ctx, actor, CreateFeedbackRequest{ProductID: product.ID, Rating: rating})
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "rating %d", rating)
	}
	for _, rating := range []int{1, 5} {
		fb, err := svc.Create(ctx, actor, CreateFeedbackRequest{ProductID: product.ID, Rating: rating, Comment: "ok"})
		require.NoError(t, err, "rating %d", rating)
		assert.Equal(t, rating, fb.Rating)
	}

	productID := product.ID
	page, err := svc.List(ctx, ListFilter{ProductID: &productID}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestUpdateFeedbackOwnership(t *testing.T) {
	svc, actor, product := setup(t)
	ctx := context.Background()

	fb, err := svc.Create(ctx, actor, CreateFeedbackRequest{ProductID: product.ID, Rating: 3})
	require.NoError(t, err)

	six := 6
	_, err = svc.Update(ctx, actor, fb.ID, UpdateFeedbackRequest{Rating: &six})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	four := 4
	other := access.Actor{UserID: actor.UserID + 1, UserType: enums.UserTypeCustomer}
	_, err = svc.Update(ctx, other, fb.ID, UpdateFeedbackRequest{Rating: &four})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	updated, err := svc.Update(ctx, actor, fb.ID, UpdateFeedbackRequest{Rating: &four})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	require.NoError(t, svc.Delete(ctx, actor, fb.ID))
	_, err = svc.Get(ctx, fb.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
