package contacts

import (
	"context"
	"testing"

	"github.com/riderhub/riderhub-backend/pkg/db/dbtest"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactLifecycle(t *testing.T) {
	svc, err := NewService(dbtest.Open(t).DB())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, CreateContactRequest{Name: "Wanjiru", Email: "not-an-email", Message: "hi"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = svc.Create(ctx, CreateContactRequest{Name: "  ", Email: "w@example.com", Message: "hi"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	created, err := svc.Create(ctx, CreateContactRequest{Name: "Wanjiru", Email: " W@Example.com ", Message: "Do you stock size XL jackets?"})
	require.NoError(t, err)
	assert.Equal(t, "w@example.com", created.Email)

	page, err := svc.List(ctx, "W@EXAMPLE.COM", pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	msg := "Never mind, found it."
	updated, err := svc.Update(ctx, created.ID, UpdateContactRequest{Message: &msg})
	require.NoError(t, err)
	assert.Equal(t, msg, updated.Message)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound))
}
