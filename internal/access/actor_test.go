package access

import (
	"testing"

	"github.com/riderhub/riderhub-backend/pkg/enums"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestActorScopes(t *testing.T) {
	customer := Actor{UserID: 4, UserType: enums.UserTypeCustomer}
	staff := Actor{UserID: 9, UserType: enums.UserTypeFinanceManager}

	assert.Equal(t, uint(4), *customer.Scope())
	assert.Nil(t, staff.Scope())

	assert.True(t, customer.Owns(4))
	assert.False(t, customer.Owns(5))
	assert.True(t, staff.Owns(5))

	assert.NoError(t, customer.Check(4, "order"))
	assert.True(t, pkgerrors.IsCode(customer.Check(5, "order"), pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(Actor{}.Check(0, "order"), pkgerrors.CodeUnauthorized))
}
