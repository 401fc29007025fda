package account_test

import (
	"context"
	"testing"

	"github.com/craftline/wardrobe/internal/account"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *account.Service {
	return account.NewService(storetest.NewUserRepository(), "test-jwt-secret")
}

func validRequest() account.RegisterRequest {
	return account.RegisterRequest{
		Email:    "asha@example.com",
		Password: "hunter2hunter2",
		Name:     "Asha Rao",
		Mobile:   "9876543210",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	u, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.UserLevelCustomer, u.Level)
	assert.NotEqual(t, "hunter2hunter2", u.Password)

	got, token, err := svc.Login(ctx, "asha@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterValidation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	req := validRequest()
	req.Email = "not-an-email"
	_, err := svc.Register(ctx, req)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	req = validRequest()
	req.Password = "short"
	_, err = svc.Register(ctx, req)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.Register(ctx, validRequest())
	require.NoError(t, err)
	_, err = svc.Register(ctx, validRequest())
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "asha@example.com", "wrongpassword")
	assert.Equal(t, domain.KindAuthenticity, domain.KindOf(err))

	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	assert.Equal(t, domain.KindAuthenticity, domain.KindOf(err))
}
