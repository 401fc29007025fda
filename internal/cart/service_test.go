package cart_test

import (
	"context"
	"testing"

	"github.com/craftline/wardrobe/internal/cart"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/storetest"
	"github.com/craftline/wardrobe/pkg/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*cart.Service, *domain.Product) {
	t.Helper()
	products := storetest.NewProductRepository()
	p := &domain.Product{
		ID:          common.UUIDint64(),
		Sku:         "WRD-001",
		Name:        "Sliding Wardrobe",
		ProductType: domain.ProductTypeWardrobe,
		PriceAmount: decimal.NewFromInt(500),
		Currency:    "INR",
		Quantity:    10,
	}
	require.NoError(t, products.Create(context.Background(), p))
	return cart.NewService(storetest.NewCartRepository(), products), p
}

func TestAddItemFreezesPrice(t *testing.T) {
	svc, p := newFixture(t)
	ctx := context.Background()

	c, err := svc.AddItem(ctx, 1, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.True(t, c.Items[0].UnitPrice.Equal(decimal.NewFromInt(500)))
	assert.True(t, c.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, c.Total.Equal(decimal.NewFromInt(1000)))

	// Adding the same product again raises the quantity of the line.
	c, err = svc.AddItem(ctx, 1, p.ID, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(1500)))
}

func TestAddItemValidation(t *testing.T) {
	svc, p := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, p.ID, 0)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.AddItem(ctx, 1, 99999, 1)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestSetQuantityAndRemove(t *testing.T) {
	svc, p := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, p.ID, 2)
	require.NoError(t, err)

	c, err := svc.SetQuantity(ctx, 1, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(2500)))

	_, err = svc.SetQuantity(ctx, 1, p.ID, 0)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	c, err = svc.RemoveItem(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())

	_, err = svc.RemoveItem(ctx, 1, p.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestDiscountClampsTotalAtZero(t *testing.T) {
	svc, p := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, p.ID, 1)
	require.NoError(t, err)

	c, err := svc.ApplyDiscount(ctx, 1, decimal.NewFromInt(200))
	require.NoError(t, err)
	assert.True(t, c.Total.Equal(decimal.NewFromInt(300)))

	// A discount larger than the subtotal never drives the total negative.
	c, err = svc.ApplyDiscount(ctx, 1, decimal.NewFromInt(900))
	require.NoError(t, err)
	assert.True(t, c.Total.IsZero())
	assert.True(t, c.Subtotal.Equal(decimal.NewFromInt(500)))

	_, err = svc.ApplyDiscount(ctx, 1, decimal.NewFromInt(-5))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestClearEmptiesButKeepsCart(t *testing.T) {
	svc, p := newFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, p.ID, 2)
	require.NoError(t, err)
	_, err = svc.ApplyDiscount(ctx, 1, decimal.NewFromInt(100))
	require.NoError(t, err)

	c, err := svc.Clear(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.True(t, c.Discount.IsZero())
	assert.True(t, c.Total.IsZero())

	// The cart row survives for the next purchase.
	again, err := svc.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
}
