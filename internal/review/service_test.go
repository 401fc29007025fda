package review_test

import (
	"context"
	"testing"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/craftline/wardrobe/internal/cart"
	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/order"
	"github.com/craftline/wardrobe/internal/payment"
	"github.com/craftline/wardrobe/internal/review"
	"github.com/craftline/wardrobe/internal/slot"
	"github.com/craftline/wardrobe/internal/storetest"
	"github.com/craftline/wardrobe/pkg/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = int64(100)

type fixture struct {
	svc      *review.Service
	orders   *order.Service
	products *catalog.Service
	product  *domain.Product
	order    *domain.Order
}

// newFixture builds a delivered, review-invited order end to end.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	productRepo := storetest.NewProductRepository()
	product := &domain.Product{
		ID:          common.UUIDint64(),
		Sku:         "WRD-001",
		Name:        "Sliding Wardrobe",
		ProductType: domain.ProductTypeWardrobe,
		PriceAmount: decimal.NewFromInt(500),
		Currency:    "INR",
		Quantity:    10,
	}
	require.NoError(t, productRepo.Create(ctx, product))

	products := catalog.NewService(productRepo, nil)
	carts := cart.NewService(storetest.NewCartRepository(), productRepo)
	verifier := payment.NewVerifier("gw-secret")
	gateway := &storetest.FakeGateway{}
	settings := storetest.StaticSettings{Values: map[string]string{
		domain.ConfigExpressDeliveryFee: "100",
	}}
	orders := order.NewService(storetest.NewOrderRepository(), carts, products,
		slot.NewRegistry(storetest.NewSlotRepository()), gateway, verifier,
		settings, evbus.New(), order.Config{
			ReviewTokenSecret: "review-secret",
			ReviewTokenTTL:    20 * 365 * 24 * time.Hour,
		})
	orders.SetClock(func() time.Time {
		return time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	})

	_, err := carts.AddItem(ctx, userID, product.ID, 1)
	require.NoError(t, err)
	o, err := orders.InitiateCheckout(ctx, userID, order.CheckoutRequest{
		DeliveryType:  domain.DeliveryStandard,
		SlotDate:      "2024-06-05",
		SlotTimeRange: domain.SlotMorning,
		ShipName:      "Asha Rao",
		ShipMobile:    "9876543210",
		ShipStreet:    "12 MG Road",
		ShipCity:      "Bengaluru",
		ShipState:     "Karnataka",
		ShipPincode:   "560001",
	})
	require.NoError(t, err)

	sig := signPayment("gw-secret", o.GatewayOrderID, "pay_1")
	_, err = orders.FinalizePayment(ctx, o.GatewayOrderID, "pay_1", sig)
	require.NoError(t, err)
	o, err = orders.UpdateFulfillment(ctx, o.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)
	require.NotEmpty(t, o.ReviewToken)

	return &fixture{
		svc:      review.NewService(storetest.NewReviewRepository(), orders, products),
		orders:   orders,
		products: products,
		product:  product,
		order:    o,
	}
}

func TestSubmitReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rv, err := f.svc.Submit(ctx, userID, review.SubmitRequest{
		Token:     f.order.ReviewToken,
		ProductID: f.product.ID,
		Rating:    4,
		Comment:   "solid build",
	})
	require.NoError(t, err)
	assert.Equal(t, f.order.ID, rv.OrderID)

	// The product aggregate picked up the rating.
	p, err := f.products.Get(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ReviewCount)
	assert.Equal(t, 1, p.Rating4)
	assert.True(t, p.ReviewAvg.Equal(decimal.NewFromInt(4)))

	// The invitation is burned on the order.
	o, err := f.orders.Get(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Empty(t, o.ReviewToken)
}

func TestSubmitReviewTokenIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := review.SubmitRequest{
		Token:     f.order.ReviewToken,
		ProductID: f.product.ID,
		Rating:    5,
	}
	_, err := f.svc.Submit(ctx, userID, req)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, userID, req)
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthenticity, domain.KindOf(err))
}

func TestSubmitReviewRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, userID, review.SubmitRequest{
		Token: f.order.ReviewToken, ProductID: f.product.ID, Rating: 6,
	})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.svc.Submit(ctx, userID, review.SubmitRequest{
		Token: "garbage", ProductID: f.product.ID, Rating: 4,
	})
	assert.Equal(t, domain.KindAuthenticity, domain.KindOf(err))

	// Someone else cannot spend the invitation.
	_, err = f.svc.Submit(ctx, 999, review.SubmitRequest{
		Token: f.order.ReviewToken, ProductID: f.product.ID, Rating: 4,
	})
	assert.Equal(t, domain.KindAuthenticity, domain.KindOf(err))

	// The product must belong to the order.
	_, err = f.svc.Submit(ctx, userID, review.SubmitRequest{
		Token: f.order.ReviewToken, ProductID: 424242, Rating: 4,
	})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func signPayment(secret, orderID, paymentID string) string {
	return storetest.SignPayment(secret, orderID, paymentID)
}
