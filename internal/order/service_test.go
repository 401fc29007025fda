package order_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"testing"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/craftline/wardrobe/internal/cart"
	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/order"
	"github.com/craftline/wardrobe/internal/payment"
	"github.com/craftline/wardrobe/internal/slot"
	"github.com/craftline/wardrobe/internal/storetest"
	"github.com/craftline/wardrobe/pkg/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const gatewaySecret = "gw-secret"

// Monday 2024-06-03 10:00.
var clock = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *order.Service
	carts     *cart.Service
	products  *catalog.Service
	orders    *storetest.OrderRepository
	slots     *storetest.SlotRepository
	gateway   *storetest.FakeGateway
	bus       evbus.Bus
	paidCount int32
	product   *domain.Product
	userID    int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	productRepo := storetest.NewProductRepository()
	cartRepo := storetest.NewCartRepository()
	orderRepo := storetest.NewOrderRepository()
	slotRepo := storetest.NewSlotRepository()

	f := &fixture{
		orders:  orderRepo,
		slots:   slotRepo,
		gateway: &storetest.FakeGateway{},
		bus:     evbus.New(),
		userID:  100,
	}
	f.products = catalog.NewService(productRepo, nil)
	f.carts = cart.NewService(cartRepo, productRepo)

	f.product = &domain.Product{
		ID:          common.UUIDint64(),
		Sku:         "WRD-001",
		Name:        "Sliding Wardrobe",
		ProductType: domain.ProductTypeWardrobe,
		PriceAmount: decimal.NewFromInt(500),
		Currency:    "INR",
		Quantity:    10,
	}
	require.NoError(t, productRepo.Create(context.Background(), f.product))

	settings := storetest.StaticSettings{Values: map[string]string{
		domain.ConfigExpressDeliveryFee: "100",
	}}
	f.svc = order.NewService(orderRepo, f.carts, f.products,
		slot.NewRegistry(slotRepo), f.gateway, payment.NewVerifier(gatewaySecret),
		settings, f.bus, order.Config{
			ReviewTokenSecret: "review-secret",
			// Long enough that the fixed test clock never produces an
			// already-expired token.
			ReviewTokenTTL: 20 * 365 * 24 * time.Hour,
		})
	f.svc.SetClock(func() time.Time { return clock })

	require.NoError(t, f.bus.Subscribe(order.TopicOrderPaid, func(o *domain.Order) {
		atomic.AddInt32(&f.paidCount, 1)
	}))
	return f
}

func (f *fixture) fillCart(t *testing.T, qty int) {
	t.Helper()
	_, err := f.carts.AddItem(context.Background(), f.userID, f.product.ID, qty)
	require.NoError(t, err)
}

func checkoutRequest() order.CheckoutRequest {
	return order.CheckoutRequest{
		DeliveryType:  domain.DeliveryExpress,
		SlotDate:      "2024-06-05",
		SlotTimeRange: domain.SlotMorning,
		ShipName:      "Asha Rao",
		ShipMobile:    "9876543210",
		ShipStreet:    "12 MG Road",
		ShipCity:      "Bengaluru",
		ShipState:     "Karnataka",
		ShipPincode:   "560001",
	}
}

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(gatewaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 2)
	ctx := context.Background()

	o, err := f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, domain.PaymentStatusPending, o.PaymentStatus)
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, o.DeliveryFee.Equal(decimal.NewFromInt(100)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(1100)))
	assert.NotEmpty(t, o.GatewayOrderID)
	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].UnitPrice.Equal(decimal.NewFromInt(500)))

	assert.True(t, f.slots.Reserved("2024-06-05", domain.SlotMorning))

	// The gateway was asked for the full total in minor units.
	require.Len(t, f.gateway.Intents, 1)
	assert.Equal(t, int64(110000), f.gateway.Intents[0].Amount)

	// The cart is untouched until payment lands.
	c, err := f.carts.GetOrCreate(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestCheckoutStandardDeliveryIsFree(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)

	req := checkoutRequest()
	req.DeliveryType = domain.DeliveryStandard
	o, err := f.svc.InitiateCheckout(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.True(t, o.DeliveryFee.IsZero())
	assert.True(t, o.Total.Equal(decimal.NewFromInt(500)))
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.InitiateCheckout(context.Background(), f.userID, checkoutRequest())
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestCheckoutRejectsBadRequest(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	ctx := context.Background()

	req := checkoutRequest()
	req.ShipMobile = "12345"
	_, err := f.svc.InitiateCheckout(ctx, f.userID, req)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	req = checkoutRequest()
	req.SlotDate = "2024-06-09" // Sunday
	_, err = f.svc.InitiateCheckout(ctx, f.userID, req)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	req = checkoutRequest()
	req.DeliveryType = "overnight"
	_, err = f.svc.InitiateCheckout(ctx, f.userID, req)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	// Nothing was reserved along the way.
	assert.False(t, f.slots.Reserved("2024-06-05", domain.SlotMorning))
	assert.False(t, f.slots.Reserved("2024-06-09", domain.SlotMorning))
}

func TestCheckoutSlotConflict(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	ctx := context.Background()

	_, err := f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	require.NoError(t, err)

	_, err = f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// The losing checkout must not touch the cart.
	crt, err := f.carts.GetOrCreate(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, crt.Items, 1)
}

func TestCheckoutGatewayFailureUnwindsSlot(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	f.gateway.Fail = true

	_, err := f.svc.InitiateCheckout(context.Background(), f.userID, checkoutRequest())
	require.Error(t, err)
	assert.Equal(t, domain.KindUpstream, domain.KindOf(err))

	// The slot is free again and no order was persisted.
	assert.False(t, f.slots.Reserved("2024-06-05", domain.SlotMorning))
	orders, _, err := f.orders.List(context.Background(), order.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFinalizePayment(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 2)
	ctx := context.Background()

	o, err := f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	require.NoError(t, err)

	paid, err := f.svc.FinalizePayment(ctx, o.GatewayOrderID, "pay_1", sign(o.GatewayOrderID, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, domain.OrderStatusProcessing, paid.Status)
	assert.Equal(t, "pay_1", paid.PaymentID)
	require.NotNil(t, paid.PaidAt)

	// The cart is emptied and stock moves to reserved.
	c, err := f.carts.GetOrCreate(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	p, err := f.products.Get(ctx, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Reserved)

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.paidCount))
}

func TestFinalizePaymentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	ctx := context.Background()

	o, err := f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	require.NoError(t, err)

	first, err := f.svc.FinalizePayment(ctx, o.GatewayOrderID, "pay_1", sign(o.GatewayOrderID, "pay_1"))
	require.NoError(t, err)

	// The same callback again is a quiet no-op.
	second, err := f.svc.FinalizePayment(ctx, o.GatewayOrderID, "pay_1", sign(o.GatewayOrderID, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.PaymentStatusPaid, second.PaymentStatus)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.paidCount))

	// A different payment id against a settled order is a conflict.
	_, err = f.svc.FinalizePayment(ctx, o.GatewayOrderID, "pay_2", sign(o.GatewayOrderID, "pay_2"))
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestFinalizePaymentRejectsBadSignature(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	f := newFixture(t)
	f.fillCart(t, 1)
	ctx := context.Background()

	o, err := f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	require.NoError(t, err)

	_, err = f.svc.FinalizePayment(ctx, o.GatewayOrderID, "pay_1", "forged")
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthenticity, domain.KindOf(err))

	// The order is untouched.
	got, err := f.svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, got.PaymentStatus)
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.paidCount))

	// The forged callback left a trace server-side.
	mismatches := logs.FilterMessageSnippet("signature mismatch").All()
	require.Len(t, mismatches, 1)
	assert.Contains(t, mismatches[0].Message, o.GatewayOrderID)
}

func TestMarkPaymentFailedReleasesSlot(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	ctx := context.Background()

	o, err := f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	require.NoError(t, err)

	failed, err := f.svc.MarkPaymentFailed(ctx, o.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, failed.PaymentStatus)
	assert.Equal(t, domain.OrderStatusCancelled, failed.Status)
	assert.False(t, f.slots.Reserved("2024-06-05", domain.SlotMorning))

	// Repeated failure callbacks are no-ops.
	again, err := f.svc.MarkPaymentFailed(ctx, o.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, again.PaymentStatus)
}

func TestMarkPaymentFailedAfterPaidConflicts(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	ctx := context.Background()

	o, err := f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	require.NoError(t, err)
	_, err = f.svc.FinalizePayment(ctx, o.GatewayOrderID, "pay_1", sign(o.GatewayOrderID, "pay_1"))
	require.NoError(t, err)

	_, err = f.svc.MarkPaymentFailed(ctx, o.GatewayOrderID)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func paidOrder(t *testing.T, f *fixture) *domain.Order {
	t.Helper()
	f.fillCart(t, 1)
	ctx := context.Background()
	o, err := f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	require.NoError(t, err)
	o, err = f.svc.FinalizePayment(ctx, o.GatewayOrderID, "pay_1", sign(o.GatewayOrderID, "pay_1"))
	require.NoError(t, err)
	return o
}

func TestFulfillmentAdvancesForwardOnly(t *testing.T) {
	f := newFixture(t)
	o := paidOrder(t, f)
	ctx := context.Background()

	o, err := f.svc.UpdateFulfillment(ctx, o.ID, domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, o.Status)

	// No going back.
	_, err = f.svc.UpdateFulfillment(ctx, o.ID, domain.OrderStatusProcessing)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	o, err = f.svc.UpdateFulfillment(ctx, o.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, o.Status)
	require.NotNil(t, o.DeliveredAt)

	// Delivered is terminal.
	_, err = f.svc.UpdateFulfillment(ctx, o.ID, domain.OrderStatusShipped)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	_, err = f.svc.Cancel(ctx, o.ID)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestDeliveredIssuesReviewToken(t *testing.T) {
	f := newFixture(t)
	o := paidOrder(t, f)
	ctx := context.Background()

	o, err := f.svc.UpdateFulfillment(ctx, o.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)
	require.NotEmpty(t, o.ReviewToken)

	claims, err := f.svc.ParseReviewToken(o.ReviewToken)
	require.NoError(t, err)
	assert.Equal(t, f.userID, claims.UserID)
	assert.Equal(t, o.ID, claims.OrderID)

	_, err = f.svc.ParseReviewToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthenticity, domain.KindOf(err))
}

func TestCancelReleasesSlot(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	ctx := context.Background()

	o, err := f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	require.NoError(t, err)

	o, err = f.svc.Cancel(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, o.Status)
	assert.Equal(t, domain.PaymentStatusFailed, o.PaymentStatus)
	assert.False(t, f.slots.Reserved("2024-06-05", domain.SlotMorning))

	_, err = f.svc.Cancel(ctx, o.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// The freed slot is immediately reusable by a new checkout.
	f.fillCart(t, 1)
	_, err = f.svc.InitiateCheckout(ctx, f.userID, checkoutRequest())
	assert.NoError(t, err)
}
