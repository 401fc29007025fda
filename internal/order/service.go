package order

import (
	"context"
	"regexp"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/craftline/wardrobe/internal/cart"
	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/payment"
	"github.com/craftline/wardrobe/internal/slot"
	"github.com/craftline/wardrobe/pkg/common"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Event topics published by the service.
const (
	TopicOrderPaid   = "order.paid"
	TopicOrderStatus = "order.status"
)

var (
	mobilePattern  = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

// SettingsReader is the slice of the settings manager the service needs.
type SettingsReader interface {
	GetDecimal(name string) decimal.Decimal
}

type Config struct {
	ReviewTokenSecret string
	ReviewTokenTTL    time.Duration
	Currency          string
}

// Service drives checkout, payment finalization and fulfillment.
type Service struct {
	repo     Repository
	carts    *cart.Service
	products *catalog.Service
	slots    *slot.Registry
	gateway  payment.Gateway
	verifier *payment.Verifier
	settings SettingsReader
	bus      evbus.Bus
	cfg      Config
	now      func() time.Time
}

func NewService(repo Repository, carts *cart.Service, products *catalog.Service,
	slots *slot.Registry, gateway payment.Gateway, verifier *payment.Verifier,
	settings SettingsReader, bus evbus.Bus, cfg Config) *Service {
	if cfg.ReviewTokenTTL == 0 {
		cfg.ReviewTokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &Service{
		repo:     repo,
		carts:    carts,
		products: products,
		slots:    slots,
		gateway:  gateway,
		verifier: verifier,
		settings: settings,
		bus:      bus,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

type CheckoutRequest struct {
	DeliveryType  string `json:"delivery_type"`
	SlotDate      string `json:"slot_date"`
	SlotTimeRange string `json:"slot_time_range"`
	ShipName      string `json:"ship_name"`
	ShipMobile    string `json:"ship_mobile"`
	ShipStreet    string `json:"ship_street"`
	ShipCity      string `json:"ship_city"`
	ShipState     string `json:"ship_state"`
	ShipPincode   string `json:"ship_pincode"`
}

func (req *CheckoutRequest) validate(now time.Time) error {
	switch req.DeliveryType {
	case domain.DeliveryStandard, domain.DeliveryExpress:
	default:
		return domain.Errorf(domain.KindValidation, "invalid delivery type %q", req.DeliveryType)
	}
	if req.ShipName == "" || req.ShipStreet == "" || req.ShipCity == "" {
		return domain.Errorf(domain.KindValidation, "shipping address is incomplete")
	}
	if !mobilePattern.MatchString(req.ShipMobile) {
		return domain.Errorf(domain.KindValidation, "invalid mobile number")
	}
	if !pincodePattern.MatchString(req.ShipPincode) {
		return domain.Errorf(domain.KindValidation, "invalid pincode")
	}
	return slot.ValidateSlot(req.SlotDate, req.SlotTimeRange, now)
}

// InitiateCheckout turns the user's cart into a pending order. The sequence
// is slot first, gateway second, persistence last: a failure at any later
// step releases the slot and leaves no order behind. The gateway intent may
// be orphaned on a persistence failure; it expires server-side and is never
// confirmable without a stored order.
func (s *Service) InitiateCheckout(ctx context.Context, userID int64, req CheckoutRequest) (*domain.Order, error) {
	now := s.now()
	if err := req.validate(now); err != nil {
		return nil, err
	}
	c, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, domain.Errorf(domain.KindValidation, "cart is empty")
	}

	fee := decimal.Zero
	if req.DeliveryType == domain.DeliveryExpress {
		fee = s.settings.GetDecimal(domain.ConfigExpressDeliveryFee)
	}
	total := c.Total.Add(fee)

	// The order id is minted before anything is written so the slot row can
	// reference it.
	orderID := common.UUIDint64()
	if err := s.slots.Reserve(ctx, orderID, req.SlotDate, req.SlotTimeRange); err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, payment.Receipt(orderID), total, s.cfg.Currency)
	if err != nil {
		s.releaseSlot(ctx, orderID)
		return nil, err
	}

	o := &domain.Order{
		ID:             orderID,
		UserID:         userID,
		Status:         domain.OrderStatusPending,
		PaymentStatus:  domain.PaymentStatusPending,
		Subtotal:       c.Subtotal,
		Discount:       c.Discount,
		DeliveryFee:    fee,
		Total:          total,
		DeliveryType:   req.DeliveryType,
		GatewayOrderID: intent.GatewayOrderID,
		SlotDate:       req.SlotDate,
		SlotTimeRange:  req.SlotTimeRange,
		ShipName:       req.ShipName,
		ShipMobile:     req.ShipMobile,
		ShipStreet:     req.ShipStreet,
		ShipCity:       req.ShipCity,
		ShipState:      req.ShipState,
		ShipPincode:    req.ShipPincode,
	}
	for _, it := range c.Items {
		o.Items = append(o.Items, domain.OrderItem{
			ID:        common.UUIDint64(),
			OrderID:   orderID,
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	if err := s.repo.Create(ctx, o); err != nil {
		s.releaseSlot(ctx, orderID)
		return nil, err
	}
	return o, nil
}

// FinalizePayment reconciles a gateway callback. It is idempotent: repeated
// callbacks with the same payment id return the already-paid order without a
// second notification, while a different payment id against a paid order is
// a Conflict.
func (s *Service) FinalizePayment(ctx context.Context, gatewayOrderID, paymentID, signature string) (*domain.Order, error) {
	if !s.verifier.Verify(gatewayOrderID, paymentID, signature) {
		zap.S().Warnf("payment signature mismatch for gateway order %s", gatewayOrderID)
		return nil, domain.Errorf(domain.KindAuthenticity, "payment signature mismatch")
	}

	rows, err := s.repo.ConfirmPayment(ctx, gatewayOrderID, paymentID, s.now())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		o, err := s.repo.GetByGatewayOrderID(ctx, gatewayOrderID)
		if err != nil {
			return nil, err
		}
		if o.PaymentStatus == domain.PaymentStatusPaid && o.PaymentID == paymentID {
			return o, nil
		}
		return nil, domain.Errorf(domain.KindConflict,
			"payment for order %d already finalized", o.ID)
	}

	o, err := s.repo.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.carts.Clear(ctx, o.UserID); err != nil && !domain.IsNotFound(err) {
		zap.S().Errorf("clear cart after payment for order %d: %s", o.ID, err)
	}
	for _, it := range o.Items {
		if err := s.products.ReserveStock(ctx, it.ProductID, it.Quantity); err != nil {
			zap.S().Errorf("reserve stock for order %d product %d: %s", o.ID, it.ProductID, err)
		}
	}
	s.publish(TopicOrderPaid, o)
	return o, nil
}

// MarkPaymentFailed records a terminal gateway failure and frees the slot.
// Idempotent for repeated failure callbacks; Conflict if the payment already
// succeeded.
func (s *Service) MarkPaymentFailed(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	rows, err := s.repo.FailPayment(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if o.PaymentStatus == domain.PaymentStatusFailed {
			return o, nil
		}
		return nil, domain.Errorf(domain.KindConflict,
			"payment for order %d already finalized", o.ID)
	}
	s.releaseSlot(ctx, o.ID)
	if err := s.repo.UpdateFields(ctx, o.ID, map[string]interface{}{
		"status": domain.OrderStatusCancelled,
	}); err != nil {
		return nil, err
	}
	o.PaymentStatus = domain.PaymentStatusFailed
	o.Status = domain.OrderStatusCancelled
	s.publish(TopicOrderStatus, o)
	return o, nil
}

// UpdateFulfillment advances the fulfillment status. Forward transitions
// only; Delivered stamps the delivery time and issues the review invitation.
func (s *Service) UpdateFulfillment(ctx context.Context, orderID int64, next string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if next == domain.OrderStatusCancelled {
		return s.cancel(ctx, o)
	}
	if !o.CanTransition(next) {
		return nil, domain.Errorf(domain.KindConflict,
			"cannot move order %d from %s to %s", o.ID, o.Status, next)
	}

	fields := map[string]interface{}{"status": next}
	if next == domain.OrderStatusDelivered {
		now := s.now()
		token, err := s.IssueReviewToken(o)
		if err != nil {
			return nil, err
		}
		fields["delivered_at"] = now
		fields["review_token"] = token
	}
	if err := s.repo.UpdateFields(ctx, o.ID, fields); err != nil {
		return nil, err
	}
	o, err = s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	s.publish(TopicOrderStatus, o)
	return o, nil
}

// Cancel aborts a non-terminal order and frees its measurement slot.
func (s *Service) Cancel(ctx context.Context, orderID int64) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, o)
}

func (s *Service) cancel(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	if o.Terminal() {
		return nil, domain.Errorf(domain.KindConflict,
			"order %d is already %s", o.ID, o.Status)
	}
	s.releaseSlot(ctx, o.ID)
	fields := map[string]interface{}{"status": domain.OrderStatusCancelled}
	if o.PaymentStatus == domain.PaymentStatusPending {
		fields["payment_status"] = domain.PaymentStatusFailed
	}
	if err := s.repo.UpdateFields(ctx, o.ID, fields); err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	s.publish(TopicOrderStatus, o)
	return o, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Order, int64, error) {
	return s.repo.List(ctx, f)
}

// ClearReviewToken burns a consumed review invitation.
func (s *Service) ClearReviewToken(ctx context.Context, orderID int64) error {
	return s.repo.UpdateFields(ctx, orderID, map[string]interface{}{"review_token": ""})
}

func (s *Service) releaseSlot(ctx context.Context, orderID int64) {
	if err := s.slots.Release(ctx, orderID); err != nil {
		zap.S().Errorf("release slot for order %d: %s", orderID, err)
	}
}

func (s *Service) publish(topic string, o *domain.Order) {
	if s.bus != nil {
		s.bus.Publish(topic, o)
	}
}

// ReviewClaims is the payload of a review-invitation token.
type ReviewClaims struct {
	UserID  int64 `json:"user_id"`
	OrderID int64 `json:"order_id"`
	jwt.RegisteredClaims
}

// IssueReviewToken signs a single-use invitation scoped to the order's
// buyer. The stored copy on the order row is what makes it single use.
func (s *Service) IssueReviewToken(o *domain.Order) (string, error) {
	claims := ReviewClaims{
		UserID:  o.UserID,
		OrderID: o.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.cfg.ReviewTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.ReviewTokenSecret))
}

// ParseReviewToken validates the signature and expiry and returns the
// claims.
func (s *Service) ParseReviewToken(tokenStr string) (*ReviewClaims, error) {
	claims := &ReviewClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.Errorf(domain.KindAuthenticity, "unexpected signing method")
		}
		return []byte(s.cfg.ReviewTokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.Errorf(domain.KindAuthenticity, "invalid review token")
	}
	return claims, nil
}
