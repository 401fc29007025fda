// Package storetest provides in-memory repository and gateway
// implementations for service tests.
package storetest

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/craftline/wardrobe/internal/account"
	"github.com/craftline/wardrobe/internal/cart"
	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/order"
	"github.com/craftline/wardrobe/internal/payment"
	"github.com/craftline/wardrobe/internal/review"
	"github.com/craftline/wardrobe/internal/slot"
	"github.com/shopspring/decimal"
)

// ProductRepository is a memory-backed catalog.Repository.
type ProductRepository struct {
	mu       sync.Mutex
	products map[int64]domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[int64]domain.Product)}
}

var _ catalog.Repository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.Sku == p.Sku {
			return domain.Errorf(domain.KindConflict, "sku %s already exists", p.Sku)
		}
	}
	p.CreatedAt = time.Now()
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return domain.Errorf(domain.KindNotFound, "product %d not found", p.ID)
	}
	r.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "product %d not found", id)
	}
	cp := p
	return &cp, nil
}

func (r *ProductRepository) GetBySku(ctx context.Context, sku string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Sku == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.Errorf(domain.KindNotFound, "product sku %s not found", sku)
}

func (r *ProductRepository) List(ctx context.Context, f catalog.ListFilter) ([]domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for _, p := range r.products {
		if f.ProductType != "" && p.ProductType != f.ProductType {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

// CartRepository is a memory-backed cart.Repository keyed by user.
type CartRepository struct {
	mu    sync.Mutex
	carts map[int64]domain.Cart
}

func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[int64]domain.Cart)}
}

var _ cart.Repository = (*CartRepository)(nil)

func cloneCart(c domain.Cart) domain.Cart {
	items := make([]domain.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

func (r *CartRepository) GetByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "cart for user %d not found", userID)
	}
	cp := cloneCart(c)
	return &cp, nil
}

func (r *CartRepository) Create(ctx context.Context, c *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[c.UserID] = cloneCart(*c)
	return nil
}

func (r *CartRepository) Save(ctx context.Context, c *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[c.UserID] = cloneCart(*c)
	return nil
}

// SlotRepository is a memory-backed slot.Repository with the same
// first-writer-wins behavior as the unique index.
type SlotRepository struct {
	mu      sync.Mutex
	byKey   map[string]domain.SlotReservation
	byOrder map[int64]string
}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{
		byKey:   make(map[string]domain.SlotReservation),
		byOrder: make(map[int64]string),
	}
}

var _ slot.Repository = (*SlotRepository)(nil)

func slotKey(date, timeRange string) string {
	return date + "|" + timeRange
}

func (r *SlotRepository) Insert(ctx context.Context, sr *domain.SlotReservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slotKey(sr.SlotDate, sr.TimeRange)
	if _, taken := r.byKey[key]; taken {
		return domain.Errorf(domain.KindConflict,
			"slot %s %s is already reserved", sr.SlotDate, sr.TimeRange)
	}
	r.byKey[key] = *sr
	r.byOrder[sr.OrderID] = key
	return nil
}

func (r *SlotRepository) DeleteByOrder(ctx context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key, ok := r.byOrder[orderID]; ok {
		delete(r.byKey, key)
		delete(r.byOrder, orderID)
	}
	return nil
}

func (r *SlotRepository) GetByOrder(ctx context.Context, orderID int64) (*domain.SlotReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byOrder[orderID]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "no reservation for order %d", orderID)
	}
	sr := r.byKey[key]
	return &sr, nil
}

// Reserved reports whether (date, timeRange) is currently held.
func (r *SlotRepository) Reserved(date, timeRange string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byKey[slotKey(date, timeRange)]
	return ok
}

// OrderRepository is a memory-backed order.Repository.
type OrderRepository struct {
	mu     sync.Mutex
	orders map[int64]domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[int64]domain.Order)}
}

var _ order.Repository = (*OrderRepository)(nil)

func cloneOrder(o domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.CreatedAt = time.Now()
	r.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "order %d not found", id)
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (r *OrderRepository) GetByGatewayOrderID(ctx context.Context, gid string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.GatewayOrderID == gid {
			cp := cloneOrder(o)
			return &cp, nil
		}
	}
	return nil, domain.Errorf(domain.KindNotFound, "order for gateway id %s not found", gid)
}

func (r *OrderRepository) List(ctx context.Context, f order.ListFilter) ([]domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if f.UserID != 0 && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	return out, int64(len(out)), nil
}

func (r *OrderRepository) ConfirmPayment(ctx context.Context, gatewayOrderID, paymentID string, paidAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.orders {
		if o.GatewayOrderID != gatewayOrderID {
			continue
		}
		if o.PaymentStatus != domain.PaymentStatusPending {
			return 0, nil
		}
		o.PaymentStatus = domain.PaymentStatusPaid
		o.PaymentID = paymentID
		o.Status = domain.OrderStatusProcessing
		t := paidAt
		o.PaidAt = &t
		r.orders[id] = o
		return 1, nil
	}
	return 0, nil
}

func (r *OrderRepository) FailPayment(ctx context.Context, gatewayOrderID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, o := range r.orders {
		if o.GatewayOrderID != gatewayOrderID {
			continue
		}
		if o.PaymentStatus != domain.PaymentStatusPending {
			return 0, nil
		}
		o.PaymentStatus = domain.PaymentStatusFailed
		r.orders[id] = o
		return 1, nil
	}
	return 0, nil
}

func (r *OrderRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.Errorf(domain.KindNotFound, "order %d not found", id)
	}
	for k, v := range fields {
		switch k {
		case "status":
			o.Status = v.(string)
		case "payment_status":
			o.PaymentStatus = v.(string)
		case "review_token":
			o.ReviewToken = v.(string)
		case "delivered_at":
			t := v.(time.Time)
			o.DeliveredAt = &t
		}
	}
	r.orders[id] = o
	return nil
}

// ReviewRepository is a memory-backed review.Repository enforcing one
// review per order.
type ReviewRepository struct {
	mu      sync.Mutex
	reviews map[int64]domain.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{reviews: make(map[int64]domain.Review)}
}

var _ review.Repository = (*ReviewRepository)(nil)

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reviews[rv.OrderID]; exists {
		return domain.Errorf(domain.KindConflict, "order %d is already reviewed", rv.OrderID)
	}
	rv.CreatedAt = time.Now()
	r.reviews[rv.OrderID] = *rv
	return nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64, page, perPage int) ([]domain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Review
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, int64(len(out)), nil
}

// FakeGateway records intents and can be told to fail.
type FakeGateway struct {
	mu      sync.Mutex
	Fail    bool
	Intents []payment.Intent
	seq     int
}

var _ payment.Gateway = (*FakeGateway)(nil)

func (g *FakeGateway) CreateIntent(ctx context.Context, receipt string, amount decimal.Decimal, currency string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Fail {
		return nil, domain.Errorf(domain.KindUpstream, "payment gateway unreachable")
	}
	g.seq++
	intent := payment.Intent{
		GatewayOrderID: fmt.Sprintf("gw_order_%d", g.seq),
		Amount:         amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:       currency,
	}
	g.Intents = append(g.Intents, intent)
	return &intent, nil
}

// UserRepository is a memory-backed account.Repository.
type UserRepository struct {
	mu    sync.Mutex
	users map[int64]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]domain.User)}
}

var _ account.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.Errorf(domain.KindConflict, "email %s is already registered", u.Email)
		}
	}
	u.CreatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.Errorf(domain.KindNotFound, "user %d not found", u.ID)
	}
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.Errorf(domain.KindNotFound, "user %d not found", id)
	}
	cp := u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.Errorf(domain.KindNotFound, "user %s not found", email)
}

func (r *UserRepository) List(ctx context.Context, keyword string, page, perPage int) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

// SignPayment produces the gateway callback signature for a test payment.
func SignPayment(secret, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// StaticSettings satisfies the services' settings interfaces with fixed
// values.
type StaticSettings struct {
	Values map[string]string
}

func (s StaticSettings) GetString(name string) string { return s.Values[name] }

func (s StaticSettings) GetBool(name string) bool { return s.Values[name] == "enabled" }

func (s StaticSettings) GetDecimal(name string) decimal.Decimal {
	d, err := decimal.NewFromString(s.Values[name])
	if err != nil {
		return decimal.Zero
	}
	return d
}
