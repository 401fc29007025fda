package payment

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/craftline/wardrobe/internal/domain"
	"github.com/guonaihong/gout"
	"github.com/shopspring/decimal"
)

// Intent is a gateway-side payment order awaiting capture.
type Intent struct {
	GatewayOrderID string
	Amount         int64
	Currency       string
}

// Gateway creates payment intents. Implemented by the HTTP client below and
// by a fake in tests.
type Gateway interface {
	CreateIntent(ctx context.Context, receipt string, amount decimal.Decimal, currency string) (*Intent, error)
}

type Client struct {
	baseURL string
	keyID   string
	secret  string
	timeout time.Duration
}

func NewClient(baseURL, keyID, secret string) *Client {
	return &Client{
		baseURL: baseURL,
		keyID:   keyID,
		secret:  secret,
		timeout: 10 * time.Second,
	}
}

type intentResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateIntent registers an order with the gateway. The amount is sent in
// minor units (paise for INR).
func (c *Client) CreateIntent(ctx context.Context, receipt string, amount decimal.Decimal, currency string) (*Intent, error) {
	minor := amount.Mul(decimal.NewFromInt(100)).IntPart()
	auth := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.secret))

	var resp intentResponse
	var code int
	err := gout.POST(c.baseURL+"/orders").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(gout.H{"Authorization": "Basic " + auth}).
		SetJSON(gout.H{
			"amount":   minor,
			"currency": currency,
			"receipt":  receipt,
		}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return nil, domain.WrapError(domain.KindUpstream, "payment gateway unreachable", err)
	}
	if code != 200 {
		return nil, domain.Errorf(domain.KindUpstream, "payment gateway returned status %d", code)
	}
	if resp.ID == "" {
		return nil, domain.Errorf(domain.KindUpstream, "payment gateway returned no order id")
	}
	return &Intent{
		GatewayOrderID: resp.ID,
		Amount:         resp.Amount,
		Currency:       resp.Currency,
	}, nil
}

var _ Gateway = (*Client)(nil)

// Receipt formats the local order id the way the gateway expects receipts.
func Receipt(orderID int64) string {
	return fmt.Sprintf("order_rcpt_%d", orderID)
}
