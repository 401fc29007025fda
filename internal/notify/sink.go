// Package notify turns order events into customer mail. Failures never
// propagate back into the order flow; they are logged and dropped.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/order"
	"go.uber.org/zap"
)

type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
	KindStatusUpdate      Kind = "status_update"
)

const sendTimeout = 15 * time.Second

// UserDirectory resolves a user id to a mailable account.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// SettingsReader is the slice of the settings manager the sink needs.
type SettingsReader interface {
	GetString(name string) string
	GetBool(name string) bool
}

type Service struct {
	mailer   Mailer
	users    UserDirectory
	settings SettingsReader
}

func NewService(mailer Mailer, users UserDirectory, settings SettingsReader) *Service {
	return &Service{mailer: mailer, users: users, settings: settings}
}

// SubscribeBus wires the sink to the order service's event topics. Handlers
// run asynchronously on the bus's goroutines.
func (s *Service) SubscribeBus(bus evbus.Bus) error {
	if err := bus.SubscribeAsync(order.TopicOrderPaid, s.onOrderPaid, false); err != nil {
		return err
	}
	return bus.SubscribeAsync(order.TopicOrderStatus, s.onOrderStatus, false)
}

func (s *Service) onOrderPaid(o *domain.Order) {
	s.Notify(KindOrderConfirmation, o)
}

func (s *Service) onOrderStatus(o *domain.Order) {
	s.Notify(KindStatusUpdate, o)
}

// Notify sends the mail for kind. Fire and forget with a bounded timeout;
// a slow or failing mail server never blocks the caller.
func (s *Service) Notify(kind Kind, o *domain.Order) {
	if !s.settings.GetBool(domain.ConfigMailNotifyEnable) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	go func() {
		defer cancel()
		if err := s.send(ctx, kind, o); err != nil {
			zap.S().Errorf("notify %s for order %d: %s", kind, o.ID, err)
		}
	}()
}

func (s *Service) send(ctx context.Context, kind Kind, o *domain.Order) error {
	u, err := s.users.GetByID(ctx, o.UserID)
	if err != nil {
		return err
	}
	storeName := s.settings.GetString(domain.ConfigStoreName)

	done := make(chan error, 1)
	go func() {
		switch kind {
		case KindOrderConfirmation:
			done <- s.sendConfirmation(storeName, u, o)
		case KindStatusUpdate:
			done <- s.sendStatusUpdate(storeName, u, o)
		default:
			done <- fmt.Errorf("unknown notification kind %s", kind)
		}
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) sendConfirmation(storeName string, u *domain.User, o *domain.Order) error {
	invoice, err := BuildInvoice(storeName, o)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s: order %d confirmed", storeName, o.ID)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your payment of %s INR was received and order %d is now being processed.</p>"+
			"<p>Measurement visit: %s (%s). Your invoice is attached.</p>",
		u.Name, o.Total.StringFixed(2), o.ID, o.SlotDate, o.SlotTimeRange)
	attachments := map[string]*bytes.Buffer{
		fmt.Sprintf("invoice-%d.xlsx", o.ID): invoice,
	}
	return s.mailer.Send(u.Email, subject, body, attachments)
}

func (s *Service) sendStatusUpdate(storeName string, u *domain.User, o *domain.Order) error {
	subject := fmt.Sprintf("%s: order %d is %s", storeName, o.ID, o.Status)
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your order %d is now <b>%s</b>.</p>",
		u.Name, o.ID, o.Status)
	if o.Status == domain.OrderStatusDelivered && o.ReviewToken != "" {
		link := fmt.Sprintf("%s/review?token=%s",
			s.settings.GetString(domain.ConfigFrontendURL), o.ReviewToken)
		body += fmt.Sprintf("<p>We would love your feedback: <a href=%q>leave a review</a>.</p>", link)
	}
	return s.mailer.Send(u.Email, subject, body, nil)
}
