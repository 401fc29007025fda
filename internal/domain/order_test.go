package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	o := &Order{Status: OrderStatusPending}
	assert.True(t, o.CanTransition(OrderStatusProcessing))
	assert.True(t, o.CanTransition(OrderStatusShipped))
	assert.True(t, o.CanTransition(OrderStatusCancelled))

	o.Status = OrderStatusShipped
	assert.False(t, o.CanTransition(OrderStatusProcessing))
	assert.True(t, o.CanTransition(OrderStatusDelivered))
	assert.True(t, o.CanTransition(OrderStatusCancelled))

	o.Status = OrderStatusDelivered
	assert.False(t, o.CanTransition(OrderStatusShipped))
	assert.False(t, o.CanTransition(OrderStatusCancelled))
	assert.True(t, o.Terminal())

	o.Status = OrderStatusCancelled
	assert.False(t, o.CanTransition(OrderStatusProcessing))
	assert.True(t, o.Terminal())
}
