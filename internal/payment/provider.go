package payment

import "context"

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
)

// Order is the provider-side view of a points purchase.
type Order struct {
	ID          string
	Status      OrderStatus
	AmountCents int64
	Currency    string
}

// Provider is the external payment collaborator (PayPal in production). The
// backend only ever creates orders and polls their status; capture and
// checkout UX happen on the provider side.
type Provider interface {
	CreateOrder(ctx context.Context, amountCents int64, currency, reference string) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
}
