package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DummyProvider keeps orders in memory. Used in tests and local development;
// orders complete when the test (or operator) says so.
type DummyProvider struct {
	mu     sync.Mutex
	orders map[string]*Order
}

func NewDummyProvider() *DummyProvider {
	return &DummyProvider{orders: make(map[string]*Order)}
}

func (p *DummyProvider) CreateOrder(_ context.Context, amountCents int64, currency, _ string) (*Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	order := &Order{
		ID:          uuid.NewString(),
		Status:      OrderStatusCreated,
		AmountCents: amountCents,
		Currency:    currency,
	}
	p.orders[order.ID] = order

	return order, nil
}

func (p *DummyProvider) GetOrder(_ context.Context, orderID string) (*Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	order, ok := p.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", orderID)
	}

	copied := *order
	return &copied, nil
}

// Complete marks an order as completed on the provider side.
func (p *DummyProvider) Complete(orderID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if order, ok := p.orders[orderID]; ok {
		order.Status = OrderStatusCompleted
	}
}

// Fail marks an order as failed on the provider side.
func (p *DummyProvider) Fail(orderID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if order, ok := p.orders[orderID]; ok {
		order.Status = OrderStatusFailed
	}
}
