package order

import (
	"context"

	"github.com/nahoc/boundless-ws/internal/infrastructure/postgres/order"
)

// Usecase is the interface for the order usecase.
//
//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock
type Usecase interface {
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	StoreOrders(ctx context.Context, orders []*order.Order) error
}
