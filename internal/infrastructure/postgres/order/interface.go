package order

import "context"

// OrderRepository is the interface for the order repository.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type OrderRepository interface {
	UpsertBatch(ctx context.Context, orders []*Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
}
