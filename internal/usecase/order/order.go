package order

import (
	"context"

	"github.com/nahoc/boundless-ws/internal/infrastructure/postgres/order"
	"github.com/nahoc/boundless-ws/pkg/errors"
	"github.com/nahoc/boundless-ws/pkg/logger"
)

// Usecase is the usecase for the order.
type Usecase struct {
	orderRepository order.OrderRepository
	logger          logger.Interface
}

// NewUsecase creates a new order usecase.
func NewUsecase(orderRepository order.OrderRepository, logger logger.Interface) *Usecase {
	return &Usecase{orderRepository: orderRepository, logger: logger}
}

// GetOrder gets the order for a given order ID.
func (u *Usecase) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	order, err := u.orderRepository.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return order, nil
}

// StoreOrders upserts a batch of orders keyed on order_id.
func (u *Usecase) StoreOrders(ctx context.Context, orders []*order.Order) error {
	err := u.orderRepository.UpsertBatch(ctx, orders)
	if err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}
