package bootstrap

import (
	orderDomain "github.com/nahoc/boundless-ws/internal/domain/order"
	orderUc "github.com/nahoc/boundless-ws/internal/usecase/order"
)

// Usecase is the usecase for the ingestion client.
type Usecase struct {
	OrderUsecase orderDomain.Usecase
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	b.Usecase.OrderUsecase = orderUc.NewUsecase(b.Repository.OrderRepository, b.Logger)
}
