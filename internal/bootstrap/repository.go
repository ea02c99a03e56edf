package bootstrap

import (
	orderInfra "github.com/nahoc/boundless-ws/internal/infrastructure/postgres/order"
)

// Repository is the repository for the ingestion client.
type Repository struct {
	OrderRepository orderInfra.OrderRepository
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	b.Repository.OrderRepository = orderInfra.NewRepository(b.Postgres)
}
