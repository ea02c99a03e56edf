package bootstrap

import (
	"github.com/nahoc/boundless-ws/pkg/config"
	"github.com/nahoc/boundless-ws/pkg/logger"
	"github.com/nahoc/boundless-ws/pkg/postgresql"
)

// Bootstrap wires the ingestion client's components.
type Bootstrap struct {
	Logger     logger.Interface
	Repository Repository
	Usecase    Usecase
	Stream     Stream

	Postgres postgresql.PostgreSQLClient
	Config   *config.Config
}

// BootstrapConfig is the config for the bootstrap.
type BootstrapConfig struct {
	Postgres postgresql.PostgreSQLClient
	Logger   logger.Interface
	Config   *config.Config
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(config BootstrapConfig) (*Bootstrap, error) {
	b.Postgres = config.Postgres
	b.Logger = config.Logger
	b.Config = config.Config

	b.registerRepository()
	b.registerUsecase()
	if err := b.registerStream(); err != nil {
		return nil, err
	}

	return b, nil
}
