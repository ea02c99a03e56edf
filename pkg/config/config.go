package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/nahoc/boundless-ws/pkg/postgresql"
)

// Config represents the application configuration.
type Config struct {
	App      AppConfig         `envPrefix:"APP_"`
	Postgres postgresql.Config `envPrefix:"POSTGRES_"`
	Stream   StreamConfig
	Market   MarketConfig   `envPrefix:"MARKET_"`
	Notifier NotifierConfig `envPrefix:"REVALIDATE_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"boundless-ws"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// StreamConfig represents the order stream connection configuration.
type StreamConfig struct {
	BaseURL          string        `env:"ORDER_STREAM_URL" envDefault:"https://order-stream.beboundless.xyz"`
	PrivateKey       string        `env:"WS_WALLET_PRIVATE_KEY,required"`
	HandshakeTimeout time.Duration `env:"WS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	BatchSize        int           `env:"WS_BATCH_SIZE" envDefault:"10"`
	MaxQueueSize     int           `env:"WS_MAX_QUEUE_SIZE" envDefault:"1000"`
}

// MarketConfig represents the proof market network parameters used for
// request digests and row labeling.
type MarketConfig struct {
	Chain           string `env:"CHAIN" envDefault:"sepolia"`
	ChainID         int64  `env:"CHAIN_ID" envDefault:"11155111"`
	ContractAddress string `env:"CONTRACT_ADDRESS" envDefault:"0x01e4130C977b39aaa28A744b8D3dEB23a5297654"`
}

// NotifierConfig represents the cache revalidation notifier configuration.
type NotifierConfig struct {
	URL      string        `env:"URL" envDefault:"https://explorer.beboundless.xyz/api/orders/revalidate"`
	Interval time.Duration `env:"INTERVAL" envDefault:"10s"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Stream.BaseURL = strings.TrimRight(cfg.Stream.BaseURL, "/")

	return cfg, nil
}
