package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrMissingGatewayKey is reported at startup when no payment gateway key is set.
// The service still starts; checkout attempts fail fast.
var ErrMissingGatewayKey = errors.New("PAYSTACK_PUBLIC_KEY is not set, checkout is disabled")

type Config struct {
	HTTPPort           string        `envconfig:"HTTP_PORT" default:"8080"`
	GRPCPort           string        `envconfig:"GRPC_PORT" default:"50057"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxRequestBodySize int64         `envconfig:"MAX_REQUEST_BODY_SIZE" default:"1048576"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`

	Gateway Gateway

	CatalogDBPath string `envconfig:"CATALOG_DB_PATH" default:""`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"checkout-completed"`

	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	ChatReplyDelay time.Duration `envconfig:"CHAT_REPLY_DELAY" default:"1500ms"`
	AccountDelay   time.Duration `envconfig:"ACCOUNT_DELAY" default:"1500ms"`
}

// Gateway configures the hosted payment widget.
type Gateway struct {
	PublicKey  string        `envconfig:"PAYSTACK_PUBLIC_KEY" default:""`
	SecretKey  string        `envconfig:"PAYSTACK_SECRET_KEY" default:""`
	Currency   string        `envconfig:"PAYSTACK_CURRENCY" default:"GHS"`
	Channels   []string      `envconfig:"PAYSTACK_CHANNELS" default:"card,mobile_money,bank_transfer"`
	ScriptURL  string        `envconfig:"PAYSTACK_SCRIPT_URL" default:"https://js.paystack.co/v1/inline.js"`
	InitURL    string        `envconfig:"PAYSTACK_INIT_URL" default:"https://api.paystack.co/transaction/initialize"`
	VerifyURL  string        `envconfig:"PAYSTACK_VERIFY_URL" default:"https://api.paystack.co/transaction/verify"`
	PaymentFor string        `envconfig:"PAYSTACK_PAYMENT_FOR" default:"BuyShea Products"`
	Timeout    time.Duration `envconfig:"PAYSTACK_TIMEOUT" default:"15s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	cfg.Gateway.Channels = compact(cfg.Gateway.Channels)
	return &cfg, nil
}

// Check returns configuration problems that do not prevent startup.
func (c *Config) Check() []error {
	var problems []error
	if strings.TrimSpace(c.Gateway.PublicKey) == "" {
		problems = append(problems, ErrMissingGatewayKey)
	}
	if c.Gateway.Currency == "" {
		problems = append(problems, errors.New("PAYSTACK_CURRENCY is empty"))
	}
	return problems
}

func (c *Config) GatewayConfigured() bool {
	return strings.TrimSpace(c.Gateway.PublicKey) != ""
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
