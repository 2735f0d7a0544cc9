package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PAYSTACK_PUBLIC_KEY", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "GHS", cfg.Gateway.Currency)
	assert.Equal(t, []string{"card", "mobile_money", "bank_transfer"}, cfg.Gateway.Channels)
	assert.Equal(t, "https://api.paystack.co/transaction/verify", cfg.Gateway.VerifyURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.ChatReplyDelay)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.GatewayConfigured())
	assert.Contains(t, cfg.Check(), ErrMissingGatewayKey)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PAYSTACK_PUBLIC_KEY", "pk_test_123")
	t.Setenv("PAYSTACK_CURRENCY", "NGN")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "NGN", cfg.Gateway.Currency)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.GatewayConfigured())
	assert.Empty(t, cfg.Check())
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := Load()
	require.ErrorContains(t, err, "failed to load config")
}
