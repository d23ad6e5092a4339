package provider

import (
	"testing"
	"time"

	"gst_billing/internal/conf"
	"gst_billing/internal/db"
	"gst_billing/internal/mq/noop"
	"gst_billing/internal/qrcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProvideBillSettings(t *testing.T) {
	cfg := &conf.AppConfig{
		SellerConfig: &conf.SellerConfig{
			Name:      "ABC Company",
			GSTNumber: "GTHUJ25632512355",
			Address:   "Chennai",
			StateCode: "29",
		},
		QRCodeConfig:       &conf.QRCodeConfig{PlaceholderURL: "/placeholder.svg"},
		CloudinaryConfig:   &conf.CloudinaryConfig{UploadTimeoutSeconds: 7},
		VerificationConfig: &conf.VerificationConfig{CompareClaims: true},
	}

	s := ProvideBillSettings(cfg)

	assert.Equal(t, "GTHUJ25632512355", s.Seller.GSTNumber)
	assert.Equal(t, "29", s.Seller.StateCode)
	assert.Equal(t, "/placeholder.svg", s.PlaceholderURL)
	assert.Equal(t, 7*time.Second, s.QRTimeout)
	assert.True(t, s.CompareClaims)
}

func TestProvideOptionalDependencies(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Redis without address", func(t *testing.T) {
		client, cleanup, err := ProvideRedisClient(&conf.RedisConfig{}, logger)
		require.NoError(t, err)
		assert.Nil(t, client)
		cleanup()
	})

	t.Run("RabbitMQ without host", func(t *testing.T) {
		p, cleanup, err := ProvidePublisher(&conf.RabbitMQConfig{}, logger)
		require.NoError(t, err)
		assert.IsType(t, &noop.Publisher{}, p)
		cleanup()
	})

	t.Run("Cloudinary without credentials", func(t *testing.T) {
		store, err := ProvideObjectStore(&conf.CloudinaryConfig{CloudName: "demo"}, logger)
		require.NoError(t, err)
		assert.IsType(t, qrcode.DisabledStore{}, store)
	})

	t.Run("Transactions are disabled in dev", func(t *testing.T) {
		assert.IsType(t, &db.NoOpTransactionManager{}, ProvideTransactionManager("dev", nil, logger))
	})
}

func TestProvideRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for server selection to time out")
	}
	unreachable := conf.MongodbConfig{
		URI:                   "mongodb://127.0.0.1:1/?directConnection=true",
		DB:                    "gst_billing",
		GovDB:                 "gst_billing_gov",
		ConnectTimeoutSeconds: 1,
	}

	t.Run("Falls back to memory", func(t *testing.T) {
		cfg := unreachable
		cfg.AllowMemoryFallback = true

		repos, cleanup, err := ProvideRepositories("dev", &cfg, zap.NewNop())
		require.NoError(t, err)
		defer cleanup()
		assert.NotNil(t, repos.Bills)
		assert.NotNil(t, repos.Mirror)
		assert.NotNil(t, repos.Outbox)
		assert.IsType(t, &db.NoOpTransactionManager{}, repos.Tx)
	})

	t.Run("Fails without fallback", func(t *testing.T) {
		cfg := unreachable

		_, _, err := ProvideRepositories("dev", &cfg, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestProvideRedisNamespace(t *testing.T) {
	ns := ProvideRedisNamespace(&conf.AppConfig{Name: "gst_billing", Mode: "prod"})
	assert.Equal(t, RedisNamespace("gst_billing:prod:"), ns)
}
