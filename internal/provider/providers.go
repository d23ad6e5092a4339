package provider

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gst_billing/internal/client/cloudinary"
	"gst_billing/internal/conf"
	"gst_billing/internal/dao/memory"
	"gst_billing/internal/dao/mongodb"
	"gst_billing/internal/dao/repository"
	"gst_billing/internal/db"
	"gst_billing/internal/logic"
	"gst_billing/internal/models"
	"gst_billing/internal/mq"
	"gst_billing/internal/mq/noop"
	"gst_billing/internal/mq/rabbitmq"
	"gst_billing/internal/qrcode"
	"gst_billing/internal/worker"
	"gst_billing/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// --- Type-safe configuration values for dependency injection ---

type AppName string
type AppMode string

// RedisNamespace is a custom type for the Redis key namespace.
type RedisNamespace string

func ProvideAppName(c *conf.AppConfig) AppName {
	return AppName(c.Name)
}

func ProvideAppMode(c *conf.AppConfig) AppMode {
	return AppMode(c.Mode)
}

// --- Providers for application components ---

// Repositories bundles every store the logic layer needs, backed either by
// MongoDB or by the in-memory fallback.
type Repositories struct {
	Bills     repository.BillRepository
	Mirror    repository.MirrorRepository
	Sequences repository.SequenceRepository
	Products  repository.ProductRepository
	AuditLogs repository.AuditLogRepository
	Outbox    repository.OutboxRepository
	Tx        db.TransactionManager
}

// ProvideRepositories opens the shared MongoDB gateway. When the deployment is
// unreachable and mongodb.allow_memory_fallback is set, an in-memory store is
// used instead and nothing survives a restart.
func ProvideRepositories(mode AppMode, cfg *conf.MongodbConfig, logger *zap.Logger) (*Repositories, func(), error) {
	gw := mongodb.NewGateway(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout())
	defer cancel()

	if err := gw.Open(ctx); err != nil {
		if !cfg.AllowMemoryFallback {
			return nil, nil, err
		}
		logger.Warn("MongoDB unavailable, falling back to the in-memory store", zap.Error(err))
		store := memory.NewStore()
		return &Repositories{
			Bills:     store,
			Mirror:    store,
			Sequences: store,
			Products:  store,
			AuditLogs: store.AuditLogs(),
			Outbox:    store.Outbox(),
			Tx:        db.NewNoOpTransactionManager(),
		}, func() {}, nil
	}

	if err := mongodb.EnsureIndexes(ctx, gw); err != nil {
		_ = gw.Close(context.Background())
		return nil, nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	ledger, mirror := gw.Ledger(), gw.Mirror()
	repos := &Repositories{
		Bills:     mongodb.NewBillDAO(ledger, logger),
		Mirror:    mongodb.NewMirrorDAO(mirror, logger),
		Sequences: mongodb.NewSequenceDAO(ledger, logger),
		Products:  mongodb.NewProductDAO(ledger, logger),
		AuditLogs: mongodb.NewAuditLogDAO(ledger, logger),
		Outbox:    mongodb.NewOutboxDAO(ledger, logger),
		Tx:        ProvideTransactionManager(mode, gw.Client(), logger),
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gw.Close(shutdownCtx); err != nil {
			logger.Error("failed to disconnect from mongodb", zap.Error(err))
		}
	}
	return repos, cleanup, nil
}

// ProvideTransactionManager decides which TransactionManager to use based on the app mode.
func ProvideTransactionManager(mode AppMode, client *mongo.Client, logger *zap.Logger) db.TransactionManager {
	if mode == "dev" || mode == "test" {
		// Standalone mongod has no transactions.
		return db.NewNoOpTransactionManager()
	}
	return db.NewMongoTransactionManager(client, logger)
}

// ProvideMachineID attempts to parse a numeric id from the hostname (e.g., for StatefulSets).
// It defaults to 1 if parsing fails, which is safe for single-instance/dev environments.
func ProvideMachineID(logger *zap.Logger) uint16 {
	hostname, err := os.Hostname()
	if err != nil {
		logger.Warn("Cannot get hostname, defaulting machine id to 1", zap.Error(err))
		return 1
	}

	parts := strings.Split(hostname, "-")
	if len(parts) < 2 {
		logger.Debug("Hostname does not fit 'name-id' format, defaulting machine id to 1", zap.String("hostname", hostname))
		return 1
	}

	id, err := strconv.ParseUint(parts[len(parts)-1], 10, 16)
	if err != nil {
		logger.Debug("Cannot parse id from hostname, defaulting machine id to 1", zap.String("hostname", hostname), zap.Error(err))
		return 1
	}

	return uint16(id)
}

// ProvideJwtGenerator creates a new JWT generator based on the app configuration.
func ProvideJwtGenerator(cfg *conf.AppConfig) (*jwt.Manager, error) {
	issuer := cfg.Name

	switch cfg.JwtConfig.Algorithm {
	case "HS256":
		return jwt.NewSymmetric([]byte(cfg.JwtConfig.Secret), issuer)
	case "RS256":
		return jwt.NewAsymmetricFromFiles(cfg.JwtConfig.PrivateKeyFile, cfg.JwtConfig.PublicKeyFile, issuer)
	default:
		return nil, fmt.Errorf("unsupported JWT algorithm: %s", cfg.JwtConfig.Algorithm)
	}
}

// ProvideObjectStore returns the Cloudinary client, or a store that always
// fails when credentials are missing so bills fall back to the placeholder.
func ProvideObjectStore(cfg *conf.CloudinaryConfig, logger *zap.Logger) (qrcode.ObjectStore, error) {
	if !cfg.Configured() {
		logger.Warn("Cloudinary is not configured, QR codes will use the placeholder image")
		return qrcode.DisabledStore{}, nil
	}
	return cloudinary.NewClient(cfg)
}

func ProvideQRGenerator(store qrcode.ObjectStore, cfg *conf.QRCodeConfig, logger *zap.Logger) *qrcode.Generator {
	return qrcode.NewGenerator(store, cfg.Size, logger)
}

// ProvideBillSettings collects the seller and QR settings used by bill issuance.
func ProvideBillSettings(cfg *conf.AppConfig) logic.BillSettings {
	s := cfg.SellerConfig
	settings := logic.BillSettings{
		Seller: models.Party{
			Name:      s.Name,
			GSTNumber: s.GSTNumber,
			Address:   s.Address,
			State:     s.State,
			StateCode: s.StateCode,
			Phone:     s.Phone,
			Email:     s.Email,
		},
	}
	if cfg.QRCodeConfig != nil {
		settings.PlaceholderURL = cfg.QRCodeConfig.PlaceholderURL
	}
	if cfg.CloudinaryConfig != nil && cfg.CloudinaryConfig.UploadTimeoutSeconds > 0 {
		settings.QRTimeout = time.Duration(cfg.CloudinaryConfig.UploadTimeoutSeconds) * time.Second
	}
	if cfg.VerificationConfig != nil {
		settings.CompareClaims = cfg.VerificationConfig.CompareClaims
	}
	return settings
}

// ProvideBillEventTopic extracts the specific topic name from the app config.
func ProvideBillEventTopic(cfg *conf.RabbitMQConfig) logic.BillEventTopic {
	return logic.BillEventTopic(cfg.BillIssuedTopic)
}

// ProvidePublisher connects to RabbitMQ, or drops messages when no host is configured.
func ProvidePublisher(cfg *conf.RabbitMQConfig, logger *zap.Logger) (mq.Publisher, func(), error) {
	if cfg == nil || cfg.Host == "" {
		p := noop.NewPublisher(logger)
		return p, p.Close, nil
	}
	p, err := rabbitmq.NewPublisher(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

// ProvideWorkers lists the background workers run next to the HTTP server.
func ProvideWorkers(outbox *worker.OutboxProcessor, reconciler *worker.MirrorReconciler) []worker.Worker {
	return []worker.Worker{outbox, reconciler}
}

// ProvideRedisNamespace creates a namespace string for Redis keys.
func ProvideRedisNamespace(cfg *conf.AppConfig) RedisNamespace {
	return RedisNamespace(fmt.Sprintf("%s:%s:", cfg.Name, cfg.Mode))
}

// ProvideRedisClient creates and returns a new Redis client based on the application configuration.
// An empty address returns a nil client, which disables rate limiting.
func ProvideRedisClient(cfg *conf.RedisConfig, logger *zap.Logger) (*redis.Client, func(), error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", zap.Error(err))
		}
	}

	return client, cleanup, nil
}
