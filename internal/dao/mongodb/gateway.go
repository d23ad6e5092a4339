package mongodb

import (
	"context"
	"fmt"
	"sync"

	"gst_billing/internal/conf"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Gateway owns the single MongoDB client shared by every repository and
// hands out the ledger and mirror databases. Open connects at most once.
type Gateway struct {
	cfg    *conf.MongodbConfig
	logger *zap.Logger

	once   sync.Once
	client *mongo.Client
	err    error
}

func NewGateway(cfg *conf.MongodbConfig, logger *zap.Logger) *Gateway {
	return &Gateway{
		cfg:    cfg,
		logger: logger.Named("Gateway"),
	}
}

// Open connects and pings the deployment. Later calls return the first result.
func (g *Gateway) Open(ctx context.Context) error {
	g.once.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, g.cfg.ConnectTimeout())
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(g.cfg.ConnectionURI()).
			SetConnectTimeout(g.cfg.ConnectTimeout()).
			SetServerSelectionTimeout(g.cfg.ConnectTimeout()))
		if err != nil {
			g.err = fmt.Errorf("failed to connect to mongodb: %w", err)
			return
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			g.err = fmt.Errorf("failed to ping mongodb: %w", err)
			return
		}

		g.client = client
		g.logger.Info("connected to mongodb",
			zap.String("ledgerDB", g.cfg.DB),
			zap.String("mirrorDB", g.cfg.GovDB))
	})
	return g.err
}

// Client returns the shared client, nil until Open succeeds.
func (g *Gateway) Client() *mongo.Client {
	return g.client
}

func (g *Gateway) Ledger() *mongo.Database {
	return g.client.Database(g.cfg.DB)
}

func (g *Gateway) Mirror() *mongo.Database {
	return g.client.Database(g.cfg.GovDB)
}

func (g *Gateway) Close(ctx context.Context) error {
	if g.client == nil {
		return nil
	}
	return g.client.Disconnect(ctx)
}
