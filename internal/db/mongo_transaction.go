package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

// MongoTransactionManager runs callbacks in a multi-document transaction.
// It needs a replica set; the ledger bill and its outbox message are committed
// with majority write concern.
type MongoTransactionManager struct {
	client *mongo.Client
	opts   *options.TransactionOptions
	logger *zap.Logger
}

func NewMongoTransactionManager(client *mongo.Client, logger *zap.Logger) *MongoTransactionManager {
	return &MongoTransactionManager{
		client: client,
		opts: options.Transaction().
			SetReadPreference(readpref.Primary()).
			SetReadConcern(readconcern.Snapshot()).
			SetWriteConcern(writeconcern.Majority()),
		logger: logger.Named("MongoTransactionManager"),
	}
}

// WithTransaction retries transient errors the way the driver's session
// helper does and returns fn's result once committed.
func (m *MongoTransactionManager) WithTransaction(ctx context.Context, fn func(txCtx context.Context) (interface{}, error)) (interface{}, error) {
	session, err := m.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	// mongo.SessionContext is a context.Context, so fn never sees driver types.
	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return fn(sessCtx)
	}, m.opts)
	if err != nil {
		m.logger.Warn("transaction aborted", zap.Error(err))
		return nil, err
	}
	return result, nil
}

var _ TransactionManager = (*MongoTransactionManager)(nil)
