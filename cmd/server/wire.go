//go:build wireinject
// +build wireinject

package main

import (
	"gst_billing/internal/app"
	"gst_billing/internal/conf"
	"gst_billing/internal/limiter"
	"gst_billing/internal/logger"
	"gst_billing/internal/logic"
	"gst_billing/internal/provider"
	"gst_billing/internal/qrcode"
	"gst_billing/internal/service"
	"gst_billing/internal/worker"
	"gst_billing/pkg/snowflake"

	"github.com/google/wire"
)

// baseProviders builds the stores and the bill logic shared by every process.
var baseProviders = wire.NewSet(
	wire.FieldsOf(new(*conf.AppConfig), "LogConfig", "MongodbConfig", "CloudinaryConfig", "QRCodeConfig", "RabbitMQConfig"),
	wire.FieldsOf(new(*provider.Repositories), "Bills", "Mirror", "Sequences", "Products", "AuditLogs", "Outbox", "Tx"),
	provider.ProvideAppMode,
	logger.NewLogger,
	provider.ProvideRepositories,
	provider.ProvideMachineID,
	snowflake.NewGenerator,
	provider.ProvideJwtGenerator,
	logic.NewTokenSigner,
	wire.Bind(new(logic.TokenIssuer), new(*logic.TokenSigner)),
	provider.ProvideObjectStore,
	provider.ProvideQRGenerator,
	wire.Bind(new(logic.QRRenderer), new(*qrcode.Generator)),
	provider.ProvideBillSettings,
	provider.ProvideBillEventTopic,
	logic.NewBillEventPublisher,
	logic.BillLogicProviderSet,
)

// httpProviders builds the gin router and its handlers.
var httpProviders = wire.NewSet(
	wire.FieldsOf(new(*conf.AppConfig), "Port", "RedisConfig", "RateLimiterConfig"),
	provider.ProvideRedisNamespace,
	provider.ProvideRedisClient,
	limiter.NewManager,
	logic.ProductLogicProviderSet,
	service.NewBillHandler,
	service.NewProductHandler,
	service.NewSystemHandler,
	app.NewRouter,
)

// workerProviders builds the background workers run next to the server.
var workerProviders = wire.NewSet(
	wire.FieldsOf(new(*conf.AppConfig), "WorkerConfig"),
	provider.ProvidePublisher,
	worker.NewOutboxProcessor,
	worker.NewMirrorReconciler,
	provider.ProvideWorkers,
)

func InitializeApp(appConfig *conf.AppConfig) (*app.App, func(), error) {
	wire.Build(
		baseProviders,
		httpProviders,
		workerProviders,
		app.NewApp,
	)
	return nil, nil, nil
}
