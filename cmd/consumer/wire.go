//go:build wireinject
// +build wireinject

package main

import (
	"gst_billing/cmd/consumer/handlers"
	"gst_billing/internal/conf"
	"gst_billing/internal/logger"
	"gst_billing/internal/logic"
	"gst_billing/internal/mq/rabbitmq"
	"gst_billing/internal/provider"
	"gst_billing/internal/qrcode"
	"gst_billing/pkg/snowflake"

	"github.com/google/wire"
)

// InitializeConsumerApp creates the consumer application and its dependencies.
func InitializeConsumerApp(appConfig *conf.AppConfig) (*ConsumerApp, func(), error) {
	wire.Build(
		// Config Providers
		wire.FieldsOf(new(*conf.AppConfig), "LogConfig", "MongodbConfig", "CloudinaryConfig", "QRCodeConfig", "RabbitMQConfig"),
		wire.FieldsOf(new(*provider.Repositories), "Bills", "Mirror", "Sequences", "Products", "AuditLogs", "Outbox", "Tx"),
		provider.ProvideAppMode,

		// Common Components
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

		// Logic Layer
		logic.NewBillEventPublisher,
		logic.BillLogicProviderSet,

		// MQ Consumer
		rabbitmq.NewConsumer,

		// Handlers
		handlers.NewBillIssuedHandler,
		provideHandlers,

		// Final App
		NewConsumerApp,
	)
	return nil, nil, nil
}
