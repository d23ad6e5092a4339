package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gst_billing/internal/conf"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoBroker = errors.New("rabbitmq.host must be set to run the consumer")

var rootCmd = &cobra.Command{
	Use:          "gst_billing-consumer",
	Short:        "Reconciles mirror copies of issued bills from bill.issued events",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		confFile, _ := cmd.Flags().GetString("config")
		appConfig, err := conf.NewConfig(confFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if appConfig.RabbitMQConfig == nil || appConfig.RabbitMQConfig.Host == "" {
			return errNoBroker
		}

		app, cleanup, err := InitializeConsumerApp(appConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize consumer app: %w", err)
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app.logger.Info("Starting consumer application")
		if err := app.Run(ctx); err != nil && ctx.Err() == nil {
			app.logger.Error("Consumer application exited with error", zap.Error(err))
			return err
		}
		app.logger.Info("Consumer application shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.Flags().StringP("config", "c", "internal/conf/config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
