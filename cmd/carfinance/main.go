package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"carfinance/internal/catalog"
	"carfinance/internal/config"
	"carfinance/internal/images"
	"carfinance/internal/mailer"
	"carfinance/internal/server"
	"carfinance/pkg/constants"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:   "carfinance",
	Short: "Vehicle catalog and finance quote API",
	Long:  "carfinance serves a read-only vehicle catalog with loan, lease, and APR quote endpoints.",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("config", constants.DefaultConfigFile, "path to configuration file")
	serveCmd.Flags().String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	serveCmd.Flags().String("log-level", "", "log level override (debug, info, warn, error)")
	serveCmd.Flags().String("address", "", "listen address override")
	rootCmd.AddCommand(serveCmd)
	_ = viper.BindPFlags(serveCmd.Flags())
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	return zapConfig.Build()
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	serverConfigPath, _ := cmd.Flags().GetString("server-config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	addressOverride, _ := cmd.Flags().GetString("address")

	conf, err := config.LoadConfiguration(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	serverConf, err := server.LoadConfig(serverConfigPath)
	if err != nil {
		logger.Error("failed to load server configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}
	if addressOverride != "" {
		serverConf.Address = addressOverride
	}

	store, err := catalog.Load(logger, conf.Catalog.Path)
	if err != nil {
		logger.Error("failed to load catalog",
			zap.String("op", "main"),
			zap.String("path", conf.Catalog.Path),
			zap.Error(err),
		)
		return err
	}

	resolver := images.NewResolver(logger, conf.Image.ImaginCustomer)
	mail := mailer.New(logger, conf.SMTP)
	if !conf.SMTP.Configured() {
		logger.Info("smtp not configured, email shares will use mailto links",
			zap.String("op", "main"),
		)
	}

	handler := server.NewHandler(logger, serverConf, store, resolver, mail)
	srv := &http.Server{
		Addr:         serverConf.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "main"),
			zap.String("address", serverConf.Address),
			zap.Int("rows", store.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	case sig := <-signalCh:
		logger.Info("shutting down",
			zap.String("op", "main"),
			zap.String("signal", sig.String()),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
