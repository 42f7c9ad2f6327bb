package main

import (
	"cart_service/config"
	"cart_service/internal/clients"
	"cart_service/internal/domain"
	"cart_service/internal/repository"
	"cart_service/pkg/db"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cart_service",
		Short: "Shopping cart over a remotely loaded product catalog",
		Long: `cart_service loads a product catalog once at start-up and serves a
shopping cart page, a JSON API, a live event stream and health checks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		catalogCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func applyLogLevel(logger *logrus.Logger, level string) {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", level, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Infof("Log level set to: %s", logLevel.String())
}

// newCatalogSource builds the configured catalog source. The returned func
// releases whatever the source holds open.
func newCatalogSource(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (domain.CatalogSource, func(), error) {
	switch cfg.CatalogSource {
	case config.SourceFile:
		logger.Infof("Catalog source: file %s", cfg.CatalogFile)
		return clients.NewCatalogFile(cfg.CatalogFile, logger), func() {}, nil

	case config.SourcePostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect catalog database: %w", err)
		}
		logger.Info("Catalog source: postgres, database connection established.")
		return repository.NewPostgresProductRepository(database, logger), func() { database.Close() }, nil

	default:
		logger.Infof("Catalog source: http %s (timeout %s)", cfg.CatalogURL, cfg.CatalogTimeout)
		return clients.NewCatalogHTTPClient(cfg.CatalogURL, cfg.CatalogTimeout, logger), func() {}, nil
	}
}
