package config

import (
	"cart_service/internal/domain"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT"        default:":8080"`
	GrpcPort        string        `envconfig:"GRPC_PORT"        default:":50051"` // gRPC health endpoint
	LogLevel        string        `envconfig:"LOG_LEVEL"        default:"info"`
	CatalogSource   string        `envconfig:"CATALOG_SOURCE"   default:"http"`
	CatalogURL      string        `envconfig:"CATALOG_URL"      default:"http://localhost:8080/products.json"`
	CatalogFile     string        `envconfig:"CATALOG_FILE"     default:"static/products.json"`
	CatalogTimeout  time.Duration `envconfig:"CATALOG_TIMEOUT"  default:"5s"`
	DatabaseURL     string        `envconfig:"DATABASE_URL"`
	QuantityPolicy  string        `envconfig:"QUANTITY_POLICY"  default:"reject"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		cfg, err := Process()
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}
		config = *cfg

		logger.Infof("Configuration loaded: HTTP Port=%s, GRPC Port=%s, LogLevel=%s, CatalogSource=%s",
			config.HTTPPort, config.GrpcPort, config.LogLevel, config.CatalogSource)
		if config.DatabaseURL != "" {
			logger.Info("Configuration loaded: DatabaseURL is set")
		}
	})
	return &config
}

// Process reads the environment into a fresh Config and validates it.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.CatalogSource {
	case SourceHTTP:
		if c.CatalogURL == "" {
			return errors.New("CATALOG_URL is required for the http catalog source")
		}
		if c.CatalogFile == "" && c.catalogURLIsSelf() {
			return fmt.Errorf("CATALOG_URL %s points at this service but CATALOG_FILE is empty, so nothing serves it", c.CatalogURL)
		}
	case SourceFile:
		if c.CatalogFile == "" {
			return errors.New("CATALOG_FILE is required for the file catalog source")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres catalog source")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q (want http, file or postgres)", c.CatalogSource)
	}
	if !domain.QuantityPolicy(c.QuantityPolicy).Valid() {
		return fmt.Errorf("unknown QUANTITY_POLICY %q (want reject or clamp)", c.QuantityPolicy)
	}
	if c.CatalogTimeout <= 0 {
		return errors.New("CATALOG_TIMEOUT must be positive")
	}
	return nil
}

// catalogURLIsSelf reports whether CatalogURL targets this service's own
// HTTP_PORT on a loopback or unspecified host.
func (c *Config) catalogURLIsSelf() bool {
	u, err := url.Parse(c.CatalogURL)
	if err != nil {
		return false
	}
	_, listenPort, err := net.SplitHostPort(c.HTTPPort)
	if err != nil {
		return false
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		}
	}
	if port != listenPort {
		return false
	}
	switch host := u.Hostname(); host {
	case "localhost", "":
		return true
	default:
		ip := net.ParseIP(host)
		return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
	}
}
