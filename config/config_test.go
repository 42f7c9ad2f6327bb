package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_FromEnvironment(t *testing.T) {
	t.Setenv("CATALOG_FILE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("HTTP_PORT", ":8080")
	t.Setenv("GRPC_PORT", ":50051")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("CATALOG_SOURCE", "http")
	t.Setenv("CATALOG_URL", "http://catalog.internal/products.json")
	t.Setenv("CATALOG_TIMEOUT", "5s")
	t.Setenv("QUANTITY_POLICY", "reject")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")

	cfg, err := Process()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPPort)
	assert.Equal(t, SourceHTTP, cfg.CatalogSource)
	assert.Equal(t, 5*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, "reject", cfg.QuantityPolicy)
}

func TestProcess_DefaultsServeOwnCatalog(t *testing.T) {
	for _, key := range []string{
		"HTTP_PORT", "GRPC_PORT", "LOG_LEVEL", "CATALOG_SOURCE", "CATALOG_URL", "CATALOG_FILE",
		"CATALOG_TIMEOUT", "DATABASE_URL", "QUANTITY_POLICY", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Process()
	require.NoError(t, err)
	assert.Equal(t, SourceHTTP, cfg.CatalogSource)
	assert.Equal(t, "http://localhost:8080/products.json", cfg.CatalogURL)
	assert.Equal(t, "static/products.json", cfg.CatalogFile)
	assert.True(t, cfg.catalogURLIsSelf())
}

func TestValidate_SelfCatalogNeedsFile(t *testing.T) {
	cfg := Config{
		HTTPPort:       ":8080",
		CatalogSource:  SourceHTTP,
		CatalogURL:     "http://localhost:8080/products.json",
		CatalogTimeout: time.Second,
		QuantityPolicy: "reject",
	}
	assert.ErrorContains(t, cfg.Validate(), "CATALOG_FILE is empty")

	cfg.CatalogFile = "static/products.json"
	assert.NoError(t, cfg.Validate())
}

func TestCatalogURLIsSelf(t *testing.T) {
	tests := []struct {
		httpPort string
		url      string
		want     bool
	}{
		{":8080", "http://localhost:8080/products.json", true},
		{":8080", "http://127.0.0.1:8080/products.json", true},
		{"127.0.0.1:9000", "http://[::1]:9000/products.json", true},
		{":80", "http://localhost/products.json", true},
		{":8080", "http://localhost:9090/products.json", false},
		{":8080", "http://catalog.internal:8080/products.json", false},
		{":8080", "https://localhost/products.json", false},
		{"bad-port", "http://localhost:8080/products.json", false},
	}
	for _, tt := range tests {
		cfg := Config{HTTPPort: tt.httpPort, CatalogURL: tt.url}
		assert.Equal(t, tt.want, cfg.catalogURLIsSelf(), "%s against %s", tt.url, tt.httpPort)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		CatalogSource:  SourceHTTP,
		CatalogURL:     "http://example.test/products.json",
		CatalogTimeout: time.Second,
		QuantityPolicy: "reject",
	}
	require.NoError(t, base.Validate())

	tests := map[string]func(c *Config){
		"unknown source":          func(c *Config) { c.CatalogSource = "ftp" },
		"http without url":        func(c *Config) { c.CatalogURL = "" },
		"file without path":       func(c *Config) { c.CatalogSource = SourceFile },
		"postgres without dsn":    func(c *Config) { c.CatalogSource = SourcePostgres },
		"unknown quantity policy": func(c *Config) { c.QuantityPolicy = "ignore" },
		"empty quantity policy":   func(c *Config) { c.QuantityPolicy = "" },
		"zero timeout":            func(c *Config) { c.CatalogTimeout = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	fileCfg := base
	fileCfg.CatalogSource = SourceFile
	fileCfg.CatalogFile = "products.json"
	assert.NoError(t, fileCfg.Validate())
}
