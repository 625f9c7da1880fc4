package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/decentraland/marketplace-server-sub001/internal/domain"
	"github.com/decentraland/marketplace-server-sub001/internal/types"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	ReadHost         string        `mapstructure:"read_host"`
	ReadPort         int           `mapstructure:"read_port"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	DBName           string        `mapstructure:"dbname"`
	SSLMode          string        `mapstructure:"sslmode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`  // Server side limit of every statement, 0 disables it
}

// RedisConfig holds the Redis connection used by the contracts cache.
// URL takes precedence over Address. With neither set an in-memory cache is used.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	URL      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis server is configured
func (c *RedisConfig) Enabled() bool {
	return c.URL != "" || c.Address != ""
}

// PicksConfig holds the favorites service configuration.
// An empty BaseURL disables the picks annotation.
type PicksConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// CatalogConfig holds the catalog settings. Map keys are lower-case network names.
type CatalogConfig struct {
	Networks                []string          `mapstructure:"networks"`
	StoreMinters            map[string]string `mapstructure:"store_minters"`
	ChainIDs                map[string]int64  `mapstructure:"chain_ids"`
	ContractsCacheTTL       time.Duration     `mapstructure:"contracts_cache_ttl"`
	MaxLimit                int               `mapstructure:"max_limit"`
	DefaultLimit            int               `mapstructure:"default_limit"`
	SchemaLookupConcurrency int               `mapstructure:"schema_lookup_concurrency"`
}

// NetworkSettings is the typed view of the per-network catalog settings
type NetworkSettings struct {
	Networks     []domain.Network
	StoreMinters map[domain.Network]string
	ChainIDs     map[domain.Network]int64
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Picks      PicksConfig    `mapstructure:"picks"`
	Catalog    CatalogConfig  `mapstructure:"catalog"`
}

// LoadCatalogConfig loads configuration for the catalog service
func LoadCatalogConfig(configFile string, envPath string) (*CatalogServiceConfig, error) {
	v := configureViper("catalog", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.statement_timeout", "30s")
	v.SetDefault("redis.db", 0)
	v.SetDefault("picks.timeout", "10s")
	v.SetDefault("picks.max_retries", 3)
	v.SetDefault("catalog.networks", []string{string(domain.NetworkEthereum), string(domain.NetworkPolygon)})
	v.SetDefault("catalog.store_minters.polygon", domain.POLYGON_STORE_MINTER)
	v.SetDefault("catalog.chain_ids.ethereum", 1)
	v.SetDefault("catalog.chain_ids.polygon", 137)
	v.SetDefault("catalog.contracts_cache_ttl", "1h")
	v.SetDefault("catalog.max_limit", 1000)
	v.SetDefault("catalog.default_limit", 0)
	v.SetDefault("catalog.schema_lookup_concurrency", 4)

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg CatalogServiceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := cfg.Catalog.NetworkSettings(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NetworkSettings validates the configured networks, store minters and chain ids
func (c *CatalogConfig) NetworkSettings() (*NetworkSettings, error) {
	settings := &NetworkSettings{
		Networks:     make([]domain.Network, 0, len(c.Networks)),
		StoreMinters: make(map[domain.Network]string, len(c.StoreMinters)),
		ChainIDs:     make(map[domain.Network]int64, len(c.ChainIDs)),
	}

	for _, name := range c.Networks {
		network, ok := domain.ParseNetwork(name)
		if !ok {
			return nil, fmt.Errorf("invalid catalog network %q", name)
		}
		settings.Networks = append(settings.Networks, network)
	}

	for name, minter := range c.StoreMinters {
		network, ok := domain.ParseNetwork(name)
		if !ok {
			return nil, fmt.Errorf("invalid store minter network %q", name)
		}
		if minter == "" {
			continue
		}
		if !types.IsEthereumAddress(minter) {
			return nil, fmt.Errorf("invalid store minter address %q for network %s", minter, network)
		}
		settings.StoreMinters[network] = strings.ToLower(minter)
	}

	for name, chainID := range c.ChainIDs {
		network, ok := domain.ParseNetwork(name)
		if !ok {
			return nil, fmt.Errorf("invalid chain id network %q", name)
		}
		settings.ChainIDs[network] = chainID
	}

	return settings, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/catalog/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("MARKETPLACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		"database.statement_timeout",
		// Redis
		"redis.address",
		"redis.url",
		"redis.password",
		"redis.db",
		// Picks
		"picks.base_url",
		"picks.timeout",
		"picks.max_retries",
		// Catalog
		"catalog.networks",
		"catalog.store_minters.ethereum",
		"catalog.store_minters.polygon",
		"catalog.chain_ids.ethereum",
		"catalog.chain_ids.polygon",
		"catalog.contracts_cache_ttl",
		"catalog.max_limit",
		"catalog.default_limit",
		"catalog.schema_lookup_concurrency",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return c.dsn(c.Host, c.Port)
}

// ReadDSN returns the read-replica database connection string.
// If ReadPort is not configured, it falls back to Port.
func (c *DatabaseConfig) ReadDSN() string {
	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}
	return c.dsn(c.ReadHost, port)
}

func (c *DatabaseConfig) dsn(host string, port int) string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, c.User, c.Password, c.DBName, c.SSLMode)
	if c.StatementTimeout > 0 {
		dsn += fmt.Sprintf(" statement_timeout=%d", c.StatementTimeout.Milliseconds())
	}
	return dsn
}
