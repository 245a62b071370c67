package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/dynamo"
	"github.com/Veraticus/spice-ledger/internal/events"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

// Config is the application configuration.
type Config struct {
	Database DatabaseConfig
	DynamoDB dynamo.Config
	Notify   NotifyConfig
	Display  DisplayConfig
}

// DatabaseConfig selects and locates the storage backend.
type DatabaseConfig struct {
	Driver string
	Path   string
}

// NotifyConfig controls forwarding of change events to a message broker.
// An empty AMQPURL disables forwarding.
type NotifyConfig struct {
	AMQPURL  string
	Exchange string
}

// DisplayConfig controls how amounts are rendered.
type DisplayConfig struct {
	Currency string
	Language string
}

// DefaultDataDir returns the directory holding the database and checkpoints.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "ledger")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ledger"
	}
	return filepath.Join(home, ".local", "share", "ledger")
}

// SetDefaults registers default values for every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", filepath.Join(DefaultDataDir(), "ledger.db"))
	v.SetDefault("dynamodb.region", "us-east-1")
	v.SetDefault("dynamodb.transactions_table", "ledger-transactions")
	v.SetDefault("dynamodb.master_table", "ledger-master")
	v.SetDefault("notify.exchange", events.DefaultExchange)
	v.SetDefault("display.currency", "$")
	v.SetDefault("display.language", "en")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
			Path:   ExpandPath(v.GetString("database.path")),
		},
		DynamoDB: dynamo.Config{
			Region:            v.GetString("dynamodb.region"),
			TransactionsTable: v.GetString("dynamodb.transactions_table"),
			MasterTable:       v.GetString("dynamodb.master_table"),
			Endpoint:          v.GetString("dynamodb.endpoint"),
		},
		Notify: NotifyConfig{
			AMQPURL:  v.GetString("notify.amqp_url"),
			Exchange: v.GetString("notify.exchange"),
		},
		Display: DisplayConfig{
			Currency: v.GetString("display.currency"),
			Language: v.GetString("display.language"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected driver has what it needs.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
		}
	case DriverDynamoDB:
		if c.DynamoDB.TransactionsTable == "" || c.DynamoDB.MasterTable == "" {
			return fmt.Errorf("%w: dynamodb.transactions_table and dynamodb.master_table", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q (want %s or %s)",
			common.ErrInvalidConfig, c.Database.Driver, DriverSQLite, DriverDynamoDB)
	}

	if c.Notify.AMQPURL != "" && c.Notify.Exchange == "" {
		return fmt.Errorf("%w: notify.exchange", common.ErrMissingConfig)
	}
	return nil
}
