package contactbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config file discovery
const (
	EnvConfigPath  = "CONTACTBOOK_CONFIG"
	ConfigFileName = "contactbook.yaml"
)

// BackendKind selects the repository realization
type BackendKind string

const (
	BackendMemory   BackendKind = "memory"
	BackendDynamoDB BackendKind = "dynamodb"
)

// Log output formats
const (
	LogFormatAuto    = "auto"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config holds all contactbook configuration
type Config struct {
	Backend  BackendKind    `yaml:"backend"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	List     ListConfig     `yaml:"list"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// DynamoDBConfig holds the external store connection settings
type DynamoDBConfig struct {
	Table       string `yaml:"table"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`     // Override for DynamoDB Local and similar
	CreateTable bool   `yaml:"create_table"` // Create the table on startup if missing
}

// ListConfig holds listing defaults
type ListConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig provides sensible defaults
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		DynamoDB: DynamoDBConfig{
			Table: "contacts",
		},
		List: ListConfig{
			DefaultPageSize: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatAuto,
		},
		Server: ServerConfig{
			Addr:            ":3000",
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// FindConfigPath returns the explicit path if set, then $CONTACTBOOK_CONFIG,
// then ./contactbook.yaml. Returns "" when nothing applies.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	return ""
}

// LoadConfig reads a YAML config file at path on top of the defaults.
// A missing or empty file yields the defaults. Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Empty and comment-only files decode to EOF
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyEnv applies environment variable overrides to the config
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CONTACTBOOK_BACKEND"); v != "" {
		c.Backend = BackendKind(v)
	}
	if v := os.Getenv("CONTACTBOOK_DYNAMODB_TABLE"); v != "" {
		c.DynamoDB.Table = v
	}
	if v := os.Getenv("CONTACTBOOK_DYNAMODB_REGION"); v != "" {
		c.DynamoDB.Region = v
	}
	if v := os.Getenv("CONTACTBOOK_DYNAMODB_ENDPOINT"); v != "" {
		c.DynamoDB.Endpoint = v
	}
	if v := os.Getenv("CONTACTBOOK_DYNAMODB_CREATE_TABLE"); v != "" {
		create, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid CONTACTBOOK_DYNAMODB_CREATE_TABLE %q: %w", v, err)
		}
		c.DynamoDB.CreateTable = create
	}
	if v := os.Getenv("CONTACTBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CONTACTBOOK_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	return nil
}

// Validate checks that config values are usable
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			return errors.New("config: dynamodb.table cannot be empty")
		}
	default:
		return fmt.Errorf("config: backend must be %q or %q, got %q", BackendMemory, BackendDynamoDB, c.Backend)
	}
	if c.List.DefaultPageSize <= 0 {
		return fmt.Errorf("config: list.default_page_size must be positive, got %d", c.List.DefaultPageSize)
	}
	switch c.Log.Format {
	case "", LogFormatAuto, LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("config: log.format must be auto, console or json, got %q", c.Log.Format)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("config: server.shutdown_timeout must be non-negative, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}
