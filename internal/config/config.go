// Package config reads the service configuration from environment variables.
//
// Variables carry the prefix CONTACTS_ followed by a section and a key, for example
// CONTACTS_SERVER_PORT or CONTACTS_STORE_MONGO_URI. A .env file in the working directory is
// loaded into the environment first, if present.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix of all environment variables read by Load.
const envPrefix = "CONTACTS_"

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config is the root configuration object of the contacts service.
type Config struct {
	Server ServerConfig `koanf:"server" validate:"required"`
	Store  StoreConfig  `koanf:"store"  validate:"required"`
	Log    LogConfig    `koanf:"log"    validate:"required"`
}

// ServerConfig groups settings of the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"             validate:"min=1,max=65535"`
	Mode            string        `koanf:"mode"             validate:"oneof=debug release test"`
	RequestLogging  bool          `koanf:"request_logging"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns the address the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// StoreConfig selects and parameterizes the contacts store.
type StoreConfig struct {
	Driver         string        `koanf:"driver"          validate:"oneof=mongo mysql memory"`
	MongoURI       string        `koanf:"mongo_uri"       validate:"required_if=Driver mongo"`
	Database       string        `koanf:"database"        validate:"required"`
	Collection     string        `koanf:"collection"      validate:"required"`
	MySQLHost      string        `koanf:"mysql_host"      validate:"required_if=Driver mysql"`
	MySQLUser      string        `koanf:"mysql_user"      validate:"required_if=Driver mysql"`
	MySQLPassword  string        `koanf:"mysql_password"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gt=0"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=console json"`
}

// Default returns the configuration used for every value that is not set in the environment.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "release",
			RequestLogging:  true,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Driver:         DriverMongo,
			MongoURI:       "mongodb://localhost:27017",
			Database:       "contacts",
			Collection:     "contacts",
			MySQLHost:      "localhost:3306",
			ConnectTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the configuration from the environment on top of the defaults and validates it.
func Load() (Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return Config{}, fmt.Errorf("could not load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("could not unmarshal configuration: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// envKey maps an environment variable name to a koanf key. The first underscore after the prefix
// separates the section from the key, so CONTACTS_SERVER_READ_TIMEOUT becomes
// server.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return ""
	}
	return section + "." + rest
}
