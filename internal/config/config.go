// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// When neither is given, configuration is read from environment variables
// alone, which is the standard way to configure a container deployment.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure. Every field maps to a key in
// the YAML file AND can be overridden by the corresponding environment
// variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing — better to crash at boot than to issue tokens signed with an
// empty secret.
type Config struct {
	// Env controls log verbosity. Valid values: "dev", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"data/devsnippet.db"`

	// JWTSecret signs and verifies bearer tokens. Generate with:
	//   JWT_SECRET=$(openssl rand -hex 32)
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`

	// HTTPServer is embedded so its fields promote onto Config: cfg.Addr.
	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:":8080"`
}

// MustLoad reads, validates, and returns the application config.
//
// The "Must" prefix follows the Go convention: the function is allowed to
// fatal on failure, so callers don't check an error — if it returns, the
// config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flagPath := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flagPath
	}

	var cfg Config

	if configPath == "" {
		// No file given — environment variables only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	// Reads the YAML file, then applies env:"..." overrides and checks
	// env-required constraints.
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
