package cmd

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// DefaultAPIURL is used when nothing else names the cars service.
const DefaultAPIURL = "http://localhost:3000"

// Config holds CLI configuration. Values come from .env files, then CARSYNC_*
// environment variables, then command-line flags.
type Config struct {
	APIURL    string        `envconfig:"API_URL"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"10s"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile   string        `envconfig:"LOG_FILE"`
	DBPath    string        `envconfig:"DB_PATH"`
	Addr      string        `envconfig:"ADDR" default:":3000"`
	ConfigDir string        `envconfig:"CONFIG_DIR"`
}

// LoadConfig reads .env files and the environment.
func LoadConfig() (*Config, error) {
	// Load .env files first so they act as environment defaults.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	var config Config
	if err := envconfig.Process("carsync", &config); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}

	if config.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get home directory")
		}
		config.ConfigDir = filepath.Join(home, ".carsync")
	}
	if config.DBPath == "" {
		config.DBPath = filepath.Join(config.ConfigDir, "cars.db")
	}
	if config.LogFile == "" {
		config.LogFile = filepath.Join(config.ConfigDir, "carsync.log")
	}
	return &config, nil
}

func (c *Config) ensureConfigDir() error {
	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	return nil
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		value = strings.Trim(value, `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
