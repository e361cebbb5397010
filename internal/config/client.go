package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the backend the client talks to when nothing else is
// configured.
const DefaultAPIURL = "http://localhost:3001/api"

// Client holds the terminal client's settings.
type Client struct {
	APIURL      string        `yaml:"api_url"`
	Credentials string        `yaml:"credentials"`
	LogLevel    string        `yaml:"log_level"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DefaultClient returns the client configuration before any file or
// environment is consulted.
func DefaultClient(env []string) Client {
	return Client{
		APIURL:      DefaultAPIURL,
		Credentials: filepath.Join(configDir(env), "credentials.json"),
		LogLevel:    "warn",
		Timeout:     15 * time.Second,
	}
}

// LoadClient layers configuration with the following precedence (highest
// wins):
// 1. Defaults
// 2. YAML file at path, or $XDG_CONFIG_HOME/kanny/config.yml when path is empty
// 3. .env in the working directory
// 4. KANNY_* variables in env
//
// An explicit path must exist; the default one is optional.
func LoadClient(env []string, path string) (Client, error) {
	cfg := DefaultClient(env)

	mustExist := path != ""
	if path == "" {
		path = filepath.Join(configDir(env), "config.yml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Client{}, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !mustExist:
	default:
		return Client{}, fmt.Errorf("config %s: %w", path, err)
	}

	// .env never overrides the real environment.
	vars := map[string]string{}
	if dotenv, err := godotenv.Read(); err == nil {
		for k, v := range dotenv {
			vars[k] = v
		}
	}
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	if v := vars["KANNY_API_URL"]; v != "" {
		cfg.APIURL = v
	}
	if v := vars["KANNY_CREDENTIALS"]; v != "" {
		cfg.Credentials = v
	}
	if v := vars["KANNY_LOG_LEVEL"]; v != "" {
		cfg.LogLevel = v
	}
	if v := vars["KANNY_TIMEOUT"]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Client{}, fmt.Errorf("KANNY_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		return Client{}, errors.New("api url cannot be empty")
	}
	if cfg.Timeout <= 0 {
		return Client{}, errors.New("timeout must be positive")
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Client{}, err
	}

	return cfg, nil
}

// ParseLevel maps a level name onto slog's levels.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// configDir returns $XDG_CONFIG_HOME/kanny, falling back to
// ~/.config/kanny.
func configDir(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok && after != "" {
			return filepath.Join(after, "kanny")
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "kanny")
	}
	return ".kanny"
}
