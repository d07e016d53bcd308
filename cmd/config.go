package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AmateurECE/dev-proxy/backend"
	"go.uber.org/multierr"
)

// Config holds configuration values for commands.
type Config struct {
	ConfigFile      string
	ListenAddress   string
	DocumentRoot    string
	Routes          []backend.Definition
	ProxyProtocol   bool
	BackendTimeout  time.Duration
	ContentTypes    bool
	ShutdownTimeout time.Duration
	CheckTimeout    time.Duration
	LogLevel        string
	LogFormat       string
	Redis           redisConfig
}

type redisConfig struct {
	Address  string
	Password string
	Key      string
}

// Load creates a Config from environ, which is a list of "KEY=value" strings
// as returned by os.Environ().
//
// If CONFIG_FILE is set the file is read first. Environment variables take
// precedence over values from the file, and ROUTE_* routes follow the file's
// routes. Every invalid value is reported, not just the first.
func Load(environ []string) (*Config, error) {
	e := newEnvironment(environ)

	config := &Config{
		ConfigFile:      e.get("CONFIG_FILE", ""),
		ListenAddress:   "127.0.0.1:8080",
		ProxyProtocol:   e.bool("PROXY_PROTOCOL", false),
		BackendTimeout:  e.duration("BACKEND_TIMEOUT", 0),
		ContentTypes:    e.bool("CONTENT_TYPES", true),
		ShutdownTimeout: e.duration("SHUTDOWN_TIMEOUT", 5*time.Second),
		CheckTimeout:    e.duration("CHECK_TIMEOUT", 500*time.Millisecond),
		LogLevel:        e.get("LOG_LEVEL", "info"),
		LogFormat:       e.get("LOG_FORMAT", "text"),
		Redis: redisConfig{
			Address:  e.get("ROUTES_REDIS_ADDR", ""),
			Password: e.get("ROUTES_REDIS_PASSWORD", ""),
			Key:      e.get("ROUTES_REDIS_KEY", backend.DefaultRedisKey),
		},
	}

	err := e.err

	if config.ConfigFile != "" {
		file, fileErr := LoadFile(config.ConfigFile)
		if fileErr != nil {
			return nil, multierr.Append(err, fileErr)
		}

		if file.Listen != "" {
			config.ListenAddress = file.Listen
		}

		if file.Root != "" {
			config.DocumentRoot = file.Root
			if !filepath.IsAbs(file.Root) {
				config.DocumentRoot = filepath.Join(filepath.Dir(config.ConfigFile), file.Root)
			}
		}

		config.Routes = append(config.Routes, file.Routes...)
	}

	config.ListenAddress = e.get("LISTEN_ADDR", config.ListenAddress)
	config.DocumentRoot = e.get("DOCUMENT_ROOT", config.DocumentRoot)

	envRoutes, envErr := backend.FromEnv(environ)
	err = multierr.Append(err, envErr)
	config.Routes = append(config.Routes, envRoutes...)

	root, rootErr := documentRoot(config.DocumentRoot)
	err = multierr.Append(err, rootErr)
	config.DocumentRoot = root

	if err != nil {
		return nil, err
	}

	return config, nil
}

// documentRoot returns the absolute form of dir, which must be a directory.
// An empty dir is the current directory.
func documentRoot(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("document root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("document root: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("document root: '%s' is not a directory", abs)
	}

	return abs, nil
}

// environment is a parsed environment that collects parse errors.
type environment struct {
	values map[string]string
	err    error
}

func newEnvironment(environ []string) *environment {
	e := &environment{values: map[string]string{}}

	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i > 0 {
			e.values[kv[:i]] = kv[i+1:]
		}
	}

	return e
}

func (e *environment) get(key string, def string) string {
	if value, ok := e.values[key]; ok && value != "" {
		return value
	}

	return def
}

func (e *environment) bool(key string, def bool) bool {
	if value, ok := e.values[key]; ok && value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			e.err = multierr.Append(e.err, fmt.Errorf("%s: '%s' is not a boolean", key, value))
			return def
		}
		return b
	}

	return def
}

func (e *environment) duration(key string, def time.Duration) time.Duration {
	if value, ok := e.values[key]; ok && value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			e.err = multierr.Append(e.err, fmt.Errorf("%s: '%s' is not a duration", key, value))
			return def
		}
		return d
	}

	return def
}
