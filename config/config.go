// Package config loads docmcp settings from defaults, an optional TOML file,
// an optional .env file and DOCMCP_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Transport names.
const (
	TransportStreamable   = "streamable"
	TransportStdio        = "stdio"
	TransportJSONRPC      = "jsonrpc"
	TransportSSE          = "sse"
	TransportStdioJSONRPC = "stdio-jsonrpc"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCMCP_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds runtime settings.
type Config struct {
	Name            string
	Version         string
	Transport       string
	Addr            string
	Path            string
	LogLevel        string
	LogFormat       string
	JSONResponse    bool
	Search          bool
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type fileConfig struct {
	Name            string   `toml:"name"`
	Version         string   `toml:"version"`
	Transport       string   `toml:"transport"`
	Addr            string   `toml:"addr"`
	Path            string   `toml:"path"`
	LogLevel        string   `toml:"log_level"`
	LogFormat       string   `toml:"log_format"`
	JSONResponse    bool     `toml:"json_response"`
	Search          bool     `toml:"search"`
	CORSOrigins     []string `toml:"cors_origins"`
	ShutdownTimeout string   `toml:"shutdown_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Name:            "DocumentMCP",
		Version:         "1.0.0",
		Transport:       TransportStreamable,
		Addr:            ":8000",
		Path:            "/mcp",
		LogLevel:        "info",
		LogFormat:       "json",
		Search:          true,
		CORSOrigins:     []string{"*"},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds a Config. path may be empty, in which case no TOML file is read.
// A missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("version") {
		cfg.Version = strings.TrimSpace(raw.Version)
	}
	if meta.IsDefined("transport") {
		cfg.Transport = strings.ToLower(strings.TrimSpace(raw.Transport))
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("path") {
		cfg.Path = strings.TrimSpace(raw.Path)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(raw.LogFormat))
	}
	if meta.IsDefined("json_response") {
		cfg.JSONResponse = raw.JSONResponse
	}
	if meta.IsDefined("search") {
		cfg.Search = raw.Search
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = normalizeList(raw.CORSOrigins)
	}
	if meta.IsDefined("shutdown_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ShutdownTimeout))
		if err != nil {
			return fmt.Errorf("parse shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		return strings.TrimSpace(v), ok
	}

	if v, ok := get("NAME"); ok {
		cfg.Name = v
	}
	if v, ok := get("VERSION"); ok {
		cfg.Version = v
	}
	if v, ok := get("TRANSPORT"); ok {
		cfg.Transport = strings.ToLower(v)
	}
	if v, ok := get("ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := get("PATH"); ok {
		cfg.Path = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v, ok := get("JSON_RESPONSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %sJSON_RESPONSE: %w", EnvPrefix, err)
		}
		cfg.JSONResponse = b
	}
	if v, ok := get("SEARCH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %sSEARCH: %w", EnvPrefix, err)
		}
		cfg.Search = b
	}
	if v, ok := get("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = normalizeList(strings.Split(v, ","))
	}
	if v, ok := get("SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sSHUTDOWN_TIMEOUT: %w", EnvPrefix, err)
		}
		cfg.ShutdownTimeout = d
	}

	return nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}

	switch c.Transport {
	case TransportStreamable, TransportJSONRPC, TransportSSE:
		if c.Addr == "" {
			return fmt.Errorf("%w: addr is required for %s transport", ErrInvalid, c.Transport)
		}
		if !strings.HasPrefix(c.Path, "/") {
			return fmt.Errorf("%w: path must start with /", ErrInvalid)
		}
	case TransportStdio, TransportStdioJSONRPC:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalid, c.Transport)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.LogLevel)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.LogFormat)
	}

	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown_timeout must not be negative", ErrInvalid)
	}
	return nil
}

// IsHTTP reports whether the configured transport listens on Addr.
func (c Config) IsHTTP() bool {
	return c.Transport != TransportStdio && c.Transport != TransportStdioJSONRPC
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
