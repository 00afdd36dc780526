package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "./config.yaml"

type Config struct {
	ListenAddr         string        `yaml:"listen_addr" json:"listen_addr"`
	MetadataURL        string        `yaml:"metadata_url" json:"metadata_url"`
	BlobGateways       []string      `yaml:"blob_gateways" json:"blob_gateways"`
	SizeCacheEntries   int           `yaml:"size_cache_entries" json:"size_cache_entries"`
	ResolveConcurrency int           `yaml:"resolve_concurrency" json:"resolve_concurrency"`
	Prefetch           int           `yaml:"prefetch" json:"prefetch"`
	UpstreamTimeout    time.Duration `yaml:"upstream_timeout" json:"upstream_timeout"`
	LogLevel           string        `yaml:"log_level" json:"log_level"`
	LogFormat          string        `yaml:"log_format" json:"log_format"`
	CORSOrigins        []string      `yaml:"cors_origins" json:"cors_origins"`
}

// Default возвращает конфигурацию, с которой шлюз работает без config.yaml.
func Default() *Config {
	return &Config{
		ListenAddr:         ":5000",
		MetadataURL:        "https://www.ufsdrive.com/api/reqdata",
		BlobGateways:       []string{"https://ipfs.particle.network"},
		SizeCacheEntries:   100_000,
		ResolveConcurrency: 8,
		Prefetch:           2,
		UpstreamTimeout:    30 * time.Second,
		LogLevel:           "info",
		LogFormat:          "console",
		CORSOrigins:        []string{"*"},
	}
}

// Load читает YAML-конфигурацию поверх значений по умолчанию, применяет ENV-переопределения и валидирует результат.
// Отсутствие файла по пути по умолчанию не ошибка; явно заданный CONFIG_PATH обязан существовать.
func Load() (*Config, error) {
	c := Default()

	path := getenv("CONFIG_PATH", defaultConfigPath)
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && os.Getenv("CONFIG_PATH") == "":
	default:
		return nil, err
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) applyEnv() error {
	// ENV override
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("METADATA_URL"); v != "" {
		c.MetadataURL = v
	}
	if v := os.Getenv("BLOB_GATEWAYS"); v != "" {
		c.BlobGateways = splitComma(v)
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitComma(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SIZE_CACHE_ENTRIES", &c.SizeCacheEntries},
		{"RESOLVE_CONCURRENCY", &c.ResolveConcurrency},
		{"PREFETCH", &c.Prefetch},
	}
	for _, it := range ints {
		v := os.Getenv(it.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", it.key, err)
		}
		*it.dst = n
	}

	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("UPSTREAM_TIMEOUT: %w", err)
		}
		c.UpstreamTimeout = d
	}

	return nil
}

// Validate проверяет, что с конфигурацией можно стартовать.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.MetadataURL) == "":
		return fmt.Errorf("metadata_url is not configured")
	case len(c.BlobGateways) == 0:
		return fmt.Errorf("blob_gateways is empty")
	case c.SizeCacheEntries <= 0:
		return fmt.Errorf("size_cache_entries must be > 0")
	case c.ResolveConcurrency <= 0:
		return fmt.Errorf("resolve_concurrency must be > 0")
	case c.Prefetch <= 0:
		return fmt.Errorf("prefetch must be > 0")
	case c.UpstreamTimeout < 0:
		return fmt.Errorf("upstream_timeout must be >= 0")
	}
	return nil
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
