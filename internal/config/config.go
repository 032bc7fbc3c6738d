package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds settings for the widget API server. Values resolve in order:
// built-in defaults, the optional YAML file named by CONFIG_FILE, then
// environment variables.
type Config struct {
	Port               string
	UpstreamProvider   string
	UpstreamAPIKey     string
	UpstreamBaseURL    string
	QuoteCacheTTL      time.Duration
	ListingsCacheTTL   time.Duration
	ListingsLimit      int
	WidgetPollInterval time.Duration
	WidgetPublicOrigin string
	LogLevel           string
	LogFormat          string
	LogOutput          string
	LogMaxAge          int
}

var settingKeys = []string{
	"PORT",
	"UPSTREAM_PROVIDER",
	"UPSTREAM_API_KEY",
	"UPSTREAM_BASE_URL",
	"QUOTE_CACHE_TTL",
	"LISTINGS_CACHE_TTL",
	"LISTINGS_LIMIT",
	"WIDGET_POLL_INTERVAL",
	"WIDGET_PUBLIC_ORIGIN",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"LOG_OUTPUT",
	"LOG_MAX_AGE",
}

var defaults = map[string]string{
	"PORT":                 "8080",
	"UPSTREAM_PROVIDER":    "coinmarketcap",
	"QUOTE_CACHE_TTL":      "30s",
	"LISTINGS_CACHE_TTL":   "5m",
	"LISTINGS_LIMIT":       "100",
	"WIDGET_POLL_INTERVAL": "30s",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "json",
	"LOG_OUTPUT":           "stdout",
	"LOG_MAX_AGE":          "0",
}

type fileConfig struct {
	Port     string `yaml:"port"`
	Upstream struct {
		Provider string `yaml:"provider"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"upstream"`
	Cache struct {
		QuoteTTL      string `yaml:"quote_ttl"`
		ListingsTTL   string `yaml:"listings_ttl"`
		ListingsLimit int    `yaml:"listings_limit"`
	} `yaml:"cache"`
	Widget struct {
		PollInterval string `yaml:"poll_interval"`
		PublicOrigin string `yaml:"public_origin"`
	} `yaml:"widget"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
		MaxAge int    `yaml:"max_age"`
	} `yaml:"logging"`
}

func (f fileConfig) values() map[string]string {
	out := map[string]string{
		"PORT":                 f.Port,
		"UPSTREAM_PROVIDER":    f.Upstream.Provider,
		"UPSTREAM_API_KEY":     f.Upstream.APIKey,
		"UPSTREAM_BASE_URL":    f.Upstream.BaseURL,
		"QUOTE_CACHE_TTL":      f.Cache.QuoteTTL,
		"LISTINGS_CACHE_TTL":   f.Cache.ListingsTTL,
		"WIDGET_POLL_INTERVAL": f.Widget.PollInterval,
		"WIDGET_PUBLIC_ORIGIN": f.Widget.PublicOrigin,
		"LOG_LEVEL":            f.Logging.Level,
		"LOG_FORMAT":           f.Logging.Format,
		"LOG_OUTPUT":           f.Logging.Output,
	}
	if f.Cache.ListingsLimit != 0 {
		out["LISTINGS_LIMIT"] = strconv.Itoa(f.Cache.ListingsLimit)
	}
	if f.Logging.MaxAge != 0 {
		out["LOG_MAX_AGE"] = strconv.Itoa(f.Logging.MaxAge)
	}
	return out
}

// Load reads a .env file from the working directory when one exists, then
// resolves settings from CONFIG_FILE and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return load(os.Getenv("CONFIG_FILE"))
}

func load(path string) (Config, error) {
	values := make(map[string]string, len(settingKeys))
	for k, v := range defaults {
		values[k] = v
	}

	if strings.TrimSpace(path) != "" {
		fromFile, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		overlay(values, fromFile)
	}

	fromEnv := make(map[string]string, len(settingKeys))
	for _, key := range settingKeys {
		fromEnv[key] = os.Getenv(key)
	}
	overlay(values, fromEnv)

	var validationErrs []string
	cfg := Config{
		Port:               values["PORT"],
		UpstreamProvider:   strings.ToLower(strings.TrimSpace(values["UPSTREAM_PROVIDER"])),
		UpstreamAPIKey:     values["UPSTREAM_API_KEY"],
		UpstreamBaseURL:    values["UPSTREAM_BASE_URL"],
		QuoteCacheTTL:      parseDuration("QUOTE_CACHE_TTL", values, &validationErrs),
		ListingsCacheTTL:   parseDuration("LISTINGS_CACHE_TTL", values, &validationErrs),
		ListingsLimit:      parsePositiveInt("LISTINGS_LIMIT", values, &validationErrs),
		WidgetPollInterval: parseDuration("WIDGET_POLL_INTERVAL", values, &validationErrs),
		WidgetPublicOrigin: strings.TrimRight(values["WIDGET_PUBLIC_ORIGIN"], "/"),
		LogLevel:           values["LOG_LEVEL"],
		LogFormat:          values["LOG_FORMAT"],
		LogOutput:          values["LOG_OUTPUT"],
		LogMaxAge:          parseNonNegativeInt("LOG_MAX_AGE", values, &validationErrs),
	}

	requireEnv("UPSTREAM_PROVIDER", cfg.UpstreamProvider, &validationErrs)
	requireEnv("UPSTREAM_API_KEY", cfg.UpstreamAPIKey, &validationErrs)

	if len(validationErrs) > 0 {
		return cfg, errors.New(strings.Join(validationErrs, "; "))
	}

	return cfg, nil
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return fc.values(), nil
}

func overlay(dst, src map[string]string) {
	for k, v := range src {
		if strings.TrimSpace(v) != "" {
			dst[k] = strings.TrimSpace(v)
		}
	}
}

func parseDuration(name string, values map[string]string, errs *[]string) time.Duration {
	d, err := time.ParseDuration(values[name])
	if err != nil || d <= 0 {
		*errs = append(*errs, name+" must be a positive duration")
		return 0
	}
	return d
}

func parsePositiveInt(name string, values map[string]string, errs *[]string) int {
	n, err := strconv.Atoi(values[name])
	if err != nil || n <= 0 {
		*errs = append(*errs, name+" must be a positive integer")
		return 0
	}
	return n
}

func parseNonNegativeInt(name string, values map[string]string, errs *[]string) int {
	n, err := strconv.Atoi(values[name])
	if err != nil || n < 0 {
		*errs = append(*errs, name+" must be a non-negative integer")
		return 0
	}
	return n
}

func requireEnv(name, value string, errs *[]string) {
	if strings.TrimSpace(value) == "" {
		*errs = append(*errs, name+" is required")
	}
}
