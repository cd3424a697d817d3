package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobradar.
type Config struct {
	API      APIConfig
	Scrape   ScrapeConfig
	Loop     LoopConfig
	Database DatabaseConfig
	Server   ServerConfig
}

// APIConfig holds credentials and endpoint settings for the upstream search API.
type APIConfig struct {
	Key     string        // expanded from env var by Load
	Host    string        // RapidAPI host header
	BaseURL string
	Timeout time.Duration // per-request timeout
}

// ScrapeConfig controls one ingestion cycle.
type ScrapeConfig struct {
	Queries         []string
	Country         string // 2-letter upstream country filter
	Pages           int    // pages fetched per query
	PageDelay       time.Duration
	QueryDelay      time.Duration
	Recency         string // upstream date_posted window
	EmploymentTypes string // upstream employment_types parameter
}

// LoopConfig controls the repeated-cycle mode.
type LoopConfig struct {
	Interval time.Duration
}

// DatabaseConfig selects the storage backend. A non-empty URL selects
// Postgres; otherwise a local SQLite file at SQLitePath is used.
type DatabaseConfig struct {
	URL        string `yaml:"url"`
	SQLitePath string `yaml:"sqlite_path"`
}

// ServerConfig holds the HTTP API listen address.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

const (
	defaultHost    = "jsearch.p.rapidapi.com"
	defaultBaseURL = "https://jsearch.p.rapidapi.com"
	defaultCountry = "CA"
	defaultRecency = "week"

	// Upstream expects a comma+space separated list.
	defaultEmploymentTypes = "FULLTIME, CONTRACTOR, PARTTIME, INTERN"
)

// DefaultQueries is the stock query rotation used when the config file
// provides none.
var DefaultQueries = []string{
	"Software Engineer jobs in Canada",
	"Data Scientist jobs in Canada",
	"Frontend Developer jobs in Canada",
	"Backend Developer jobs in Canada",
	"Data Analyst jobs in Canada",
	"Machine Learning Engineer jobs in Canada",
	"Data Engineer jobs in Canada",
	"Business Analyst jobs in Canada",
	"Project Manager jobs in Canada",
	"Product Manager jobs in Canada",
	"QA Engineer jobs in Canada",
	"DevOps Engineer jobs in Canada",
	"Cloud Engineer jobs in Canada",
	"AI Engineer jobs in Canada",
	"MLOps Engineer jobs in Canada",
	"Data Visualization Engineer jobs in Canada",
	"Data Architect jobs in Canada",
	"Data Governance Engineer jobs in Canada",
	"Data Quality Engineer jobs in Canada",
	"Data Integration Engineer jobs in Canada",
	"Data Migration Engineer jobs in Canada",
	"Data Warehouse Engineer jobs in Canada",
	"Data Lake Engineer jobs in Canada",
	"Data Mesh Engineer jobs in Canada",
	"Data Fabric Engineer jobs in Canada",
	"DataOps Engineer jobs in Canada",
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations
// as strings).
type rawConfig struct {
	API      rawAPIConfig    `yaml:"api"`
	Scrape   rawScrapeConfig `yaml:"scrape"`
	Loop     rawLoopConfig   `yaml:"loop"`
	Database DatabaseConfig  `yaml:"database"`
	Server   ServerConfig    `yaml:"server"`
}

type rawAPIConfig struct {
	Key     string `yaml:"key"`
	Host    string `yaml:"host"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type rawScrapeConfig struct {
	Queries         []string `yaml:"queries"`
	Country         string   `yaml:"country"`
	Pages           int      `yaml:"pages"`
	PageDelay       string   `yaml:"page_delay"`
	QueryDelay      string   `yaml:"query_delay"`
	Recency         string   `yaml:"recency"`
	EmploymentTypes string   `yaml:"employment_types"`
}

type rawLoopConfig struct {
	Interval string `yaml:"interval"`
}

// Load reads and parses the YAML config file at path, applies defaults,
// validates it, and returns Config. Environment variable references like
// ${RAPIDAPI_KEY} are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return build(raw)
}

// Default returns the configuration used when no config file exists:
// everything defaulted, API key taken from the RAPIDAPI_KEY env var.
func Default() *Config {
	cfg, _ := build(rawConfig{
		API: rawAPIConfig{Key: os.Getenv("RAPIDAPI_KEY")},
	})
	return cfg
}

func build(raw rawConfig) (*Config, error) {
	timeout := 30 * time.Second
	if raw.API.Timeout != "" {
		var err error
		timeout, err = time.ParseDuration(raw.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse api.timeout %q: %w", raw.API.Timeout, err)
		}
	}

	pageDelay, err := durationOr(raw.Scrape.PageDelay, 2*time.Second, "scrape.page_delay")
	if err != nil {
		return nil, err
	}
	queryDelay, err := durationOr(raw.Scrape.QueryDelay, 3*time.Second, "scrape.query_delay")
	if err != nil {
		return nil, err
	}
	interval, err := durationOr(raw.Loop.Interval, 24*time.Hour, "loop.interval")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		API: APIConfig{
			Key:     raw.API.Key,
			Host:    stringOr(raw.API.Host, defaultHost),
			BaseURL: stringOr(raw.API.BaseURL, defaultBaseURL),
			Timeout: timeout,
		},
		Scrape: ScrapeConfig{
			Queries:         raw.Scrape.Queries,
			Country:         stringOr(raw.Scrape.Country, defaultCountry),
			Pages:           raw.Scrape.Pages,
			PageDelay:       pageDelay,
			QueryDelay:      queryDelay,
			Recency:         stringOr(raw.Scrape.Recency, defaultRecency),
			EmploymentTypes: stringOr(raw.Scrape.EmploymentTypes, defaultEmploymentTypes),
		},
		Loop:     LoopConfig{Interval: interval},
		Database: raw.Database,
		Server:   raw.Server,
	}

	if len(cfg.Scrape.Queries) == 0 {
		cfg.Scrape.Queries = DefaultQueries
	}
	if cfg.Scrape.Pages <= 0 {
		cfg.Scrape.Pages = 2
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "jobs.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Scrape.Country) != 2 {
		return fmt.Errorf("scrape.country must be a 2-letter code, got %q", cfg.Scrape.Country)
	}
	if cfg.Loop.Interval <= 0 {
		return fmt.Errorf("loop.interval must be positive, got %v", cfg.Loop.Interval)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}
	return nil
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func durationOr(v string, fallback time.Duration, field string) (time.Duration, error) {
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, v, err)
	}
	return d, nil
}
