package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
api:
  key: test-key
  timeout: 10s
scrape:
  queries:
    - Data Engineer jobs in Canada
  country: US
  pages: 3
  page_delay: 1s
loop:
  interval: 6h
server:
  addr: ":9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Key != "test-key" {
		t.Errorf("API.Key = %q, want test-key", cfg.API.Key)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout)
	}
	if len(cfg.Scrape.Queries) != 1 || cfg.Scrape.Queries[0] != "Data Engineer jobs in Canada" {
		t.Errorf("Queries = %v", cfg.Scrape.Queries)
	}
	if cfg.Scrape.Country != "US" {
		t.Errorf("Country = %q, want US", cfg.Scrape.Country)
	}
	if cfg.Scrape.Pages != 3 {
		t.Errorf("Pages = %d, want 3", cfg.Scrape.Pages)
	}
	if cfg.Scrape.PageDelay != 1*time.Second {
		t.Errorf("PageDelay = %v, want 1s", cfg.Scrape.PageDelay)
	}
	if cfg.Loop.Interval != 6*time.Hour {
		t.Errorf("Loop.Interval = %v, want 6h", cfg.Loop.Interval)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
api:
  key: k
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Host != "jsearch.p.rapidapi.com" {
		t.Errorf("API.Host = %q", cfg.API.Host)
	}
	if cfg.Scrape.Country != "CA" {
		t.Errorf("Country = %q, want CA", cfg.Scrape.Country)
	}
	if cfg.Scrape.Pages != 2 {
		t.Errorf("Pages = %d, want 2", cfg.Scrape.Pages)
	}
	if cfg.Scrape.PageDelay != 2*time.Second || cfg.Scrape.QueryDelay != 3*time.Second {
		t.Errorf("delays = %v / %v, want 2s / 3s", cfg.Scrape.PageDelay, cfg.Scrape.QueryDelay)
	}
	if cfg.Scrape.EmploymentTypes != "FULLTIME, CONTRACTOR, PARTTIME, INTERN" {
		t.Errorf("EmploymentTypes = %q", cfg.Scrape.EmploymentTypes)
	}
	if len(cfg.Scrape.Queries) == 0 {
		t.Error("expected default queries to be populated")
	}
	if cfg.Loop.Interval != 24*time.Hour {
		t.Errorf("Loop.Interval = %v, want 24h", cfg.Loop.Interval)
	}
	if cfg.Database.SQLitePath != "jobs.db" {
		t.Errorf("SQLitePath = %q, want jobs.db", cfg.Database.SQLitePath)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("Server.Addr = %q, want :8000", cfg.Server.Addr)
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_RAPIDAPI_KEY", "secret-from-env")
	path := writeConfig(t, `
api:
  key: ${TEST_RAPIDAPI_KEY}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Key != "secret-from-env" {
		t.Errorf("API.Key = %q, want secret-from-env", cfg.API.Key)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "api: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_BadCountry(t *testing.T) {
	path := writeConfig(t, `
scrape:
  country: CAN
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for 3-letter country code")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, `
loop:
  interval: often
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for unparsable interval")
	}
}
