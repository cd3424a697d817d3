// Package jsearch drives paginated retrieval of one query against the
// JSearch API, with bounded retry on rate limiting and early termination on
// exhaustion or transport failure. Partial results are always valid output;
// no failure here is fatal to the caller.
package jsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jobradar/jobradar/internal/config"
	"github.com/jobradar/jobradar/internal/model"
)

const (
	// Additional attempts for the same page after a 429, before the whole
	// query is abandoned.
	maxRateLimitRetries = 3

	// First retry delay after a 429; doubled on each subsequent retry
	// (2s, 4s, 8s).
	rateLimitBackoffBase = 2 * time.Second
)

// Client fetches raw listing records from the JSearch API.
type Client struct {
	baseURL         string
	apiKey          string
	apiHost         string
	country         string
	recency         string
	employmentTypes string
	pageDelay       time.Duration
	client          *http.Client
	logger          *slog.Logger

	// sleep is overridable in tests so backoff timing can be asserted
	// without real wall-clock delay.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Client from the API and scrape sections of the config.
func New(api config.APIConfig, scrape config.ScrapeConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:         api.BaseURL,
		apiKey:          api.Key,
		apiHost:         api.Host,
		country:         scrape.Country,
		recency:         scrape.Recency,
		employmentTypes: scrape.EmploymentTypes,
		pageDelay:       scrape.PageDelay,
		client:          &http.Client{Timeout: api.Timeout},
		logger:          logger,
		sleep:           sleepCtx,
	}
}

// searchResponse is the top-level JSearch response. Records are kept as raw
// JSON so the full upstream payload can be stored verbatim.
type searchResponse struct {
	Data []json.RawMessage `json:"data"`
}

// FetchAll retrieves up to maxPages pages of results for query, one request
// per page. It returns whatever was accumulated when it stops, which is on:
// a page with zero records (end of results), a 429 whose retries are
// exhausted, any transport or decode failure, or context cancellation.
// Failures are per-query and logged, never returned.
func (c *Client) FetchAll(ctx context.Context, query string, maxPages int) []json.RawMessage {
	if maxPages < 1 {
		maxPages = 1
	}

	var all []json.RawMessage

	for page := 1; page <= maxPages; page++ {
		records, err := c.fetchPageWithRetry(ctx, query, page)
		if err != nil {
			c.logger.Warn("abandoning fetch for query",
				"query", query,
				"page", page,
				"accumulated", len(all),
				"error", err,
			)
			return all
		}

		if len(records) == 0 {
			c.logger.Info("no more results", "query", query, "page", page)
			return all
		}

		c.logger.Info("fetched page", "query", query, "page", page, "records", len(records))
		all = append(all, records...)

		// Politeness delay between pages of the same query.
		if page < maxPages {
			if err := c.sleep(ctx, c.pageDelay); err != nil {
				return all
			}
		}
	}

	return all
}

// fetchPageWithRetry fetches a single page, retrying the same page on 429
// with exponential backoff. Non-429 failures are returned immediately.
func (c *Client) fetchPageWithRetry(ctx context.Context, query string, page int) ([]json.RawMessage, error) {
	backoff := rateLimitBackoffBase

	for attempt := 0; ; attempt++ {
		records, err := c.fetchPage(ctx, query, page)
		if err == nil {
			return records, nil
		}

		if !model.IsRateLimited(err) {
			return nil, err
		}

		if attempt >= maxRateLimitRetries {
			return nil, fmt.Errorf("rate limited, retries exhausted: %w", err)
		}

		c.logger.Warn("rate limited, backing off",
			"query", query,
			"page", page,
			"attempt", attempt+1,
			"max_retries", maxRateLimitRetries,
			"delay", backoff,
		)

		if err := c.sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
	}
}

// fetchPage issues one search request. A 429 is reported as *model.HTTPError
// so the retry loop can distinguish it from other failures.
func (c *Client) fetchPage(ctx context.Context, query string, page int) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")
	params.Set("country", c.country)
	params.Set("date_posted", c.recency)
	params.Set("employment_types", c.employmentTypes)

	reqURL := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("search page %d: %w", page, err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("search page %d: unexpected status %d", page, resp.StatusCode),
		}
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("search page %d: %w", page, err)
	}

	return sr.Data, nil
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
