package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fixturelab/fixture-sync/internal/platform/logging"
	"github.com/fixturelab/fixture-sync/internal/platform/resilience"
	"github.com/fixturelab/fixture-sync/internal/usecase"
)

const (
	defaultBaseURL     = "https://v3.football.api-sports.io"
	apiKeyHeader       = "x-apisports-key"
	maxResponseBytes   = 6 << 20
	maxBodyInErrorText = 512
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Key            string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches fixtures from an API-Football compatible provider.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	key            string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         *resilience.SingleFlight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		key:            strings.TrimSpace(cfg.Key),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		flight:         resilience.NewSingleFlight[[]byte](),
	}
}

// FetchFixtures retrieves every page for the query. Pages after the first
// reuse identical parameters apart from the page number.
func (c *Client) FetchFixtures(ctx context.Context, query usecase.FixtureQuery) ([]usecase.ExternalFixture, error) {
	if query.LeagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be greater than zero", usecase.ErrInvalidInput)
	}
	if query.Season <= 0 {
		return nil, fmt.Errorf("%w: season must be greater than zero", usecase.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("league", strconv.FormatInt(query.LeagueID, 10))
	params.Set("season", strconv.Itoa(query.Season))
	if query.Date != "" {
		params.Set("date", query.Date)
	} else {
		if query.From != "" {
			params.Set("from", query.From)
		}
		if query.To != "" {
			params.Set("to", query.To)
		}
	}
	if query.Timezone != "" {
		params.Set("timezone", query.Timezone)
	}

	out := make([]usecase.ExternalFixture, 0, 32)
	page := 1
	totalPages := 1
	for page <= totalPages {
		envelope, err := c.fetchFixturesPage(ctx, params, page)
		if err != nil {
			return nil, fmt.Errorf("fetch fixtures league=%d season=%d page=%d: %w", query.LeagueID, query.Season, page, err)
		}

		for _, item := range envelope.Response {
			out = append(out, mapFixtureItem(item))
		}

		if envelope.Paging.Total > totalPages {
			totalPages = envelope.Paging.Total
		}
		page++
	}

	return out, nil
}

func (c *Client) fetchFixturesPage(ctx context.Context, params url.Values, page int) (fixturesEnvelope, error) {
	values := url.Values{}
	for key, list := range params {
		for _, value := range list {
			values.Add(key, value)
		}
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", values, &envelope); err != nil {
		return fixturesEnvelope{}, err
	}
	if len(envelope.Errors) > 0 {
		return fixturesEnvelope{}, fmt.Errorf("%w: provider rejected request: %s", usecase.ErrUpstream, envelope.Errors.String())
	}
	return envelope, nil
}

func (c *Client) doJSON(ctx context.Context, path string, values url.Values, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fixture provider circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: fixture provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		body, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return body, reqErr
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode provider payload: %v", usecase.ErrTransport, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set(apiKeyHeader, c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqErr := fmt.Errorf("%w: send request: %s", usecase.ErrTransport, c.sanitize(err.Error()))
		c.logger.WarnContext(ctx, "fixture provider request failed", "url", fullURL, "error", reqErr)
		return nil, reqErr
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", usecase.ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := fmt.Errorf("%w: provider status=%d body=%s", usecase.ErrTransport, resp.StatusCode, abbreviateBody(raw))
		c.logger.WarnContext(ctx, "fixture provider request failed", "url", fullURL, "status", resp.StatusCode)
		return nil, reqErr
	}

	return raw, nil
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.key != "" {
		value = strings.ReplaceAll(value, c.key, "REDACTED")
	}
	return value
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > maxBodyInErrorText {
		return body[:maxBodyInErrorText] + "..."
	}
	return body
}

func mapFixtureItem(item fixtureItem) usecase.ExternalFixture {
	return usecase.ExternalFixture{
		ExternalID:       item.Fixture.ID,
		LeagueExternalID: item.League.ID,
		LeagueName:       strings.TrimSpace(item.League.Name),
		LeagueCountry:    strings.TrimSpace(item.League.Country),
		Season:           item.League.Season,
		Round:            strings.TrimSpace(item.League.Round),
		Venue:            strings.TrimSpace(item.Fixture.Venue.Name),
		StatusCode:       strings.TrimSpace(item.Fixture.Status.Short),
		KickoffTimestamp: item.Fixture.Timestamp,
		KickoffISO:       strings.TrimSpace(item.Fixture.Date),
		HomeTeam: usecase.ExternalTeam{
			ExternalID: item.Teams.Home.ID,
			Name:       strings.TrimSpace(item.Teams.Home.Name),
			LogoURL:    strings.TrimSpace(item.Teams.Home.Logo),
		},
		AwayTeam: usecase.ExternalTeam{
			ExternalID: item.Teams.Away.ID,
			Name:       strings.TrimSpace(item.Teams.Away.Name),
			LogoURL:    strings.TrimSpace(item.Teams.Away.Logo),
		},
		RawJSON: string(item.Raw),
	}
}
