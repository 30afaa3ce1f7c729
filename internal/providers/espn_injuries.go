package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/jstittsworth/draftsheet/internal/cheatsheet"
	"github.com/jstittsworth/draftsheet/internal/draft"
)

// DefaultInjuryFeedURL is the public ESPN fantasy football injury feed.
const DefaultInjuryFeedURL = "https://site.api.espn.com/apis/fantasy/v2/games/ffl/news/injuries"

const injuryCacheKey = "draftsheet:injuries:espn"

// InjuryClient fetches the league-wide injury report. The feed is public
// and unauthenticated; a shared rate limiter spaces requests and a circuit
// breaker backs off a failing feed.
type InjuryClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	cache      draft.CacheProvider
	logger     *logrus.Logger
	url        string
}

// InjuryClientConfig tunes the feed client. Zero values fall back to
// sensible defaults.
type InjuryClientConfig struct {
	URL            string
	Timeout        time.Duration
	RequestsPerMin int
	Cache          draft.CacheProvider
}

// NewInjuryClient creates a new injury feed client.
func NewInjuryClient(cfg InjuryClientConfig, logger *logrus.Logger) *InjuryClient {
	if cfg.URL == "" {
		cfg.URL = DefaultInjuryFeedURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerMin <= 0 {
		cfg.RequestsPerMin = 6
	}
	if logger == nil {
		logger = logrus.New()
	}

	settings := gobreaker.Settings{
		Name:        "espn-injuries",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Injury feed circuit breaker state change")
		},
	}

	return &InjuryClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMin)/60.0), 1),
		breaker:    gobreaker.NewCircuitBreaker(settings),
		cache:      cfg.Cache,
		logger:     logger,
		url:        cfg.URL,
	}
}

// espnInjuryFeed is the slice of the feed response we read. Unknown fields
// are ignored by the decoder.
type espnInjuryFeed struct {
	Injuries []struct {
		Status  string `json:"status"`
		Date    string `json:"date"`
		Athlete struct {
			DisplayName string `json:"displayName"`
		} `json:"athlete"`
		Type struct {
			Description string `json:"description"`
		} `json:"type"`
		Details struct {
			Type string `json:"type"`
		} `json:"details"`
	} `json:"injuries"`
}

// Fetch returns the current injury report keyed by clean player name.
// Results are cached, so repeated sheet builds inside the TTL reuse one
// feed call.
func (c *InjuryClient) Fetch(ctx context.Context) (map[string]draft.InjuryStatus, error) {
	if c.cache != nil {
		var cached map[string]draft.InjuryStatus
		if err := c.cache.GetSimple(injuryCacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("injury feed rate limit: %w", err)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchFeed(ctx)
	})
	if err != nil {
		return nil, err
	}
	report := out.(map[string]draft.InjuryStatus)

	if c.cache != nil && len(report) > 0 {
		if err := c.cache.SetSimple(injuryCacheKey, report, 15*time.Minute); err != nil {
			c.logger.Warnf("Failed to cache injury report: %v", err)
		}
	}

	return report, nil
}

func (c *InjuryClient) fetchFeed(ctx context.Context) (map[string]draft.InjuryStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build injury request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch injury feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("injury feed returned status %d", resp.StatusCode)
	}

	var feed espnInjuryFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode injury feed: %w", err)
	}

	report := make(map[string]draft.InjuryStatus, len(feed.Injuries))
	for _, item := range feed.Injuries {
		if item.Athlete.DisplayName == "" {
			continue
		}
		clean, _ := cheatsheet.NormalizeName(item.Athlete.DisplayName)
		if clean == "" {
			continue
		}

		status := item.Status
		if status == "" {
			status = item.Type.Description
		}
		entry := draft.InjuryStatus{
			Status: status,
			Detail: item.Details.Type,
		}
		if item.Date != "" {
			if ts, err := time.Parse(time.RFC3339, item.Date); err == nil {
				entry.Updated = ts
			}
		}
		report[clean] = entry
	}

	c.logger.WithField("players", len(report)).Debug("Fetched injury report")
	return report, nil
}
