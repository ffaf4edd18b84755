package sources

import (
	"context"
	"io"
	"net/http"

	"github.com/turtacn/ChemNorm/internal/config"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/pkg/errors"
)

// maxResponseBytes caps provider responses; structure files are small and an
// unbounded read of a misbehaving endpoint must not exhaust memory.
const maxResponseBytes = 8 << 20

// Fetcher is the shared HTTP layer of all provider clients: one http.Client,
// one user agent, one rate limiter.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *RateLimiter
	logger    logging.Logger
}

func NewFetcher(cfg config.SourcesConfig, logger logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.Default()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: ua,
		limiter:   NewRateLimiter(cfg.RateLimitRPS),
		logger:    logger.Named("sources"),
	}
}

// Close releases the rate limiter's refill goroutine.
func (f *Fetcher) Close() { f.limiter.Close() }

// Get performs a rate-limited GET and returns the response body.  Status
// codes map onto SRC error codes: 404 is a per-source miss, 429 a rate
// limit, everything else non-2xx an availability failure.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Acquire(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "rate limiter wait aborted")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "build request").WithDetail(url)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "request failed").WithDetail(url)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeSourceNotFound, "structure not found at source").WithDetail(url)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.New(errors.ErrCodeSourceRateLimited, "source rate limited").WithDetail(url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.New(errors.ErrCodeSourceUnavailable, "unexpected status").
			WithDetail(resp.Status + " " + url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "read response").WithDetail(url)
	}
	return body, nil
}
