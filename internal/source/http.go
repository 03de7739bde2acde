package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
)

// DefaultURLTemplate is the basketball-reference per-game stats page for a season.
const DefaultURLTemplate = "https://www.basketball-reference.com/leagues/NBA_%d_per_game.html"

const maxBodyBytes = 16 << 20

// HTTPOptions configures HTTPSource. Zero values fall back to defaults.
type HTTPOptions struct {
	URLTemplate       string
	Timeout           time.Duration
	RetryMaxAttempts  int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	RequestsPerMinute int
	// BreakerMaxFailures opens the circuit after this many consecutive failures.
	BreakerMaxFailures int
	UserAgent          string
	Logger             *logrus.Logger
}

// HTTPSource fetches season pages over HTTP(S).
type HTTPSource struct {
	httpClient *http.Client
	opts       HTTPOptions
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	log        *logrus.Entry
}

// NewHTTPSource returns a source with a timeout, politeness rate limit and
// circuit breaker. Retries are off unless RetryMaxAttempts > 1.
func NewHTTPSource(opts HTTPOptions) *HTTPSource {
	if opts.URLTemplate == "" {
		opts.URLTemplate = DefaultURLTemplate
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RetryMaxAttempts <= 0 {
		opts.RetryMaxAttempts = 1
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 500 * time.Millisecond
	}
	if opts.RetryMaxDelay <= 0 {
		opts.RetryMaxDelay = 4 * time.Second
	}
	if opts.BreakerMaxFailures <= 0 {
		opts.BreakerMaxFailures = 5
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "nbastats-cli/1.0 (+https://github.com/KaramelBytes/nbastats-cli)"
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}
	maxFailures := uint32(opts.BreakerMaxFailures)
	s := &HTTPSource{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
		limiter:    rate.NewLimiter(limit, 1),
		log:        logger.WithField("source", "bref"),
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "bref",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: breakerNeutral,
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
		},
	})
	return s
}

func (s *HTTPSource) Name() string { return "bref" }

// breakerNeutral reports whether err says nothing about the upstream's health:
// the caller gave up, or the server answered with a definite client error
// such as 404 for a season it does not publish. 429 still counts.
func breakerNeutral(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var ue *UnavailableError
	if errors.As(err, &ue) {
		code := ue.StatusCode
		return code >= 400 && code < 500 && code != http.StatusTooManyRequests
	}
	return false
}

// URL returns the document location for season.
func (s *HTTPSource) URL(season int) string {
	return fmt.Sprintf(s.opts.URLTemplate, season)
}

// Fetch downloads the season page and extracts its first table.
func (s *HTTPSource) Fetch(ctx context.Context, season int) (*analysis.RawTable, error) {
	url := s.URL(season)
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.download(ctx, url)
	})
	if err != nil {
		var ue *UnavailableError
		if errors.As(err, &ue) {
			ue.Season = season
			return nil, ue
		}
		return nil, &UnavailableError{Source: s.Name(), Season: season, Location: url, Err: err}
	}
	raw, err := ExtractTable(bytes.NewReader(out.([]byte)))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source, pe.Season = s.Name(), season
			return nil, pe
		}
		return nil, err
	}
	return raw, nil
}

func (s *HTTPSource) download(ctx context.Context, url string) ([]byte, error) {
	unavailable := func(status int, err error) *UnavailableError {
		return &UnavailableError{Source: s.Name(), Location: url, StatusCode: status, Err: err}
	}
	backoff := s.opts.RetryBaseDelay
	maxAttempts := s.opts.RetryMaxAttempts

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, unavailable(0, err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", s.opts.UserAgent)
		req.Header.Set("Accept", "text/html")

		s.log.WithFields(logrus.Fields{"url": url, "attempt": attempt}).Debug("fetching season page")
		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = unavailable(0, err)
			if isRetryableNetErr(err) && attempt < maxAttempts {
				sleep(ctx, withJitter(backoff), s.opts.RetryMaxDelay)
				backoff *= 2
				continue
			}
			return nil, lastErr
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = unavailable(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
			retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
			if retryable && attempt < maxAttempts {
				wait := withJitter(backoff)
				if ra := resp.Header.Get("Retry-After"); ra != "" {
					if secs, err := parseRetryAfterSeconds(ra); err == nil && secs > 0 {
						wait = time.Duration(secs) * time.Second
					}
				}
				sleep(ctx, wait, s.opts.RetryMaxDelay)
				backoff *= 2
				continue
			}
			return nil, lastErr
		}
		if readErr != nil {
			lastErr = unavailable(resp.StatusCode, fmt.Errorf("read body: %w", readErr))
			if attempt < maxAttempts {
				continue
			}
			return nil, lastErr
		}
		return body, nil
	}
	return nil, lastErr
}

func sleep(ctx context.Context, d, limit time.Duration) {
	if limit > 0 && d > limit {
		d = limit
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	// ±20% jitter
	j := d / 5
	return d - j + time.Duration(rand.Int63n(int64(2*j)+1))
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// parseRetryAfterSeconds interprets a Retry-After header as seconds or an HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}
