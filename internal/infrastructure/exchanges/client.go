// Package exchanges implements the capability fetch layer: one signed REST
// client per supported exchange, all satisfying interfaces.CapabilityFetcher.
// The resolution core never sees HTTP; it receives raw payloads or a
// classified *domain.FetchError.
package exchanges

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/TerryChengTW/coin-porter/internal/domain"
	"github.com/TerryChengTW/coin-porter/pkg/config"
)

// httpClient wraps the shared retry/backoff/classification behavior. Signed
// requests embed a timestamp, so the request is rebuilt on every attempt.
type httpClient struct {
	exchangeID string
	cfg        config.ExchangeConfig
	client     *http.Client
	logger     zerolog.Logger
}

func newHTTPClient(exchangeID string, cfg config.ExchangeConfig, logger zerolog.Logger) *httpClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		exchangeID: exchangeID,
		cfg:        cfg,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		logger: logger.With().Str("component", exchangeID+"_client").Logger(),
	}
}

func (c *httpClient) getJSON(ctx context.Context, build func() (*http.Request, error)) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := calculateBackoff(attempt-1, c.cfg.RetryBackoffBase)
			c.logger.Info().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying request after backoff")
			select {
			case <-ctx.Done():
				return nil, c.classify(ctx.Err())
			case <-time.After(backoff):
			}
		}

		req, err := build()
		if err != nil {
			return nil, c.classify(err)
		}
		req = req.WithContext(ctx)
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if shouldRetryErr(err) {
				continue
			}
			return nil, c.classify(err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			if readErr != nil {
				lastErr = readErr
				continue
			}
			return body, nil
		}

		lastErr = &statusError{code: resp.StatusCode, body: string(body)}
		if shouldRetryStatus(resp.StatusCode) {
			c.logger.Warn().
				Int("status_code", resp.StatusCode).
				Int("attempt", attempt).
				Msg("Received retryable status")
			continue
		}
		return nil, c.classify(lastErr)
	}
	return nil, c.classify(lastErr)
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	msg := e.body
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return http.StatusText(e.code) + ": " + msg
}

func shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func shouldRetryErr(err error) bool {
	// Context expiry is terminal for this fetch; transport hiccups retry.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func calculateBackoff(attempt, baseSeconds int) time.Duration {
	if baseSeconds <= 0 {
		baseSeconds = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(baseSeconds*(1<<attempt)) * time.Second
}

func (c *httpClient) classify(err error) error {
	kind := domain.FetchUnknown
	var se *statusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = domain.FetchTimeout
	case errors.Is(err, context.Canceled):
		kind = domain.FetchNetwork
	case errors.As(err, &se):
		switch {
		case se.code == http.StatusUnauthorized || se.code == http.StatusForbidden:
			kind = domain.FetchUnauthorized
		case se.code == http.StatusTooManyRequests:
			kind = domain.FetchRateLimited
		case se.code >= 500:
			kind = domain.FetchNetwork
		}
	case err != nil:
		kind = domain.FetchNetwork
	}
	return &domain.FetchError{ExchangeID: c.exchangeID, Kind: kind, Err: err}
}
