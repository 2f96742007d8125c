package exchanges

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/TerryChengTW/coin-porter/internal/domain"
	"github.com/TerryChengTW/coin-porter/pkg/config"
)

func testClient(baseURL string, maxRetries int) *httpClient {
	return newHTTPClient("testex", config.ExchangeConfig{
		BaseURL:          baseURL,
		MaxRetries:       maxRetries,
		RetryBackoffBase: 1,
	}, zerolog.Nop())
}

func getFrom(t *testing.T, c *httpClient, rawURL string) ([]byte, error) {
	t.Helper()
	return c.getJSON(context.Background(), func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, rawURL, nil)
	})
}

func TestGetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := getFrom(t, testClient(srv.URL, 0), srv.URL)
	if err != nil {
		t.Fatalf("getJSON() error = %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s", body)
	}
}

func TestGetJSON_RetriesServerError(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	body, err := getFrom(t, testClient(srv.URL, 2), srv.URL)
	if err != nil {
		t.Fatalf("getJSON() error = %v", err)
	}
	if string(body) != `[]` || hits != 2 {
		t.Errorf("body = %s after %d hits, want [] after 2", body, hits)
	}
}

func TestGetJSON_Classification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   domain.FetchErrorKind
	}{
		{"Unauthorized", http.StatusUnauthorized, domain.FetchUnauthorized},
		{"Forbidden", http.StatusForbidden, domain.FetchUnauthorized},
		{"Rate limited", http.StatusTooManyRequests, domain.FetchRateLimited},
		{"Server error", http.StatusBadGateway, domain.FetchNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			// Zero retries so the terminal status classifies immediately.
			_, err := getFrom(t, testClient(srv.URL, 0), srv.URL)
			fe, ok := domain.AsFetchError(err)
			if !ok {
				t.Fatalf("error %v is not a FetchError", err)
			}
			if fe.Kind != tt.want {
				t.Errorf("kind = %s, want %s", fe.Kind, tt.want)
			}
			if fe.ExchangeID != "testex" {
				t.Errorf("exchange = %s, want testex", fe.ExchangeID)
			}
		})
	}
}

func TestGetJSON_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := testClient(srv.URL, 3).getJSON(ctx, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, srv.URL, nil)
	})
	fe, ok := domain.AsFetchError(err)
	if !ok {
		t.Fatalf("error %v is not a FetchError", err)
	}
	if fe.Kind != domain.FetchTimeout {
		t.Errorf("kind = %s, want %s", fe.Kind, domain.FetchTimeout)
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		base    int
		want    time.Duration
	}{
		{0, 1, time.Second},
		{1, 1, 2 * time.Second},
		{3, 2, 16 * time.Second},
		{0, 0, time.Second},
		{10, 1, 64 * time.Second},
	}
	for _, tt := range tests {
		if got := calculateBackoff(tt.attempt, tt.base); got != tt.want {
			t.Errorf("calculateBackoff(%d, %d) = %v, want %v", tt.attempt, tt.base, got, tt.want)
		}
	}
}
