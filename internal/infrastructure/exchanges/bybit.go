package exchanges

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TerryChengTW/coin-porter/pkg/config"
)

const bybitRecvWindow = "5000"

// BybitFetcher pulls /v5/asset/coin/query-info. The endpoint accepts an
// optional coin filter, which cuts the payload down considerably for
// single-coin refreshes.
type BybitFetcher struct {
	cfg  config.ExchangeConfig
	http *httpClient
}

func NewBybitFetcher(cfg config.ExchangeConfig, logger zerolog.Logger) *BybitFetcher {
	return &BybitFetcher{
		cfg:  cfg,
		http: newHTTPClient("bybit", cfg, logger),
	}
}

func (f *BybitFetcher) ExchangeID() string { return "bybit" }

func (f *BybitFetcher) FetchCapabilities(ctx context.Context, coin string) (json.RawMessage, error) {
	return f.http.getJSON(ctx, func() (*http.Request, error) {
		q := url.Values{}
		if coin != "" {
			q.Set("coin", strings.ToUpper(coin))
		}
		query := q.Encode()

		req, err := http.NewRequest(http.MethodGet, f.cfg.BaseURL+"/v5/asset/coin/query-info?"+query, nil)
		if err != nil {
			return nil, err
		}

		// v5 signature: HMAC-SHA256 over timestamp + key + recvWindow + query.
		timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
		req.Header.Set("X-BAPI-API-KEY", f.cfg.APIKey)
		req.Header.Set("X-BAPI-TIMESTAMP", timestamp)
		req.Header.Set("X-BAPI-RECV-WINDOW", bybitRecvWindow)
		req.Header.Set("X-BAPI-SIGN", sign(f.cfg.APISecret, timestamp+f.cfg.APIKey+bybitRecvWindow+query))
		return req, nil
	})
}
