package exchanges

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/TerryChengTW/coin-porter/pkg/config"
)

// BinanceFetcher pulls /sapi/v1/capital/config/getall, Binance's full
// coin/network capability listing. The endpoint has no per-coin filter, so
// the whole listing comes back and the normalizer narrows it.
type BinanceFetcher struct {
	cfg  config.ExchangeConfig
	http *httpClient
}

func NewBinanceFetcher(cfg config.ExchangeConfig, logger zerolog.Logger) *BinanceFetcher {
	return &BinanceFetcher{
		cfg:  cfg,
		http: newHTTPClient("binance", cfg, logger),
	}
}

func (f *BinanceFetcher) ExchangeID() string { return "binance" }

func (f *BinanceFetcher) FetchCapabilities(ctx context.Context, coin string) (json.RawMessage, error) {
	return f.http.getJSON(ctx, func() (*http.Request, error) {
		// The signature covers the query string including the timestamp,
		// so it is rebuilt on every retry attempt.
		q := url.Values{}
		q.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
		q.Set("recvWindow", "5000")
		encoded := q.Encode()
		signed := encoded + "&signature=" + sign(f.cfg.APISecret, encoded)

		req, err := http.NewRequest(http.MethodGet, f.cfg.BaseURL+"/sapi/v1/capital/config/getall?"+signed, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-MBX-APIKEY", f.cfg.APIKey)
		return req, nil
	})
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
