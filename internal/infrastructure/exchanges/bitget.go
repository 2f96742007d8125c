package exchanges

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/TerryChengTW/coin-porter/pkg/config"
)

// BitgetFetcher pulls /api/v2/spot/public/coins. Unlike the other two this
// is a public endpoint: no credentials, no signing.
type BitgetFetcher struct {
	cfg  config.ExchangeConfig
	http *httpClient
}

func NewBitgetFetcher(cfg config.ExchangeConfig, logger zerolog.Logger) *BitgetFetcher {
	return &BitgetFetcher{
		cfg:  cfg,
		http: newHTTPClient("bitget", cfg, logger),
	}
}

func (f *BitgetFetcher) ExchangeID() string { return "bitget" }

func (f *BitgetFetcher) FetchCapabilities(ctx context.Context, coin string) (json.RawMessage, error) {
	return f.http.getJSON(ctx, func() (*http.Request, error) {
		endpoint := f.cfg.BaseURL + "/api/v2/spot/public/coins"
		if coin != "" {
			q := url.Values{}
			q.Set("coin", strings.ToUpper(coin))
			endpoint += "?" + q.Encode()
		}
		return http.NewRequest(http.MethodGet, endpoint, nil)
	})
}
