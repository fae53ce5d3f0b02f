package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/cryptotracker/internal/domain"
	"github.com/vadiminshakov/cryptotracker/pkg/retrier"
)

const (
	DefaultCoinMarketCapURL   = "https://pro-api.coinmarketcap.com/v1/cryptocurrency/listings/latest"
	DefaultCoinMarketCapLimit = 5000

	coinMarketCapTimeout = 30 * time.Second
	coinMarketCapQuote   = "USD"
)

// listing keys renamed to the flat record layout understood by domain.ParseCoinStats
var coinMarketCapKeys = map[string]string{
	"cmc_rank":           "rank",
	"circulating_supply": "available_supply",
}

var coinMarketCapQuoteKeys = map[string]string{
	"price":              "price_usd",
	"volume_24h":         "24h_volume_usd",
	"market_cap":         "market_cap_usd",
	"percent_change_1h":  "percent_change_1h",
	"percent_change_24h": "percent_change_24h",
	"percent_change_7d":  "percent_change_7d",
}

// CoinMarketCapClient lists coins from the CoinMarketCap listings endpoint.
type CoinMarketCapClient struct {
	apiURL     string
	apiKey     string
	limit      int
	httpClient *http.Client
	retrier    *retrier.Retrier
}

// NewCoinMarketCapClient creates a client. Empty apiURL and non-positive limit fall back to defaults.
func NewCoinMarketCapClient(apiURL, apiKey string, limit int, opts ...retrier.Option) *CoinMarketCapClient {
	if apiURL == "" {
		apiURL = DefaultCoinMarketCapURL
	}
	if limit <= 0 {
		limit = DefaultCoinMarketCapLimit
	}

	return &CoinMarketCapClient{
		apiURL: apiURL,
		apiKey: apiKey,
		limit:  limit,
		httpClient: &http.Client{
			Timeout: coinMarketCapTimeout,
		},
		retrier: retrier.New(append([]retrier.Option{retrier.WithRetryIf(isRetryableStatus)}, opts...)...),
	}
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("coinmarketcap returned status %d: %s", e.code, e.body)
}

func isRetryableStatus(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= http.StatusInternalServerError
	}
	return true
}

type listingsResponse struct {
	Data   []map[string]any `json:"data"`
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

// ListCoins downloads the latest listings and returns one flat record per coin.
func (c *CoinMarketCapClient) ListCoins(ctx context.Context) ([]domain.RawCoin, error) {
	if c.apiKey == "" {
		return nil, errors.New("coinmarketcap API key is empty")
	}

	resp, err := retrier.DoWithData(c.retrier, ctx, c.fetchListings)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch coinmarketcap listings")
	}
	if resp.Status.ErrorCode != 0 {
		return nil, errors.Errorf("coinmarketcap error %d: %s", resp.Status.ErrorCode, resp.Status.ErrorMessage)
	}

	coins := make([]domain.RawCoin, 0, len(resp.Data))
	for _, listing := range resp.Data {
		coins = append(coins, flattenListing(listing))
	}

	return coins, nil
}

func (c *CoinMarketCapClient) fetchListings(ctx context.Context) (*listingsResponse, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid coinmarketcap URL")
	}
	q := u.Query()
	q.Set("start", "1")
	q.Set("limit", strconv.Itoa(c.limit))
	q.Set("convert", coinMarketCapQuote)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var listings listingsResponse
	if err := dec.Decode(&listings); err != nil {
		return nil, errors.Wrap(err, "failed to decode listings")
	}

	return &listings, nil
}

// flattenListing lifts the USD quote to the top level and renames keys.
// Nested values other than the USD quote are dropped.
func flattenListing(listing map[string]any) domain.RawCoin {
	coin := make(domain.RawCoin, len(listing))
	for key, value := range listing {
		if key == "quote" {
			continue
		}
		if _, nested := value.(map[string]any); nested {
			continue
		}
		if _, nested := value.([]any); nested {
			continue
		}
		if renamed, ok := coinMarketCapKeys[key]; ok {
			key = renamed
		}
		coin[key] = value
	}

	quotes, _ := listing["quote"].(map[string]any)
	usd, _ := quotes[coinMarketCapQuote].(map[string]any)
	for key, value := range usd {
		if renamed, ok := coinMarketCapQuoteKeys[key]; ok {
			coin[renamed] = value
		}
	}

	return coin
}
