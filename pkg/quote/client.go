package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vango-dev/quoteboard/internal/errors"
)

// DefaultBaseURL is the Alpha Vantage query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// Client is an Alpha Vantage API client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the query endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client authenticating with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "alphavantage")
	return c
}

type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
	apiMessages
}

type symbolSearchResponse struct {
	BestMatches []map[string]string `json:"bestMatches"`
	apiMessages
}

// apiMessages are the fields Alpha Vantage uses instead of an HTTP error
// status.
type apiMessages struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

func (m apiMessages) err() error {
	switch {
	case m.Note != "":
		return errors.New("E200").WithDetail(m.Note)
	case m.Information != "":
		return errors.New("E200").WithDetail(m.Information)
	}
	return nil
}

// Lookup implements Provider using the GLOBAL_QUOTE function. A missing
// quote or price is ErrNotFound.
func (c *Client) Lookup(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Quote{}, notFound(symbol)
	}

	var resp globalQuoteResponse
	if err := c.get(ctx, url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
	}, &resp); err != nil {
		return Quote{}, err
	}
	if err := resp.err(); err != nil {
		return Quote{}, err
	}
	if resp.ErrorMessage != "" {
		return Quote{}, notFound(symbol)
	}

	raw := resp.GlobalQuote["05. price"]
	if raw == "" {
		return Quote{}, notFound(symbol)
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return Quote{}, errors.New("E200").WithDetailf("invalid price %q", raw).Wrap(err)
	}

	q := Quote{Symbol: symbol, Price: price}
	if s := resp.GlobalQuote["01. symbol"]; s != "" {
		q.Symbol = s
	}
	return q, nil
}

// Search implements Searcher using the SYMBOL_SEARCH function.
func (c *Client) Search(ctx context.Context, keywords string) ([]Match, error) {
	var resp symbolSearchResponse
	if err := c.get(ctx, url.Values{
		"function": {"SYMBOL_SEARCH"},
		"keywords": {keywords},
	}, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	if resp.ErrorMessage != "" {
		return nil, errors.New("E200").WithDetail(resp.ErrorMessage)
	}

	matches := make([]Match, 0, len(resp.BestMatches))
	for _, m := range resp.BestMatches {
		matches = append(matches, Match{
			Symbol: m["1. symbol"],
			Name:   m["2. name"],
		})
	}
	return matches, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.New("E200").Wrap(err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.New("E200").
			WithDetail("Could not reach quote API: " + err.Error()).
			Wrap(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"function", params.Get("function"),
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return errors.New("E200").
			WithDetail(fmt.Sprintf("Quote API returned status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.New("E200").
			WithDetail("Invalid API response: " + err.Error()).
			Wrap(err)
	}
	return nil
}
