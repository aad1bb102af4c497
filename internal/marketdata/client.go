// Package marketdata fetches token market snapshots from a
// DexScreener-compatible pairs API.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dexsentry/internal/domain"
)

// DefaultTimeout bounds one pairs API call.
const DefaultTimeout = 10 * time.Second

// ErrUnavailable marks transport failures and malformed responses.
// Both mean the same thing to the caller: no usable snapshot this
// cycle for this token.
var ErrUnavailable = errors.New("market data unavailable")

// Client fetches pair data for single token addresses.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
	now      func() time.Time
}

// Option configures Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithClock sets the time source used for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a pairs API client.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: DefaultTimeout},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// pairsResponse is the raw API response for one token address.
type pairsResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []pair `json:"pairs"`
}

type pair struct {
	PairAddress     string        `json:"pairAddress"`
	BaseToken       token         `json:"baseToken"`
	PriceUsd        string        `json:"priceUsd"`
	Volume          periodValues  `json:"volume"`
	PriceChange     periodValues  `json:"priceChange"`
	VolumeChange    periodValues  `json:"volumeChange"`
	LiquidityChange periodValues  `json:"liquidityChange"`
	Liquidity       liquidity     `json:"liquidity"`
	Info            pairInfo      `json:"info"`
	Dev             string        `json:"dev"`
	TotalSupply     float64       `json:"totalSupply"`
	Holders         []holderEntry `json:"holders"`
}

type token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type periodValues struct {
	H24 float64 `json:"h24"`
}

type liquidity struct {
	Usd float64 `json:"usd"`
}

type pairInfo struct {
	Description string `json:"description"`
}

type holderEntry struct {
	Address string  `json:"address"`
	Balance float64 `json:"balance"`
}

// Fetch retrieves the primary pair for the token address and converts
// it into a snapshot. Any transport error, non-2xx status, undecodable
// body or pairless response maps to ErrUnavailable.
func (c *Client) Fetch(ctx context.Context, address string) (*domain.TokenSnapshot, error) {
	url := c.endpoint + "/" + address
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %s", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed pairsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %s", ErrUnavailable, err)
	}
	if len(parsed.Pairs) == 0 {
		return nil, fmt.Errorf("%w: no pairs for %s", ErrUnavailable, address)
	}

	snap, err := c.toSnapshot(&parsed.Pairs[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return snap, nil
}

// toSnapshot converts the primary pair into a domain snapshot.
func (c *Client) toSnapshot(p *pair) (*domain.TokenSnapshot, error) {
	price := 0.0
	if p.PriceUsd != "" {
		var err error
		price, err = strconv.ParseFloat(p.PriceUsd, 64)
		if err != nil {
			return nil, fmt.Errorf("parse priceUsd %q: %s", p.PriceUsd, err)
		}
	}

	snap := &domain.TokenSnapshot{
		Address:            p.BaseToken.Address,
		Symbol:             p.BaseToken.Symbol,
		Developer:          p.Dev,
		Description:        p.Info.Description,
		Price:              price,
		Volume24h:          p.Volume.H24,
		LiquidityUSD:       p.Liquidity.Usd,
		PriceChange24h:     p.PriceChange.H24,
		VolumeChange24h:    p.VolumeChange.H24,
		LiquidityChange24h: p.LiquidityChange.H24,
		TotalSupply:        p.TotalSupply,
		FetchedAt:          c.now().UnixMilli(),
	}
	for _, h := range p.Holders {
		snap.Holders = append(snap.Holders, domain.HolderBalance{
			Address: h.Address,
			Balance: h.Balance,
		})
	}
	return snap, nil
}
