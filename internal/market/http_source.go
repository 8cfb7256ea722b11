package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 500 * time.Millisecond
	DefaultMaxDelay    = 5 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPSource fetches venue quotes from a REST endpoint returning a JSON array
// of quote objects.
type HTTPSource struct {
	venue       string
	endpoint    string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// HTTPSourceOption configures HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.client = client
	}
}

// NewHTTPSource creates a quote source polling the given REST endpoint.
func NewHTTPSource(venue, endpoint string, opts ...HTTPSourceOption) *HTTPSource {
	s := &HTTPSource{
		venue:       venue,
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) Venue() string { return s.venue }

// quotePayload is the wire format for a single venue quote.
type quotePayload struct {
	Symbol      string `json:"symbol"`
	Price       string `json:"price"`
	Volume24h   string `json:"volume_24h"`
	Liquidity   string `json:"liquidity"`
	PoolAddress string `json:"pool_address,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// Fetch retrieves the venue's quotes with retries and exponential backoff.
func (s *HTTPSource) Fetch(ctx context.Context) ([]*domain.Quote, error) {
	delay := s.retryDelay
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * s.backoffMult)
			if delay > s.maxDelay {
				delay = s.maxDelay
			}
		}

		quotes, err := s.fetchOnce(ctx)
		if err == nil {
			return quotes, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("fetch %s quotes: %w", s.venue, lastErr)
}

func (s *HTTPSource) fetchOnce(ctx context.Context) ([]*domain.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payloads []quotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	quotes := make([]*domain.Quote, 0, len(payloads))
	for _, p := range payloads {
		q, err := decodeQuote(s.venue, p)
		if err != nil {
			// Malformed entries are skipped, not fatal; the caller tallies
			// rejected quotes after validation.
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// decodeQuote converts a wire payload into a domain quote. Prices arrive as
// strings to avoid float truncation on the wire.
func decodeQuote(venue string, p quotePayload) (*domain.Quote, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", p.Price, err)
	}

	volume := decimal.Zero
	if p.Volume24h != "" {
		if volume, err = decimal.NewFromString(p.Volume24h); err != nil {
			return nil, fmt.Errorf("parse volume %q: %w", p.Volume24h, err)
		}
	}

	liquidity := decimal.Zero
	if p.Liquidity != "" {
		if liquidity, err = decimal.NewFromString(p.Liquidity); err != nil {
			return nil, fmt.Errorf("parse liquidity %q: %w", p.Liquidity, err)
		}
	}

	ts := p.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}

	return &domain.Quote{
		Symbol:      p.Symbol,
		Price:       price,
		Volume24h:   volume,
		Liquidity:   liquidity,
		Source:      venue,
		PoolAddress: p.PoolAddress,
		Timestamp:   ts,
	}, nil
}

var _ QuoteSource = (*HTTPSource)(nil)
