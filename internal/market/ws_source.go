package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"solana-arb-scanner/internal/domain"
)

// WSSourceConfig configures WebSocket source behavior.
type WSSourceConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultWSSourceConfig returns default WebSocket configuration.
func DefaultWSSourceConfig() WSSourceConfig {
	return WSSourceConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// WSSource maintains a WebSocket stream of venue quotes. Each frame carries a
// JSON quote payload; the source keeps the latest quote per symbol and Fetch
// returns a snapshot of that map. Reconnects with exponential backoff on read
// errors.
type WSSource struct {
	venue    string
	endpoint string
	config   WSSourceConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	latest   map[string]*domain.Quote
	latestMu sync.RWMutex

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewWSSource connects to the endpoint and starts the read and ping loops.
func NewWSSource(ctx context.Context, venue, endpoint string, config *WSSourceConfig) (*WSSource, error) {
	cfg := DefaultWSSourceConfig()
	if config != nil {
		cfg = *config
	}

	s := &WSSource{
		venue:    venue,
		endpoint: endpoint,
		config:   cfg,
		latest:   make(map[string]*domain.Quote),
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop()

	s.wg.Add(1)
	go s.pingLoop()

	return s, nil
}

func (s *WSSource) Venue() string { return s.venue }

// Fetch returns the latest quote per symbol received over the stream. Returns
// an error only when no quotes have arrived yet, so a stale stream degrades to
// the aggregator's cache fallback rather than silently emptying the snapshot.
func (s *WSSource) Fetch(ctx context.Context) ([]*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.latestMu.RLock()
	defer s.latestMu.RUnlock()

	if len(s.latest) == 0 {
		return nil, fmt.Errorf("%s stream: no quotes received", s.venue)
	}

	quotes := make([]*domain.Quote, 0, len(s.latest))
	for _, q := range s.latest {
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// Close closes the WebSocket connection and stops background loops.
func (s *WSSource) Close() error {
	if s.closed.Swap(true) {
		return nil // Already closed
	}

	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	return nil
}

// connect establishes the WebSocket connection.
func (s *WSSource) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", s.venue, err)
	}

	s.conn = conn
	return nil
}

// readLoop reads quote frames and updates the latest-quote map.
func (s *WSSource) readLoop() {
	defer s.wg.Done()

	reconnectDelay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}

			if !s.reconnecting.Swap(true) {
				go s.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > s.config.MaxReconnectDelay {
				reconnectDelay = s.config.MaxReconnectDelay
			}

			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = s.config.ReconnectDelay

		s.handleMessage(message)
	}
}

// reconnect attempts to re-establish the connection after a delay.
func (s *WSSource) reconnect(delay time.Duration) {
	defer s.reconnecting.Store(false)

	if s.closed.Load() {
		return
	}

	select {
	case <-s.done:
		return
	case <-time.After(delay):
	}

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		log.Printf("[ws-%s] Reconnect failed: %v", s.venue, err)
	}
}

// handleMessage parses a quote frame and stores it under its symbol. Frames
// may carry a single payload or an array.
func (s *WSSource) handleMessage(message []byte) {
	var payloads []quotePayload
	if err := json.Unmarshal(message, &payloads); err != nil {
		var single quotePayload
		if err := json.Unmarshal(message, &single); err != nil {
			return
		}
		payloads = []quotePayload{single}
	}

	for _, p := range payloads {
		q, err := decodeQuote(s.venue, p)
		if err != nil {
			log.Printf("[ws-%s] SKIP malformed quote for %q: %v", s.venue, p.Symbol, err)
			continue
		}

		s.latestMu.Lock()
		// Never let an older frame overwrite a newer quote after a reconnect replay.
		if prev, ok := s.latest[q.Symbol]; !ok || q.Timestamp >= prev.Timestamp {
			s.latest[q.Symbol] = q
		}
		s.latestMu.Unlock()
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (s *WSSource) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			s.connMu.Unlock()
		}
	}
}

var _ QuoteSource = (*WSSource)(nil)
