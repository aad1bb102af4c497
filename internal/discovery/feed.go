// Package discovery streams newly listed trading pairs from a
// WebSocket feed and turns them into watch-list additions.
package discovery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dexsentry/internal/domain"
)

// FeedConfig configures feed connection behavior.
type FeedConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is the interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is the timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultFeedConfig returns the default feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Feed maintains the WebSocket subscription and emits each base token
// address once. The orchestrator consumes the channel between
// evaluations; a full channel blocks the read loop rather than
// dropping a discovery.
type Feed struct {
	url    string
	config FeedConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	// seen is only touched by the read loop.
	seen map[string]bool
	out  chan string

	done   chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewFeed connects to the feed and starts reading. The initial dial
// must succeed; connection drops after that reconnect with backoff.
func NewFeed(ctx context.Context, url string, logger *zap.Logger, config *FeedConfig) (*Feed, error) {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &Feed{
		url:    url,
		config: cfg,
		seen:   make(map[string]bool),
		out:    make(chan string, 1024),
		done:   make(chan struct{}),
		logger: logger.Named("discovery"),
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}

	f.wg.Add(1)
	go f.readLoop()

	f.wg.Add(1)
	go f.pingLoop()

	return f, nil
}

// Addresses returns the channel of discovered token addresses. It is
// closed when the feed shuts down.
func (f *Feed) Addresses() <-chan string {
	return f.out
}

// connect establishes the WebSocket connection.
func (f *Feed) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	f.connMu.Lock()
	f.conn = conn
	f.connMu.Unlock()
	return nil
}

// Close closes the connection and waits for the loops to stop.
func (f *Feed) Close() error {
	if f.closed.Swap(true) {
		return nil // Already closed
	}

	close(f.done)
	f.dropConn(true)
	f.wg.Wait()
	return nil
}

// dropConn closes the current connection. polite sends a close frame
// first.
func (f *Feed) dropConn(polite bool) {
	f.connMu.Lock()
	defer f.connMu.Unlock()
	if f.conn == nil {
		return
	}
	if polite {
		f.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
	f.conn.Close()
	f.conn = nil
}

// readLoop reads frames and reconnects on failure with exponential
// backoff. It owns the out channel.
func (f *Feed) readLoop() {
	defer f.wg.Done()
	defer close(f.out)

	delay := f.config.ReconnectDelay

	for !f.closed.Load() {
		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		if conn == nil {
			select {
			case <-f.done:
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > f.config.MaxReconnectDelay {
				delay = f.config.MaxReconnectDelay
			}

			dialCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := f.connect(dialCtx)
			cancel()
			if err != nil {
				f.logger.Warn("feed reconnect failed", zap.Error(err))
				continue
			}
			f.logger.Info("feed reconnected")
			continue
		}

		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() {
				return
			}
			f.logger.Warn("feed read failed", zap.Error(err))
			f.dropConn(false)
			continue
		}

		// Reset delay on successful read
		delay = f.config.ReconnectDelay

		f.handleMessage(message)
	}
}

// handleMessage emits each previously unseen valid address.
func (f *Feed) handleMessage(message []byte) {
	for _, event := range ParsePairs(message) {
		if !domain.ValidAddress(event.Address) {
			f.logger.Debug("feed address invalid", zap.String("address", event.Address))
			continue
		}
		if f.seen[event.Address] {
			continue
		}
		f.seen[event.Address] = true
		f.logger.Info("pair discovered",
			zap.String("address", event.Address),
			zap.String("symbol", event.Symbol))

		select {
		case f.out <- event.Address:
		case <-f.done:
			return
		}
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
// A dead connection surfaces as a read error in the read loop.
func (f *Feed) pingLoop() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.connMu.Lock()
			if f.conn != nil {
				f.conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
				f.conn.WriteMessage(websocket.PingMessage, nil)
			}
			f.connMu.Unlock()
		}
	}
}
