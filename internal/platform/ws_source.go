package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"challenge-monitor/internal/domain"
)

// WSSourceConfig configures WebSocket source behavior.
type WSSourceConfig struct {
	// HandshakeTimeout bounds the initial dial. Defaults to 10s.
	HandshakeTimeout time.Duration
	// ReadTimeout bounds each message read. Defaults to 60s.
	ReadTimeout time.Duration
	// ReconnectDelay is the wait between reconnect attempts. Defaults to 2s.
	ReconnectDelay time.Duration
}

// DefaultWSConfig returns default WebSocket source configuration.
func DefaultWSConfig() WSSourceConfig {
	return WSSourceConfig{
		HandshakeTimeout: 10 * time.Second,
		ReadTimeout:      60 * time.Second,
		ReconnectDelay:   2 * time.Second,
	}
}

// wsUpdate is the bridge's push message: one sample per account login.
type wsUpdate struct {
	Login  string         `json:"login"`
	Sample sampleResponse `json:"sample"`
}

// WSSource consumes a push stream of account updates from the platform
// bridge and serves Fetch from the latest cached sample per login.
// Fetch never blocks on the stream; an account with no update yet gets
// ErrNoSample.
type WSSource struct {
	endpoint string
	config   WSSourceConfig
	logger   *log.Logger

	mu      sync.RWMutex
	samples map[string]*domain.AccountSample // keyed by account login

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWSSource creates the source and starts the read loop. It returns
// after the first successful dial; later disconnects reconnect in the
// background.
func NewWSSource(ctx context.Context, endpoint string, config *WSSourceConfig, logger *log.Logger) (*WSSource, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &WSSource{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
		samples:  make(map[string]*domain.AccountSample),
		done:     make(chan struct{}),
	}

	conn, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop(conn)

	return s, nil
}

// Fetch returns the latest cached sample for the account's login.
func (s *WSSource) Fetch(_ context.Context, account *domain.Account) (*domain.AccountSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sample, exists := s.samples[account.AccountNumber]
	if !exists {
		return nil, ErrNoSample
	}

	cp := *sample
	cp.Trades = append([]domain.PlatformTrade(nil), sample.Trades...)
	return &cp, nil
}

// Close stops the read loop and waits for it to finish.
func (s *WSSource) Close() error {
	close(s.done)
	s.wg.Wait()
	return nil
}

func (s *WSSource) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: s.config.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", s.endpoint, err)
	}
	return conn, nil
}

// readLoop consumes push messages, caching the newest sample per login.
// On read failure it reconnects until Close is called.
func (s *WSSource) readLoop(conn *websocket.Conn) {
	defer s.wg.Done()
	defer func() {
		if conn != nil {
			conn.Close()
		}
	}()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		if conn == nil {
			time.Sleep(s.config.ReconnectDelay)
			next, err := s.dial(context.Background())
			if err != nil {
				s.logger.Printf("[platform] reconnect failed: %v", err)
				continue
			}
			conn = next
			s.logger.Printf("[platform] reconnected to %s", s.endpoint)
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			s.logger.Printf("[platform] read failed: %v", err)
			conn.Close()
			conn = nil
			continue
		}

		var update wsUpdate
		if err := json.Unmarshal(data, &update); err != nil {
			s.logger.Printf("[platform] malformed update: %v", err)
			continue
		}
		if update.Login == "" {
			continue
		}

		sample := update.Sample.toDomain()
		s.mu.Lock()
		s.samples[update.Login] = sample
		s.mu.Unlock()
	}
}

var _ AccountDataSource = (*WSSource)(nil)
