package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	v1 "github.com/nahoc/boundless-ws/internal/domain/order/v1"
	"github.com/nahoc/boundless-ws/pkg/config"
	"github.com/nahoc/boundless-ws/pkg/logger"
)

// State is the connection lifecycle state.
type State int32

// Connection lifecycle states. Closed is terminal; the client never
// re-establishes a dropped connection on its own.
const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
)

// Sink consumes raw order frames from the connection.
type Sink interface {
	Enqueue(ctx context.Context, envelope *v1.StreamEnvelope)
	Process(ctx context.Context)
	Clear()
}

// Client owns the order stream connection lifecycle.
type Client struct {
	config    config.StreamConfig
	handshake *Handshake
	sink      Sink
	logger    logger.Interface
	dialer    *websocket.Dialer

	mu    sync.Mutex
	conn  *websocket.Conn
	state State
}

// NewClient creates a new stream client.
func NewClient(config config.StreamConfig, handshake *Handshake, sink Sink, logger logger.Interface) *Client {
	return &Client{
		config:    config,
		handshake: handshake,
		sink:      sink,
		logger:    logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: config.HandshakeTimeout,
		},
		state: StateIdle,
	}
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect authenticates and opens the stream. On failure the client holds no
// connection; restarting is left to the surrounding deployment.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateOpen {
		c.mu.Unlock()
		return fmt.Errorf("stream client is already connected")
	}
	c.state = StateConnecting
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "connecting to order stream")

	conn, err := c.establishConnection(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()

	go c.readLoop(ctx, conn)

	// drain anything left over from a previous connection
	c.sink.Process(ctx)

	c.logger.InfoContext(ctx, "order stream connected")
	return nil
}

func (c *Client) establishConnection(ctx context.Context) (*websocket.Conn, error) {
	credential, err := c.handshake.BuildCredential(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build stream credential: %w", err)
	}

	headerValue, err := credential.HeaderValue()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("X-Auth-Data", headerValue)
	header.Set("X-Forwarded-Proto", "https")
	header.Set("X-Forwarded-Port", "443")
	header.Set("X-Forwarded-For", "127.0.0.1")

	streamURL, err := streamURL(c.config.BaseURL)
	if err != nil {
		return nil, err
	}

	conn, resp, err := c.dialer.DialContext(ctx, streamURL, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("failed to open order stream: %w", err)
	}

	return conn, nil
}

// readLoop dispatches inbound frames until the connection drops. An
// unexpected close is logged but neither clears the queue nor ends the
// process.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			deliberate := c.conn == nil
			if !deliberate {
				c.conn = nil
				c.state = StateClosed
			}
			c.mu.Unlock()

			if !deliberate {
				c.logger.ErrorContext(ctx, fmt.Errorf("order stream disconnected: %w", err), logger.Field{
					Key:   "action",
					Value: "stream_closed",
				})
			}
			return
		}

		c.handleMessage(ctx, data)
	}
}

// handleMessage parses one frame. Malformed frames are logged and dropped;
// well-formed frames without an order payload (heartbeats) are ignored.
func (c *Client) handleMessage(ctx context.Context, data []byte) {
	var envelope v1.StreamEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logger.ErrorContext(ctx, fmt.Errorf("failed to parse stream frame: %w", err), logger.Field{
			Key:   "frame",
			Value: string(data),
		})
		return
	}

	if envelope.Order == nil {
		return
	}

	c.sink.Enqueue(ctx, &envelope)
}

// Disconnect force-closes the transport and clears the queue. It does not
// wait for an in-flight batch and is safe to call when already closed.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.state = StateClosed
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}

	c.sink.Clear()
	c.logger.Info("order stream client disconnected")
}

// streamURL derives the websocket endpoint from the base service URL.
func streamURL(baseURL string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base url: %w", err)
	}

	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	case "http":
		parsed.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported base url scheme %q", parsed.Scheme)
	}

	return parsed.JoinPath("ws", "orders").String(), nil
}
