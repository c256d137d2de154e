package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/ashureev/uiforge/internal/domain"
	"github.com/coder/websocket"
)

// ErrNotConnected is returned when sending on a closed client.
var ErrNotConnected = errors.New("socket: not connected")

// Listener receives the raw payload of one event.
type Listener func(data json.RawMessage)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for the upgrade request.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.dialOpts.HTTPClient = hc
	}
}

// WithHeader adds a header (for example a Cookie) to the upgrade request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		if c.dialOpts.HTTPHeader == nil {
			c.dialOpts.HTTPHeader = http.Header{}
		}
		c.dialOpts.HTTPHeader.Add(key, value)
	}
}

// Client is an explicit session handle for the generation channel. Create one
// per consumer with NewClient; it holds no global state.
//
// Listeners run on the client's read goroutine and must not block.
type Client struct {
	url      string
	dialOpts websocket.DialOptions

	mu   sync.Mutex
	conn *websocket.Conn
	done chan struct{}

	listenersMu sync.RWMutex
	listeners   map[string]map[uint64]Listener
	nextID      uint64
}

// NewClient creates a disconnected client for the channel at url
// (ws:// or wss://).
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:       url,
		listeners: make(map[string]map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the server. It is a no-op when already connected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}

	conn, _, err := websocket.Dial(ctx, c.url, &c.dialOpts)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("socket: dial %s: %w", c.url, err)
	}
	conn.SetReadLimit(maxMessageSize)

	done := make(chan struct{})
	c.conn = conn
	c.done = done
	c.mu.Unlock()

	c.dispatch(EventConnection, domain.ConnectionEvent{Status: StatusConnected})
	go c.readLoop(conn, done)
	return nil
}

// Close disconnects and waits for the read loop to finish. Listeners stay
// registered, so a later Connect resumes delivery.
func (c *Client) Close() error {
	c.mu.Lock()
	conn, done := c.conn, c.done
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close(websocket.StatusNormalClosure, "client closed")
	<-done
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// IsConnected reports whether the client holds an open connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// On registers fn for event and returns a function that removes it.
func (c *Client) On(event string, fn Listener) (unsubscribe func()) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()

	c.nextID++
	id := c.nextID
	if c.listeners[event] == nil {
		c.listeners[event] = make(map[uint64]Listener)
	}
	c.listeners[event][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.listenersMu.Lock()
			defer c.listenersMu.Unlock()
			delete(c.listeners[event], id)
			if len(c.listeners[event]) == 0 {
				delete(c.listeners, event)
			}
		})
	}
}

// GenerateComponent asks the server for a new component, connecting first if
// needed. Results arrive through EventProgress, EventGenerated and EventError.
func (c *Client) GenerateComponent(ctx context.Context, req domain.GenerationRequest) error {
	return c.send(ctx, EventGenerate, "", req)
}

// UpdateComponent asks the server to refine a component. Results arrive
// through EventUpdated and EventError.
func (c *Client) UpdateComponent(ctx context.Context, req domain.RefinementRequest) error {
	return c.send(ctx, EventUpdate, "", req)
}

// Send emits an arbitrary event with a correlation id.
func (c *Client) Send(ctx context.Context, event, id string, data any) error {
	return c.send(ctx, event, id, data)
}

func (c *Client) send(ctx context.Context, event, id string, data any) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}

	msg, err := encode(event, id, data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return fmt.Errorf("socket: write %s: %w", event, err)
	}
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, msg, err := conn.Read(context.Background())
		if err != nil {
			if websocket.CloseStatus(err) == -1 {
				slog.Debug("Socket client read ended", "error", err)
			}
			break
		}

		env, err := decode(msg)
		if err != nil {
			slog.Debug("Socket client dropped malformed message", "error", err)
			continue
		}
		c.dispatchRaw(env.Event, env.Data)
	}

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.done = nil
	}
	c.mu.Unlock()

	c.dispatch(EventConnection, domain.ConnectionEvent{Status: StatusDisconnected})
}

func (c *Client) dispatch(event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	c.dispatchRaw(event, raw)
}

func (c *Client) dispatchRaw(event string, data json.RawMessage) {
	c.listenersMu.RLock()
	fns := make([]Listener, 0, len(c.listeners[event]))
	for _, fn := range c.listeners[event] {
		fns = append(fns, fn)
	}
	c.listenersMu.RUnlock()

	for _, fn := range fns {
		fn(data)
	}
}
