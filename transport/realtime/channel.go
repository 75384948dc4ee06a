package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/sirupsen/logrus"

	"github.com/lmoreno/duolobby/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Channel event names.
const (
	EventJoinGame = "join_game"
	EventRedirect = "redirect_to_game"
)

var (
	ErrAlreadyConnected = errors.New("channel already connected")
	ErrNotConnected     = errors.New("channel not connected")
)

// Envelope is the wire format for channel messages.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinGame announces which room and role this connection belongs to.
type JoinGame struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

// Redirect is the server's signal that the match is ready.
type Redirect struct {
	URL string `json:"url"`
}

// Handler processes the payload of one server-pushed event.
type Handler func(data json.RawMessage)

// Options tunes channel behavior. Zero values fall back to defaults.
type Options struct {
	HandshakeTimeout time.Duration
	ReconnectMin     time.Duration
	ReconnectMax     time.Duration
}

// Channel is a persistent event channel to the lobby server.
type Channel struct {
	url      string
	dialer   *websocket.Dialer
	handlers map[string]Handler
	retry    *backoff.Backoff
	log      *logrus.Entry

	mu        sync.Mutex
	conn      *websocket.Conn
	lastJoin  *JoinGame
	connected bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewChannel creates a channel for the websocket endpoint at url.
// The channel does not connect until Connect is called.
func NewChannel(url string, opts Options) *Channel {
	if opts.HandshakeTimeout == 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	if opts.ReconnectMin == 0 {
		opts.ReconnectMin = 500 * time.Millisecond
	}
	if opts.ReconnectMax == 0 {
		opts.ReconnectMax = 15 * time.Second
	}

	return &Channel{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: opts.HandshakeTimeout,
		},
		handlers: make(map[string]Handler),
		retry: &backoff.Backoff{
			Min:    opts.ReconnectMin,
			Max:    opts.ReconnectMax,
			Jitter: true,
		},
		log:  logrus.WithField("component", "realtime"),
		done: make(chan struct{}),
	}
}

// On registers a handler for a server-pushed event. Handlers must be
// registered before Connect; the server may push an event at any time once
// the connection exists, so late registration risks missing it.
func (c *Channel) On(event string, h Handler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return ErrAlreadyConnected
	}
	c.handlers[event] = h
	return nil
}

// Connect dials the server and starts the read and ping loops.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.mu.Unlock()

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump(conn)
	go c.pingLoop(conn)

	c.log.WithField("url", c.url).Debug("Channel connected")
	return nil
}

// Emit sends an event to the server.
func (c *Channel) Emit(event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(Envelope{Event: event, Data: payload})
}

// EmitJoin announces the room/role pair for this connection and remembers it
// so the announcement can be replayed after a redial.
func (c *Channel) EmitJoin(join JoinGame) error {
	c.mu.Lock()
	c.lastJoin = &join
	c.mu.Unlock()

	return c.Emit(EventJoinGame, join)
}

// Close shuts the channel down and stops any reconnect attempts.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// readPump reads server-pushed events and dispatches them to handlers.
// When the connection drops, it hands off to the reconnect loop.
func (c *Channel) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}

			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("Channel read failed")
			}
			c.reconnect()
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.WithError(err).Warn("Dropping malformed channel message")
			continue
		}

		metrics.EventsReceived.WithLabelValues(env.Event).Inc()

		c.mu.Lock()
		handler := c.handlers[env.Event]
		c.mu.Unlock()

		if handler == nil {
			c.log.WithField("event", env.Event).Debug("No handler for event")
			continue
		}
		handler(env.Data)
	}
}

// pingLoop keeps the connection alive. It stops when writing a ping to this
// particular connection fails, which also makes the read loop fail and
// triggers the redial.
func (c *Channel) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.ping(conn); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// ping sends a keepalive control frame. WriteControl may be called
// concurrently with the data writer, so pings never interleave with an Emit
// holding the write lock.
func (c *Channel) ping(conn *websocket.Conn) error {
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// reconnect redials the server with jittered backoff until it succeeds or the
// channel is closed, then replays the last join announcement.
func (c *Channel) reconnect() {
	for {
		d := c.retry.Duration()

		select {
		case <-c.done:
			return
		case <-time.After(d):
		}

		conn, _, err := c.dialer.Dial(c.url, nil)
		if err != nil {
			c.log.WithError(err).WithField("backoff", d).Debug("Redial failed")
			continue
		}

		c.retry.Reset()
		metrics.ChannelReconnects.Inc()

		c.mu.Lock()
		c.conn = conn
		lastJoin := c.lastJoin
		c.mu.Unlock()

		go c.readPump(conn)
		go c.pingLoop(conn)

		// Re-associate this connection with its room.
		if lastJoin != nil {
			if err := c.Emit(EventJoinGame, *lastJoin); err != nil {
				c.log.WithError(err).Warn("Failed to replay join after redial")
			}
		}

		c.log.Info("Channel reconnected")
		return
	}
}
