package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Errors
var (
	ErrNotOpen = errors.New("channel not open")
	ErrClosed  = errors.New("channel already closed")
)

// Config configures a Channel.
type Config struct {
	HandshakeTimeout time.Duration // Dial handshake deadline
	WriteTimeout     time.Duration // Write deadline for sends
	MessageBuffer    int           // Inbound message channel buffer size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		MessageBuffer:    64,
	}
}

// CloseInfo describes how a channel terminated.
type CloseInfo struct {
	Clean bool  // Negotiated close (normal closure, going away, or local Close)
	Err   error // Underlying read/close error, nil for a local Close
}

// Channel is one live websocket connection. It is created open (by Dial) and
// terminates exactly once, reported on Closed().
type Channel struct {
	conn   *websocket.Conn
	logger *slog.Logger

	messages chan []byte
	closed   chan CloseInfo
	done     chan struct{}

	writeMu      sync.Mutex
	writeTimeout time.Duration

	closeOnce sync.Once
}

// Dial opens a websocket channel against url. A synchronous failure here is
// equivalent to an unclean close for retry purposes; the caller applies the
// same policy to both.
func Dial(ctx context.Context, url string, cfg Config, logger *slog.Logger) (*Channel, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	ch := &Channel{
		conn:         conn,
		logger:       logger,
		messages:     make(chan []byte, cfg.MessageBuffer),
		closed:       make(chan CloseInfo, 1),
		done:         make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
	}

	go ch.readLoop()

	logger.Debug("channel opened", "url", url)
	return ch, nil
}

// Send marshals v to JSON and writes it as a text frame.
func (c *Channel) Send(v any) error {
	select {
	case <-c.done:
		return ErrNotOpen
	default:
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Messages returns the inbound message channel. It is closed when the read
// loop exits.
func (c *Channel) Messages() <-chan []byte {
	return c.messages
}

// Closed returns a channel that receives exactly one CloseInfo when the
// connection terminates, however that happens.
func (c *Channel) Closed() <-chan CloseInfo {
	return c.closed
}

// Close performs a graceful local close. It is safe to call more than once
// and reports a clean close on Closed().
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		err = c.conn.Close()

		c.closed <- CloseInfo{Clean: true}
	})
	return err
}

// readLoop pumps inbound frames into the messages channel until the
// connection dies, then reports the close.
func (c *Channel) readLoop() {
	defer close(c.messages)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			// A local Close races the read error it causes; the Close path
			// already reported a clean close in that case.
			select {
			case <-c.done:
				return
			default:
			}

			c.closeOnce.Do(func() {
				close(c.done)
				c.conn.Close()
				c.closed <- CloseInfo{Clean: isCleanClose(err), Err: err}
			})
			return
		}

		select {
		case c.messages <- data:
		case <-c.done:
			return
		default:
			c.logger.Warn("message buffer full, dropping message")
		}
	}
}

// isCleanClose classifies a read error using the transport's native close
// indicator: normal closure and going-away count as expected shutdown.
func isCleanClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
	)
}
