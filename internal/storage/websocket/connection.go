package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	outboxSize       = 4096
	ackBuffer        = 16
	redialAttempts   = 10
	redialCap        = 30 * time.Second
	writeTimeout     = 10 * time.Second
	handshakeTimeout = 5 * time.Second
	ackTimeout       = 10 * time.Second
)

// link owns the socket. One supervisor goroutine writes the outbox and
// redials after a failure; each socket gets its own ack reader.
type link struct {
	url    string
	dialer *ws.Dialer

	mu      sync.Mutex
	conn    *ws.Conn
	hello   []byte // start_session, replayed on redial
	started bool
	closed  bool

	outbox chan []byte
	acks   chan AckMessage
	stop   chan struct{}
	done   chan struct{} // closed when supervise returns

	dropped atomic.Int64
	logger  *slog.Logger
}

func newLink(logger *slog.Logger) *link {
	return &link{
		dialer: &ws.Dialer{HandshakeTimeout: handshakeTimeout},
		outbox: make(chan []byte, outboxSize),
		acks:   make(chan AckMessage, ackBuffer),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// open dials rawURL with the secret as a query parameter and starts the
// supervisor.
func (l *link) open(rawURL, secret string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid websocket URL: %w", err)
	}
	q := u.Query()
	q.Set("secret", secret)
	u.RawQuery = q.Encode()
	l.url = u.String()

	conn, err := l.dial()
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.conn = conn
	l.started = true
	l.mu.Unlock()

	go l.supervise(conn)
	return nil
}

func (l *link) dial() (*ws.Conn, error) {
	conn, _, err := l.dialer.Dial(l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

func (l *link) supervise(conn *ws.Conn) {
	defer close(l.done)
	for conn != nil {
		err := l.pump(conn)
		if err == nil {
			return
		}
		l.logger.Warn("WebSocket link lost", "error", err)
		conn = l.redial()
	}
}

// pump writes the outbox to conn until stop (nil) or a read or write
// failure.
func (l *link) pump(conn *ws.Conn) error {
	readErr := make(chan error, 1)
	go func() { readErr <- l.readAcks(conn) }()

	for {
		select {
		case <-l.stop:
			_ = conn.WriteControl(ws.CloseMessage,
				ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			return nil
		case err := <-readErr:
			return fmt.Errorf("read: %w", err)
		case data := <-l.outbox:
			if err := writeText(conn, data); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}

func writeText(conn *ws.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(ws.TextMessage, data)
}

func (l *link) readAcks(conn *ws.Conn) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var ack AckMessage
		if err := json.Unmarshal(msg, &ack); err != nil || ack.Type != TypeAck {
			l.logger.Debug("Ignoring non-ack message", "raw", string(msg))
			continue
		}
		select {
		case l.acks <- ack:
		default:
			l.logger.Debug("Ack buffer full, dropping", "for", ack.For)
		}
	}
}

// redial drops the failed socket and dials again with exponential backoff.
// It returns nil when stopped or out of attempts.
func (l *link) redial() *ws.Conn {
	l.mu.Lock()
	if old := l.conn; old != nil {
		_ = old.Close()
		l.conn = nil
	}
	l.mu.Unlock()

	backoff := time.Second
	for attempt := 1; attempt <= redialAttempts; attempt++ {
		l.logger.Info("Reconnecting to WebSocket", "attempt", attempt, "backoff", backoff)
		select {
		case <-l.stop:
			return nil
		case <-time.After(backoff):
		}

		conn, err := l.dial()
		if err == nil {
			// The collector needs the session before any scan.
			if err = l.replayHello(conn); err != nil {
				_ = conn.Close()
			}
		}
		if err != nil {
			l.logger.Warn("Reconnect failed", "attempt", attempt, "error", err)
			backoff = min(backoff*2, redialCap)
			continue
		}

		l.mu.Lock()
		l.conn = conn
		l.mu.Unlock()
		l.logger.Info("WebSocket reconnected", "attempt", attempt)
		return conn
	}

	l.logger.Error("WebSocket reconnect gave up", "attempts", redialAttempts)
	return nil
}

func (l *link) replayHello(conn *ws.Conn) error {
	l.mu.Lock()
	hello := l.hello
	l.mu.Unlock()
	if hello == nil {
		return nil
	}
	return writeText(conn, hello)
}

func (l *link) setHello(data []byte) {
	l.mu.Lock()
	l.hello = data
	l.mu.Unlock()
}

// send queues data without blocking. A full outbox drops the message.
func (l *link) send(data []byte) {
	select {
	case l.outbox <- data:
	default:
		l.dropped.Add(1)
		l.logger.Warn("WebSocket outbox full, dropping message")
	}
}

// request queues data and waits for an ack naming ackFor.
func (l *link) request(data []byte, ackFor string, timeout time.Duration) error {
	l.send(data)

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ack := <-l.acks:
			if ack.For == ackFor {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("timeout waiting for ack of %q", ackFor)
		case <-l.stop:
			return fmt.Errorf("link closed while waiting for ack of %q", ackFor)
		}
	}
}

// close stops the supervisor, which sends the close frame, then releases
// the socket. Safe to call more than once.
func (l *link) close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	started := l.started
	l.mu.Unlock()

	close(l.stop)
	if started {
		<-l.done
	}

	l.mu.Lock()
	conn := l.conn
	l.conn = nil
	l.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}
