package wire

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrLineTooLong is returned by ReadLine when a line exceeded MaxLineLength;
// the remainder up to the next newline has already been discarded, so the
// connection is safe to keep reading from (spec 4.1: "the remainder of the
// line is consumed").
var ErrLineTooLong = errors.New("request too long")

// BackpressureTimeout is how long consecutive write failures (including
// write-deadline timeouts) are tolerated before the connection is marked
// gone (spec 4.4/5.3). A full outbound buffer only drops lines; it does
// not start this clock.
const BackpressureTimeout = time.Second

// writeDeadline bounds each individual flush attempt so a single stalled
// socket can never block the writer goroutine indefinitely.
const writeDeadline = 200 * time.Millisecond

// Conn wraps a net.Conn with the line-oriented read side and a buffered,
// best-effort, non-blocking write side described in spec sections 4.1 and
// 5 (commands/handlers never block on I/O; writes enqueue and a dedicated
// goroutine drains them under a write deadline).
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader

	out      chan string
	outOnce  sync.Once
	done     chan struct{}
	goneOnce sync.Once
	gone     chan struct{}

	log *zerolog.Logger
}

// NewConn starts the background writer goroutine and returns a ready Conn.
// outBuf bounds how many queued outbound lines are tolerated before newer
// writes are dropped (logged, never blocking the caller).
func NewConn(raw net.Conn, outBuf int, log *zerolog.Logger) *Conn {
	c := &Conn{
		raw:    raw,
		reader: bufio.NewReader(raw),
		out:    make(chan string, outBuf),
		done:   make(chan struct{}),
		gone:   make(chan struct{}),
		log:    log,
	}
	go c.writeLoop()
	return c
}

// ReadLine blocks for the next newline-terminated line (without the
// newline). It returns ErrLineTooLong for oversized lines without closing
// the connection; any other error means the peer is gone.
func (c *Conn) ReadLine() (string, error) {
	var buf []byte
	overflow := false
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '\n' {
			break
		}
		if b == '\r' {
			continue
		}
		if len(buf) >= MaxLineLength {
			overflow = true
			continue
		}
		buf = append(buf, b)
	}
	if overflow {
		return "", ErrLineTooLong
	}
	return string(buf), nil
}

// Write enqueues a line for asynchronous delivery. It never blocks: if the
// outbound buffer is full the line is dropped and logged, matching the
// backpressure policy in spec section 5.
func (c *Conn) Write(line string) {
	select {
	case c.out <- line:
	default:
		if c.log != nil {
			c.log.Warn().Str("line", line).Msg("dropping outbound line, client backpressured")
		}
	}
}

// Gone reports a channel that closes once write failures have persisted
// for longer than BackpressureTimeout, meaning this connection should be
// treated as disconnected.
func (c *Conn) Gone() <-chan struct{} {
	return c.gone
}

func (c *Conn) markGone() {
	c.goneOnce.Do(func() { close(c.gone) })
}

func (c *Conn) writeLoop() {
	var backpressureSince time.Time
	for {
		select {
		case line, ok := <-c.out:
			if !ok {
				return
			}
			_ = c.raw.SetWriteDeadline(time.Now().Add(writeDeadline))
			_, err := io.WriteString(c.raw, line+"\n")
			if err != nil {
				if backpressureSince.IsZero() {
					backpressureSince = time.Now()
				}
				if time.Since(backpressureSince) > BackpressureTimeout {
					c.markGone()
					return
				}
				continue
			}
			backpressureSince = time.Time{}
		case <-c.done:
			return
		}
	}
}

// Close flushes best-effort (the writer goroutine gets one more drain
// window) then tears down the socket, matching the "flush outbound buffer
// with best effort... up to a drain deadline of one frame" rule for a
// client entering GONE (spec section 4.4).
func (c *Conn) Close(drain time.Duration) error {
	deadline := time.After(drain)
drain:
	for {
		select {
		case line, ok := <-c.out:
			if !ok {
				break drain
			}
			_ = c.raw.SetWriteDeadline(time.Now().Add(writeDeadline))
			_, _ = io.WriteString(c.raw, line+"\n")
		case <-deadline:
			break drain
		default:
			break drain
		}
	}
	c.outOnce.Do(func() { close(c.done) })
	return c.raw.Close()
}

// RemoteAddr exposes the peer address for logging and allow-list checks.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
