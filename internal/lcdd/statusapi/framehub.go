package statusapi

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// frameHub fans a published FrameSnapshot out to every attached /ws/frame
// subscriber. It is adapted from pkg/wsproxy's "relay a byte stream to a
// websocket, mutex-guarded idempotent Close()" shape, but reshaped from a
// 1:1 relay into a broadcast: the renderer has one outbound stream (frames)
// and the status API may have zero or many monitoring clients attached to
// it, unlike a serial/VNC console which relays exactly one peer.
type frameHub struct {
	mu   sync.Mutex
	subs map[*frameSub]struct{}
	log  *zerolog.Logger
}

func newFrameHub(log *zerolog.Logger) *frameHub {
	return &frameHub{subs: make(map[*frameSub]struct{}), log: log}
}

// frameSub is one attached websocket connection's outbound queue. Writes
// never block the publisher: a subscriber that falls behind has frames
// dropped for it, the same backpressure policy wire.Conn.Write applies to
// protocol clients.
type frameSub struct {
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.Mutex
	closed bool
}

const frameSubBuffer = 8

func (h *frameHub) subscribe(conn *websocket.Conn) *frameSub {
	sub := &frameSub{conn: conn, send: make(chan []byte, frameSubBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *frameHub) unsubscribe(sub *frameSub) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.close()
}

// publish encodes snap once and offers it to every subscriber, dropping it
// for any subscriber whose queue is full rather than blocking the caller
// (the render loop calls this once per frame and must never stall on a
// slow monitoring client).
func (h *frameHub) publish(snap FrameSnapshot) {
	body, err := json.Marshal(snap)
	if err != nil {
		if h.log != nil {
			h.log.Warn().Err(err).Msg("marshal frame snapshot")
		}
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.send <- body:
		default:
			if h.log != nil {
				h.log.Debug().Msg("dropping frame for backpressured /ws/frame subscriber")
			}
		}
	}
}

// run drains sub.send to its websocket until the connection errors or the
// hub closes it, mirroring forwardPTYToWS's write loop.
func (s *frameSub) run() {
	for body := range s.send {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return
		}
		if err := s.conn.WriteMessage(websocket.TextMessage, body); err != nil {
			return
		}
	}
}

func (s *frameSub) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
	_ = s.conn.Close()
}
