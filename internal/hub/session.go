package hub

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Outbound queue length per session.
	sendQueue = 64
)

// Session is one connected client. Reads and writes each run on their
// own goroutine; everything else happens on the hub's dispatcher.
type Session struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *logrus.Entry
}

func newSession(h *Hub, conn *websocket.Conn) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendQueue),
		logger: h.logger.WithField("session", id),
	}
}

// sendEvent queues an event for this session. A session whose queue is
// full is dropped rather than allowed to stall the dispatcher.
func (s *Session) sendEvent(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).WithField("event", event).Error("Failed to marshal payload")
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		s.logger.WithError(err).WithField("event", event).Error("Failed to marshal frame")
		return
	}
	select {
	case s.send <- frame:
	default:
		// Closing the connection makes the read pump unregister the
		// session; unregistering here directly would deadlock the
		// dispatcher against itself.
		s.logger.WithField("event", event).Warn("Send queue full, dropping connection")
		_ = s.conn.Close()
	}
}

func (s *Session) close() {
	close(s.send)
}

// readPump reads frames off the connection and hands them to the
// dispatcher. It exits on any read error, which covers the normal
// disconnect path too.
func (s *Session) readPump() {
	defer func() {
		select {
		case s.hub.unregister <- s:
		case <-s.hub.done:
		}
		_ = s.conn.Close()
	}()
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WithError(err).Debug("Read failed")
			}
			return
		}
		var frame Envelope
		if err := json.Unmarshal(data, &frame); err != nil {
			s.logger.WithError(err).Warn("Dropping unparseable frame")
			continue
		}
		select {
		case s.hub.inbound <- inboundEvent{session: s, frame: frame}:
		case <-s.hub.done:
			return
		}
	}
}

// writePump drains the send queue onto the connection. Delivery to one
// session is FIFO; there is no ordering guarantee across sessions.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
