// Package hub implements the websocket transport and the synchronization
// protocol between the state store and connected clients.
//
// All store mutations funnel through a single dispatcher goroutine, so
// every replace/append runs to completion before the next inbound event
// is looked at. That serialization is what makes last-write-wins well
// defined: the final value of a raced slice is whichever update the
// dispatcher dequeued last.
package hub

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	syncerrors "github.com/pitstop/sync/errors"
	"github.com/pitstop/sync/internal/state"
	"github.com/pitstop/sync/logging"
	"github.com/pitstop/sync/pkg/models"
)

// Envelope is the wire frame for every event in either direction.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type inboundEvent struct {
	session *Session
	frame   Envelope
}

// Hub keeps the registry of connected sessions and runs the dispatcher.
type Hub struct {
	store  *state.Store
	logger *logrus.Entry

	sessions   map[string]*Session
	register   chan *Session
	unregister chan *Session
	inbound    chan inboundEvent
	// done is closed when the dispatcher exits, releasing any pump
	// still trying to hand it a session or an event.
	done chan struct{}
}

// New creates a Hub around the given store.
func New(store *state.Store) *Hub {
	return &Hub{
		store:      store,
		logger:     logging.NewLogger("hub"),
		sessions:   make(map[string]*Session),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		inbound:    make(chan inboundEvent, 64),
		done:       make(chan struct{}),
	}
}

// Run is the dispatcher loop. It owns the session registry and is the
// only goroutine that mutates the store. It blocks until ctx is
// canceled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, s := range h.sessions {
				s.close()
			}
			return
		case s := <-h.register:
			h.sessions[s.id] = s
			h.sendInitialState(s)
			h.logger.WithField("session", s.id).Info("Client connected")
		case s := <-h.unregister:
			if _, ok := h.sessions[s.id]; ok {
				delete(h.sessions, s.id)
				s.close()
				h.logger.WithField("session", s.id).Info("Client disconnected")
			}
		case ev := <-h.inbound:
			h.handleEvent(ev.session, ev.frame)
		}
	}
}

// sendInitialState snapshots the store and sends every slice to exactly
// this session. This is the only event carrying all slices at once.
func (h *Hub) sendInitialState(s *Session) {
	snap := h.store.Snapshot()
	payload := make(map[models.Slice]any, len(snap))
	for k, v := range snap {
		payload[k] = v
	}
	s.sendEvent(models.EventInitialState, payload)
}

// handleEvent applies one client event. Shape validation happens here,
// before the store sees the value; a payload that fails to decode is
// reported back to the origin only and nothing is broadcast.
func (h *Hub) handleEvent(s *Session, frame Envelope) {
	// An event can still be queued from a session that has since
	// unregistered; its send channel is closed, so drop the event.
	if _, ok := h.sessions[s.id]; !ok {
		return
	}
	switch {
	case frame.Event == models.EventAddAppointment:
		candidate, err := models.DecodeAppointment(frame.Data)
		if err != nil {
			h.rejectEvent(s, frame.Event, err)
			return
		}
		appt, list := h.store.AppendAppointment(candidate, s.id)
		// The originator is included here: its optimistic record carries
		// a client-minted id, and only this broadcast replaces it with
		// the server-assigned one.
		h.broadcastAll(models.SliceAppointments.UpdatedEvent(), list)
		h.logger.WithFields(logrus.Fields{
			"session":     s.id,
			"appointment": appt.ID,
		}).Info("Appointment appended")
	default:
		slice, ok := models.SliceForUpdateEvent(frame.Event)
		if !ok {
			h.rejectEvent(s, frame.Event, nil)
			return
		}
		value, err := models.DecodeSlice(slice, frame.Data)
		if err != nil {
			h.rejectEvent(s, frame.Event, err)
			return
		}
		h.store.Replace(slice, value, s.id)
		h.broadcastOthers(s, slice.UpdatedEvent(), value)
		h.logger.WithFields(logrus.Fields{
			"session": s.id,
			"slice":   slice,
		}).Debug("Slice replaced")
	}
}

func (h *Hub) rejectEvent(s *Session, event string, cause error) {
	var payload any
	if cause == nil {
		payload = syncerrors.UnknownEvent(event)
	} else {
		payload = syncerrors.PayloadInvalid(event, cause)
	}
	s.sendEvent(models.EventError, payload)
	h.logger.WithFields(logrus.Fields{
		"session": s.id,
		"event":   event,
	}).Warn("Rejected event")
}

// broadcastOthers delivers an event to every session except the origin.
func (h *Hub) broadcastOthers(origin *Session, event string, payload any) {
	for id, s := range h.sessions {
		if id == origin.id {
			continue
		}
		s.sendEvent(event, payload)
	}
}

// broadcastAll delivers an event to every connected session.
func (h *Hub) broadcastAll(event string, payload any) {
	for _, s := range h.sessions {
		s.sendEvent(event, payload)
	}
}
