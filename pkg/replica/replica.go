// Package replica keeps a client-local copy of every shared slice and
// exposes optimistic mutators that apply locally first and then push the
// full replacement value upstream.
//
// Network failure on emit is silent: the optimistic value stands even if
// the server never hears about it. That is a property of the protocol,
// not an oversight; there are no acks, retries or version numbers.
package replica

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/pitstop/sync/logging"
	"github.com/pitstop/sync/pkg/models"
)

// Envelope mirrors the hub's wire frame.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Replica is a client-side copy of the store's slices.
type Replica struct {
	mu    sync.RWMutex
	state models.Snapshot

	conn    *websocket.Conn
	writeMu sync.Mutex

	logger    *logrus.Entry
	onChange  func(models.Slice)
	done      chan struct{}
	ready     chan struct{}
	readyOnce sync.Once
}

// Option configures a Replica.
type Option func(*Replica)

// WithOnChange registers a callback invoked after any slice changes,
// whether from a local mutator or a server event. It runs on whichever
// goroutine applied the change.
func WithOnChange(fn func(models.Slice)) Option {
	return func(r *Replica) { r.onChange = fn }
}

// Dial connects to the hub's websocket endpoint (ws://host/ws) and
// starts the listener. The returned replica is empty until the server's
// initial_state arrives; WaitReady can be used to block on that.
func Dial(ctx context.Context, url string, opts ...Option) (*Replica, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}
	r := &Replica{
		conn:   conn,
		logger: logging.NewLogger("replica"),
		done:   make(chan struct{}),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.readLoop()
	return r, nil
}

// Close tears down the connection. The local replica keeps its last
// values; there is nothing to flush.
func (r *Replica) Close() error {
	return r.conn.Close()
}

// Done is closed when the listener exits, normally after Close or a
// server disconnect.
func (r *Replica) Done() <-chan struct{} {
	return r.done
}

// WaitReady blocks until the initial_state snapshot has been applied.
func (r *Replica) WaitReady(ctx context.Context) error {
	select {
	case <-r.ready:
		return nil
	case <-r.done:
		return fmt.Errorf("connection closed before initial state")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Replica) readLoop() {
	defer close(r.done)
	for {
		_, data, err := r.conn.ReadMessage()
		if err != nil {
			r.logger.WithError(err).Debug("Listener stopped")
			return
		}
		var frame Envelope
		if err := json.Unmarshal(data, &frame); err != nil {
			r.logger.WithError(err).Warn("Dropping unparseable frame")
			continue
		}
		r.apply(frame)
	}
}

// apply overwrites local slices from a server event. Whatever arrives
// wins; applying the same event twice is a plain overwrite.
func (r *Replica) apply(frame Envelope) {
	switch frame.Event {
	case models.EventInitialState:
		var snap models.Snapshot
		if err := json.Unmarshal(frame.Data, &snap); err != nil {
			r.logger.WithError(err).Warn("Bad initial_state payload")
			return
		}
		r.mu.Lock()
		r.state = snap
		r.mu.Unlock()
		r.readyOnce.Do(func() { close(r.ready) })
		for _, s := range models.AllSlices {
			r.notify(s)
		}
	case models.EventError:
		r.logger.WithField("payload", string(frame.Data)).Warn("Server rejected an event")
	default:
		slice, ok := models.SliceForUpdatedEvent(frame.Event)
		if !ok {
			r.logger.WithField("event", frame.Event).Debug("Ignoring event")
			return
		}
		value, err := models.DecodeSlice(slice, frame.Data)
		if err != nil {
			r.logger.WithError(err).WithField("event", frame.Event).Warn("Bad payload")
			return
		}
		r.setSlice(slice, value)
		r.notify(slice)
	}
}

func (r *Replica) notify(slice models.Slice) {
	if r.onChange != nil {
		r.onChange(slice)
	}
}

// setSlice stores a decoded value into the typed snapshot.
func (r *Replica) setSlice(slice models.Slice, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch slice {
	case models.SliceServices:
		r.state.Services = value.([]models.Service)
	case models.SliceCarMakes:
		r.state.CarMakes = value.([]models.CarMake)
	case models.SliceCarModels:
		r.state.CarModels = value.([]models.CarModel)
	case models.SliceFuelTypes:
		r.state.FuelTypes = value.([]models.FuelType)
	case models.SliceSettings:
		r.state.Settings = value.(models.Settings)
	case models.SliceAppointments:
		r.state.Appointments = value.([]models.Appointment)
	case models.SliceUsers:
		r.state.Users = value.([]models.User)
	case models.SliceUISettings:
		r.state.UISettings = value.(models.UISettings)
	case models.SliceAPIKeys:
		r.state.APIKeys = value.(models.APIKeys)
	case models.SliceBrands:
		r.state.Brands = value.([]models.Brand)
	}
}

// emit pushes an event upstream. Failures are logged and swallowed; the
// optimistic local value stays in place either way.
func (r *Replica) emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.WithError(err).WithField("event", event).Error("Failed to marshal payload")
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		r.logger.WithError(err).WithField("event", event).Error("Failed to marshal frame")
		return
	}
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := r.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		r.logger.WithError(err).WithField("event", event).Warn("Emit failed")
	}
}
