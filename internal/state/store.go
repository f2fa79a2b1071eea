// Package state holds the authoritative in-memory copy of every named
// slice of shared application state. The store is schema-agnostic: it
// remembers whatever typed value the protocol layer hands it and fans the
// change out to subscribers. All validation happens before a value gets
// here.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/sync/pkg/models"
)

// Update is one slice change fanned out to subscribers.
type Update struct {
	Slice models.Slice
	Value any
	// Origin is the session id whose event caused the change; empty for
	// server-side writes (seeding, restore).
	Origin string
	// IncludeOrigin marks updates the originator must also receive. Only
	// appointment appends set this: the originator's optimistic record
	// lacks the server-assigned id and timestamp, so it needs the
	// canonical list back.
	IncludeOrigin bool
}

// Store is the single authoritative state object, created once per
// process. It is thread-safe, though in practice every mutation arrives
// through the hub's dispatcher goroutine and is already serialized.
type Store struct {
	mu          sync.RWMutex
	slices      map[models.Slice]any
	subscribers map[chan Update]struct{}
}

// New creates a Store with empty values for every slice.
func New() *Store {
	s := &Store{
		slices:      make(map[models.Slice]any, len(models.AllSlices)),
		subscribers: make(map[chan Update]struct{}),
	}
	s.slices[models.SliceServices] = []models.Service{}
	s.slices[models.SliceCarMakes] = []models.CarMake{}
	s.slices[models.SliceCarModels] = []models.CarModel{}
	s.slices[models.SliceFuelTypes] = []models.FuelType{}
	s.slices[models.SliceSettings] = models.Settings{}
	s.slices[models.SliceAppointments] = []models.Appointment{}
	s.slices[models.SliceUsers] = []models.User{}
	s.slices[models.SliceUISettings] = models.UISettings{}
	s.slices[models.SliceAPIKeys] = models.APIKeys{}
	s.slices[models.SliceBrands] = []models.Brand{}
	return s
}

// Snapshot returns the current value of every slice, keyed by slice name.
// The map is a copy; the values are the stored ones, which are treated as
// immutable once stored.
func (s *Store) Snapshot() map[models.Slice]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[models.Slice]any, len(s.slices))
	for k, v := range s.slices {
		snap[k] = v
	}
	return snap
}

// Get returns the current value of one slice.
func (s *Store) Get(slice models.Slice) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slices[slice]
}

// Replace overwrites the value of a slice wholesale and notifies
// subscribers. The new value fully supersedes the old one; there is no
// merge. origin is the session that pushed the value (empty for
// server-side writes) and is excluded from the resulting fan-out.
func (s *Store) Replace(slice models.Slice, value any, origin string) {
	s.mu.Lock()
	s.slices[slice] = value
	s.mu.Unlock()

	s.publish(Update{Slice: slice, Value: value, Origin: origin})
}

// AppendAppointment assigns a server-owned id and creation timestamp to
// the candidate, prepends it to the appointment list and stores the
// result. The update is fanned out to every subscriber including the
// originator, which needs the canonical record to replace its optimistic
// one. Returns the finalized record and the new full list.
func (s *Store) AppendAppointment(candidate models.Appointment, origin string) (models.Appointment, []models.Appointment) {
	candidate.ID = uuid.NewString()
	candidate.CreatedAt = time.Now().UTC()
	if candidate.Status == "" {
		candidate.Status = models.StatusPending
	}
	if candidate.PaymentStatus == "" {
		candidate.PaymentStatus = models.DerivePaymentStatus(candidate.PaymentMethod)
	}

	s.mu.Lock()
	current, _ := s.slices[models.SliceAppointments].([]models.Appointment)
	list := make([]models.Appointment, 0, len(current)+1)
	list = append(list, candidate)
	list = append(list, current...)
	s.slices[models.SliceAppointments] = list
	s.mu.Unlock()

	s.publish(Update{
		Slice:         models.SliceAppointments,
		Value:         list,
		Origin:        origin,
		IncludeOrigin: true,
	})
	return candidate, list
}

// Subscribe creates a new subscription channel for slice updates.
func (s *Store) Subscribe() chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 100)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Store) publish(u Update) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			// Non-blocking send so a slow subscriber cannot stall the
			// dispatcher.
		}
	}
}
