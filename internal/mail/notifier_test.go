package mail

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitstop/sync/internal/state"
	"github.com/pitstop/sync/pkg/models"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []Message
}

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeSender) sent() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.messages))
	copy(out, f.messages)
	return out
}

func startNotifier(t *testing.T) (*state.Store, *fakeSender) {
	t.Helper()
	st := state.New()
	sender := &fakeSender{}
	n := NewNotifier(sender, st)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go n.Run(ctx)
	// Let Run subscribe before the test publishes
	time.Sleep(20 * time.Millisecond)
	return st, sender
}

func TestAppendTriggersConfirmation(t *testing.T) {
	st, sender := startNotifier(t)
	st.Replace(models.SliceServices, []models.Service{{ID: "svc-1", Title: "Full Service", BasePrice: 200}}, "")
	st.Replace(models.SliceCarMakes, []models.CarMake{{Name: "BMW", Multiplier: 1.5}}, "")
	st.Replace(models.SliceSettings, models.Settings{SiteName: "Pitstop Auto Care", Phone: "555-0100"}, "")

	st.AppendAppointment(models.Appointment{
		CustomerName:  "Dana",
		CustomerEmail: "dana@example.com",
		CarMake:       "BMW",
		ServiceID:     "svc-1",
		Date:          "2026-09-12",
		Time:          "10:30",
	}, "client-a")

	require.Eventually(t, func() bool {
		return len(sender.sent()) == 1
	}, 2*time.Second, 20*time.Millisecond)

	msg := sender.sent()[0]
	assert.Equal(t, "dana@example.com", msg.Recipient)
	assert.Contains(t, msg.Subject, "Full Service")
	assert.Contains(t, msg.Subject, "2026-09-12")
	assert.Contains(t, msg.Body, "Dana")
	assert.Contains(t, msg.Body, "300.00")
	assert.Contains(t, msg.Body, "Pitstop Auto Care")
}

func TestReplaceDoesNotTriggerMail(t *testing.T) {
	st, sender := startNotifier(t)

	// A wholesale list replacement is an edit, not a booking
	st.Replace(models.SliceAppointments, []models.Appointment{
		{ID: "a1", CustomerEmail: "edit@example.com", Status: models.StatusConfirmed},
	}, "client-a")

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, sender.sent())
}

func TestAppendWithoutEmailIsSkipped(t *testing.T) {
	st, sender := startNotifier(t)

	st.AppendAppointment(models.Appointment{CustomerName: "Anonymous"}, "client-a")

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, sender.sent())
}
