package mail

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pitstop/sync/internal/state"
	"github.com/pitstop/sync/logging"
	"github.com/pitstop/sync/pkg/models"
	"github.com/pitstop/sync/pkg/pricing"
)

// Notifier mails a booking confirmation whenever an appointment is
// appended. It subscribes to the store like any other collaborator and
// keys off the append-only IncludeOrigin marker, so plain list
// replacements (status edits and the like) never trigger mail.
type Notifier struct {
	sender Sender
	store  *state.Store
	logger *logrus.Entry
}

// NewNotifier creates a Notifier sending through sender.
func NewNotifier(sender Sender, store *state.Store) *Notifier {
	return &Notifier{
		sender: sender,
		store:  store,
		logger: logging.NewLogger("notifier"),
	}
}

// Run blocks consuming store updates until ctx is canceled.
func (n *Notifier) Run(ctx context.Context) {
	ch := n.store.Subscribe()
	defer n.store.Unsubscribe(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-ch:
			if !ok {
				return
			}
			if u.Slice != models.SliceAppointments || !u.IncludeOrigin {
				continue
			}
			list, ok := u.Value.([]models.Appointment)
			if !ok || len(list) == 0 {
				continue
			}
			n.confirm(ctx, list[0])
		}
	}
}

func (n *Notifier) confirm(ctx context.Context, appt models.Appointment) {
	if appt.CustomerEmail == "" {
		return
	}
	services, _ := n.store.Get(models.SliceServices).([]models.Service)
	makes, _ := n.store.Get(models.SliceCarMakes).([]models.CarMake)
	carModels, _ := n.store.Get(models.SliceCarModels).([]models.CarModel)
	fuels, _ := n.store.Get(models.SliceFuelTypes).([]models.FuelType)
	settings, _ := n.store.Get(models.SliceSettings).(models.Settings)

	est := pricing.Quote(services, makes, carModels, fuels, appt)

	msg := Message{
		Recipient: appt.CustomerEmail,
		Subject:   fmt.Sprintf("Booking confirmed: %s on %s", est.ServiceTitle, appt.Date),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s booking for %s %s (%s) on %s at %s is confirmed.\nEstimated price: %.2f\nBooking reference: %s\n\n%s\n%s",
			appt.CustomerName, est.ServiceTitle, appt.CarMake, appt.CarModel,
			appt.FuelType, appt.Date, appt.Time, est.Total, appt.ID,
			settings.SiteName, settings.Phone,
		),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.WithError(err).Warn("Confirmation mail failed")
	}
}
