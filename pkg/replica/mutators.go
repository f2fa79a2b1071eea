package replica

import (
	"github.com/google/uuid"

	"github.com/pitstop/sync/pkg/models"
)

// Each mutator replaces its slice wholesale: the local replica is
// updated synchronously so the caller's UI can re-render immediately,
// then the full value is emitted upstream. There is no return value and
// no local failure mode.

// UpdateServices replaces the service catalog.
func (r *Replica) UpdateServices(services []models.Service) {
	r.setSlice(models.SliceServices, services)
	r.notify(models.SliceServices)
	r.emit(models.SliceServices.UpdateEvent(), services)
}

// UpdateCarMakes replaces the make multipliers.
func (r *Replica) UpdateCarMakes(makes []models.CarMake) {
	r.setSlice(models.SliceCarMakes, makes)
	r.notify(models.SliceCarMakes)
	r.emit(models.SliceCarMakes.UpdateEvent(), makes)
}

// UpdateCarModels replaces the model multipliers.
func (r *Replica) UpdateCarModels(carModels []models.CarModel) {
	r.setSlice(models.SliceCarModels, carModels)
	r.notify(models.SliceCarModels)
	r.emit(models.SliceCarModels.UpdateEvent(), carModels)
}

// UpdateFuelTypes replaces the fuel multipliers.
func (r *Replica) UpdateFuelTypes(fuels []models.FuelType) {
	r.setSlice(models.SliceFuelTypes, fuels)
	r.notify(models.SliceFuelTypes)
	r.emit(models.SliceFuelTypes.UpdateEvent(), fuels)
}

// UpdateSettings replaces the site settings record.
func (r *Replica) UpdateSettings(settings models.Settings) {
	r.setSlice(models.SliceSettings, settings)
	r.notify(models.SliceSettings)
	r.emit(models.SliceSettings.UpdateEvent(), settings)
}

// UpdateAppointments replaces the full appointment list. Used for
// status and payment changes; creating a booking goes through
// AddAppointment instead.
func (r *Replica) UpdateAppointments(appointments []models.Appointment) {
	r.setSlice(models.SliceAppointments, appointments)
	r.notify(models.SliceAppointments)
	r.emit(models.SliceAppointments.UpdateEvent(), appointments)
}

// UpdateUsers replaces the account list.
func (r *Replica) UpdateUsers(users []models.User) {
	r.setSlice(models.SliceUsers, users)
	r.notify(models.SliceUsers)
	r.emit(models.SliceUsers.UpdateEvent(), users)
}

// UpdateUISettings replaces the theme and page-builder record.
func (r *Replica) UpdateUISettings(ui models.UISettings) {
	r.setSlice(models.SliceUISettings, ui)
	r.notify(models.SliceUISettings)
	r.emit(models.SliceUISettings.UpdateEvent(), ui)
}

// UpdateAPIKeys replaces the credential record.
func (r *Replica) UpdateAPIKeys(keys models.APIKeys) {
	r.setSlice(models.SliceAPIKeys, keys)
	r.notify(models.SliceAPIKeys)
	r.emit(models.SliceAPIKeys.UpdateEvent(), keys)
}

// UpdateBrands replaces the partner logo list.
func (r *Replica) UpdateBrands(brands []models.Brand) {
	r.setSlice(models.SliceBrands, brands)
	r.notify(models.SliceBrands)
	r.emit(models.SliceBrands.UpdateEvent(), brands)
}

// AddAppointment prepends a locally-synthesized candidate (temporary id,
// pending status, payment status derived from the method) and sends the
// candidate upstream without an id. Between the emit and the server's
// appointments_updated echo the local list carries the temporary id;
// the echo, which the originator also receives, replaces the whole list
// and reconciles it away. Returns the temporary record.
func (r *Replica) AddAppointment(candidate models.Appointment) models.Appointment {
	upstream := candidate
	upstream.ID = ""
	upstream.Status = models.StatusPending
	upstream.PaymentStatus = models.DerivePaymentStatus(upstream.PaymentMethod)

	local := upstream
	local.ID = "local-" + uuid.NewString()

	r.mu.Lock()
	list := make([]models.Appointment, 0, len(r.state.Appointments)+1)
	list = append(list, local)
	list = append(list, r.state.Appointments...)
	r.state.Appointments = list
	r.mu.Unlock()
	r.notify(models.SliceAppointments)

	r.emit(models.EventAddAppointment, upstream)
	return local
}
