package replica

import "github.com/pitstop/sync/pkg/models"

// The getters return the replica's current values. Callers must treat
// slices as read-only; mutations go through the Update* functions.

func (r *Replica) Services() []models.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Services
}

func (r *Replica) CarMakes() []models.CarMake {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.CarMakes
}

func (r *Replica) CarModels() []models.CarModel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.CarModels
}

func (r *Replica) FuelTypes() []models.FuelType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.FuelTypes
}

func (r *Replica) Settings() models.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Settings
}

func (r *Replica) Appointments() []models.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Appointments
}

func (r *Replica) Users() []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Users
}

func (r *Replica) UISettings() models.UISettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.UISettings
}

func (r *Replica) APIKeys() models.APIKeys {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.APIKeys
}

func (r *Replica) Brands() []models.Brand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Brands
}

// Snapshot returns a copy of the whole replica state.
func (r *Replica) Snapshot() models.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}
