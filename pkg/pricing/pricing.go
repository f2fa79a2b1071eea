// Package pricing computes service price estimates from the catalog and
// the per-make/model/fuel multipliers.
package pricing

import "github.com/pitstop/sync/pkg/models"

// UnknownLabel is used when a referenced catalog entry does not exist.
// References between slices are never enforced, so dangling ones are
// rendered rather than rejected.
const UnknownLabel = "unknown"

// Estimate is a resolved price quote for one booking.
type Estimate struct {
	ServiceTitle string  `json:"serviceTitle"`
	BasePrice    float64 `json:"basePrice"`
	Multiplier   float64 `json:"multiplier"`
	Total        float64 `json:"total"`
}

// Quote resolves the appointment's references against the given slices
// and multiplies the base price by the make, model and fuel factors.
// Any dangling reference contributes a neutral factor of 1; a dangling
// service yields a zero-priced estimate titled "unknown".
func Quote(services []models.Service, makes []models.CarMake, carModels []models.CarModel, fuels []models.FuelType, appt models.Appointment) Estimate {
	est := Estimate{ServiceTitle: UnknownLabel, Multiplier: 1}

	for _, svc := range services {
		if svc.ID == appt.ServiceID {
			est.ServiceTitle = svc.Title
			est.BasePrice = svc.BasePrice
			break
		}
	}
	for _, mk := range makes {
		if mk.Name == appt.CarMake && mk.Multiplier > 0 {
			est.Multiplier *= mk.Multiplier
			break
		}
	}
	for _, mdl := range carModels {
		if mdl.Name == appt.CarModel && mdl.Make == appt.CarMake && mdl.Multiplier > 0 {
			est.Multiplier *= mdl.Multiplier
			break
		}
	}
	for _, fuel := range fuels {
		if fuel.Name == appt.FuelType && fuel.Multiplier > 0 {
			est.Multiplier *= fuel.Multiplier
			break
		}
	}

	est.Total = est.BasePrice * est.Multiplier
	return est
}
