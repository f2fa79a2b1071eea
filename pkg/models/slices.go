package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Slice is the name of one independently replaceable piece of shared
// state. The constant values are the keys used in the initial_state
// snapshot payload.
type Slice string

const (
	SliceServices     Slice = "services"
	SliceCarMakes     Slice = "carMakes"
	SliceCarModels    Slice = "carModels"
	SliceFuelTypes    Slice = "fuelTypes"
	SliceSettings     Slice = "settings"
	SliceAppointments Slice = "appointments"
	SliceUsers        Slice = "users"
	SliceUISettings   Slice = "uiSettings"
	SliceAPIKeys      Slice = "apiKeys"
	SliceBrands       Slice = "brands"
)

// AllSlices lists every slice in snapshot order.
var AllSlices = []Slice{
	SliceServices,
	SliceCarMakes,
	SliceCarModels,
	SliceFuelTypes,
	SliceSettings,
	SliceAppointments,
	SliceUsers,
	SliceUISettings,
	SliceAPIKeys,
	SliceBrands,
}

// wireNames maps each slice to the snake_case suffix used in event names.
var wireNames = map[Slice]string{
	SliceServices:     "services",
	SliceCarMakes:     "car_makes",
	SliceCarModels:    "car_models",
	SliceFuelTypes:    "fuel_types",
	SliceSettings:     "settings",
	SliceAppointments: "appointments",
	SliceUsers:        "users",
	SliceUISettings:   "ui_settings",
	SliceAPIKeys:      "api_keys",
	SliceBrands:       "brands",
}

// Fixed event names outside the per-slice update/updated pairs.
const (
	EventInitialState   = "initial_state"
	EventAddAppointment = "add_appointment"
	EventError          = "error"
)

// Valid reports whether s is one of the known slices.
func (s Slice) Valid() bool {
	_, ok := wireNames[s]
	return ok
}

// UpdateEvent returns the client-to-server event name carrying a full
// replacement value for the slice, e.g. "update_car_makes".
func (s Slice) UpdateEvent() string {
	return "update_" + wireNames[s]
}

// UpdatedEvent returns the server-to-client event name carrying the new
// slice value, e.g. "car_makes_updated".
func (s Slice) UpdatedEvent() string {
	return wireNames[s] + "_updated"
}

// SliceForUpdateEvent resolves an inbound "update_<slice>" event name back
// to its slice. The second return is false for anything else.
func SliceForUpdateEvent(event string) (Slice, bool) {
	for s, wire := range wireNames {
		if event == "update_"+wire {
			return s, true
		}
	}
	return "", false
}

// SliceForUpdatedEvent resolves a "<slice>_updated" event name to its slice.
func SliceForUpdatedEvent(event string) (Slice, bool) {
	for s, wire := range wireNames {
		if event == wire+"_updated" {
			return s, true
		}
	}
	return "", false
}

// DecodeSlice decodes raw JSON into the typed value for the slice,
// rejecting unknown fields. This is the shape validation applied at the
// protocol boundary before anything reaches the store.
func DecodeSlice(s Slice, raw json.RawMessage) (any, error) {
	switch s {
	case SliceServices:
		return decodeInto[[]Service](raw)
	case SliceCarMakes:
		return decodeInto[[]CarMake](raw)
	case SliceCarModels:
		return decodeInto[[]CarModel](raw)
	case SliceFuelTypes:
		return decodeInto[[]FuelType](raw)
	case SliceSettings:
		return decodeInto[Settings](raw)
	case SliceAppointments:
		return decodeInto[[]Appointment](raw)
	case SliceUsers:
		return decodeInto[[]User](raw)
	case SliceUISettings:
		return decodeInto[UISettings](raw)
	case SliceAPIKeys:
		return decodeInto[APIKeys](raw)
	case SliceBrands:
		return decodeInto[[]Brand](raw)
	default:
		return nil, fmt.Errorf("unknown slice %q", s)
	}
}

// DecodeAppointment decodes an add_appointment candidate with the same
// unknown-field rejection applied to slice payloads.
func DecodeAppointment(raw json.RawMessage) (Appointment, error) {
	v, err := decodeInto[Appointment](raw)
	if err != nil {
		return Appointment{}, err
	}
	return v.(Appointment), nil
}

func decodeInto[T any](raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var v T
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
