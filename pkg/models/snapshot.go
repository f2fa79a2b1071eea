package models

// Snapshot is the typed form of the initial_state payload: every slice
// at once, keyed by slice name.
type Snapshot struct {
	Services     []Service     `json:"services"`
	CarMakes     []CarMake     `json:"carMakes"`
	CarModels    []CarModel    `json:"carModels"`
	FuelTypes    []FuelType    `json:"fuelTypes"`
	Settings     Settings      `json:"settings"`
	Appointments []Appointment `json:"appointments"`
	Users        []User        `json:"users"`
	UISettings   UISettings    `json:"uiSettings"`
	APIKeys      APIKeys       `json:"apiKeys"`
	Brands       []Brand       `json:"brands"`
}
