package state

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pitstop/sync/pkg/models"
)

// SeedData is the on-disk shape of a seed file: initial values for any
// subset of the slices, keyed exactly like the wire snapshot. Absent
// slices keep their zero values.
type SeedData struct {
	Services     []models.Service     `json:"services"`
	CarMakes     []models.CarMake     `json:"carMakes"`
	CarModels    []models.CarModel    `json:"carModels"`
	FuelTypes    []models.FuelType    `json:"fuelTypes"`
	Settings     *models.Settings     `json:"settings"`
	Appointments []models.Appointment `json:"appointments"`
	Users        []models.User        `json:"users"`
	UISettings   *models.UISettings   `json:"uiSettings"`
	APIKeys      *models.APIKeys      `json:"apiKeys"`
	Brands       []models.Brand       `json:"brands"`
}

// SeedFromFile loads a yaml seed file and applies it to the store. The
// yaml goes through a json round-trip so the keys match the wire names
// on the model types instead of yaml's lowercased defaults.
func SeedFromFile(s *Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	bridged, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("convert seed file: %w", err)
	}
	var seed SeedData
	if err := json.Unmarshal(bridged, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	Seed(s, seed)
	return nil
}

// Seed applies the non-empty parts of seed to the store as server-side
// writes.
func Seed(s *Store, seed SeedData) {
	if seed.Services != nil {
		s.Replace(models.SliceServices, seed.Services, "")
	}
	if seed.CarMakes != nil {
		s.Replace(models.SliceCarMakes, seed.CarMakes, "")
	}
	if seed.CarModels != nil {
		s.Replace(models.SliceCarModels, seed.CarModels, "")
	}
	if seed.FuelTypes != nil {
		s.Replace(models.SliceFuelTypes, seed.FuelTypes, "")
	}
	if seed.Settings != nil {
		s.Replace(models.SliceSettings, *seed.Settings, "")
	}
	if seed.Appointments != nil {
		s.Replace(models.SliceAppointments, seed.Appointments, "")
	}
	if seed.Users != nil {
		s.Replace(models.SliceUsers, seed.Users, "")
	}
	if seed.UISettings != nil {
		s.Replace(models.SliceUISettings, *seed.UISettings, "")
	}
	if seed.APIKeys != nil {
		s.Replace(models.SliceAPIKeys, *seed.APIKeys, "")
	}
	if seed.Brands != nil {
		s.Replace(models.SliceBrands, seed.Brands, "")
	}
}

// DefaultSeed returns the compiled-in initial state used when no seed
// file is configured.
func DefaultSeed() SeedData {
	return SeedData{
		Services: []models.Service{
			{
				ID:          "basic-service",
				Title:       "Basic Service",
				Description: "Oil change, filter swap and a 20-point inspection.",
				PriceLabel:  "from €59",
				BasePrice:   59,
				Duration:    "1h",
				Features:    []string{"Engine oil + filter", "Fluid top-up"},
				Checklist:   []string{"Lights", "Tyre pressure", "Wipers"},
			},
			{
				ID:          "full-service",
				Title:       "Full Service",
				Description: "Everything in Basic plus brakes, suspension and diagnostics.",
				PriceLabel:  "from €129",
				BasePrice:   129,
				Duration:    "3h",
				Features:    []string{"All Basic items", "Brake inspection", "ECU diagnostics"},
				Checklist:   []string{"Brake pads", "Suspension", "Battery", "Exhaust"},
			},
		},
		CarMakes: []models.CarMake{
			{Name: "Toyota", Multiplier: 1.0},
			{Name: "BMW", Multiplier: 1.3},
			{Name: "Mercedes-Benz", Multiplier: 1.35},
		},
		CarModels: []models.CarModel{
			{Name: "Corolla", Multiplier: 1.0, Make: "Toyota"},
			{Name: "3 Series", Multiplier: 1.1, Make: "BMW"},
		},
		FuelTypes: []models.FuelType{
			{Name: "Petrol", Multiplier: 1.0},
			{Name: "Diesel", Multiplier: 1.1},
			{Name: "Hybrid", Multiplier: 1.2},
			{Name: "Electric", Multiplier: 1.25},
		},
		Settings: &models.Settings{
			SiteName:     "Pitstop Auto Care",
			Tagline:      "Book your service in minutes",
			Phone:        "+1 555 010 7788",
			Email:        "bookings@pitstop.example",
			Address:      "14 Garage Row",
			WorkingHours: "Mon-Sat 08:00-18:00",
		},
		UISettings: &models.UISettings{
			Theme:        "light",
			PrimaryColor: "#d32f2f",
			AccentColor:  "#212121",
			Pages: []models.Page{
				{
					ID:      "home",
					Title:   "Home",
					Slug:    "/",
					Visible: true,
					Sections: []models.Section{
						{ID: "hero", Type: "hero", Heading: "Your car, our care", Order: 0},
						{ID: "services", Type: "service-grid", Heading: "What we do", Order: 1},
					},
				},
			},
		},
	}
}
