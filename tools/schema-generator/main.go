// Generates JSON Schema documents for the wire payload of every slice,
// for frontend consumers and API docs.
package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/pitstop/sync/pkg/models"
)

func main() {
	outputDir := "schema/definitions"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	reflector := &jsonschema.Reflector{DoNotReference: true}
	targets := map[string]any{
		"services":     []models.Service{},
		"car_makes":    []models.CarMake{},
		"car_models":   []models.CarModel{},
		"fuel_types":   []models.FuelType{},
		"settings":     models.Settings{},
		"appointments": []models.Appointment{},
		"users":        []models.User{},
		"ui_settings":  models.UISettings{},
		"api_keys":     models.APIKeys{},
		"brands":       []models.Brand{},
		"snapshot":     models.Snapshot{},
	}

	for name, target := range targets {
		schema := reflector.Reflect(target)
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			log.Fatalf("Error marshaling schema for %s: %v", name, err)
		}
		outputPath := filepath.Join(outputDir, name+".schema.json")
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			log.Fatalf("Error writing schema file: %v", err)
		}
		log.Printf("Generated %s", outputPath)
	}
}
