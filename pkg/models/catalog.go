// Package models defines the shared slice value types carried over the
// sync channel. Every type here is JSON-serializable and is replaced
// wholesale on update; none of the fields are merged individually.
package models

// Service is one entry of the service catalog shown on the booking site.
type Service struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PriceLabel  string   `json:"priceLabel"`
	BasePrice   float64  `json:"basePrice"`
	Duration    string   `json:"duration"`
	Features    []string `json:"features"`
	Checklist   []string `json:"checklist"`
}

// Brand is a partner logo shown on the marketing pages.
type Brand struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}
