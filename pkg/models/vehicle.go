package models

// CarMake is a pricing multiplier keyed by manufacturer name.
type CarMake struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

// CarModel is a pricing multiplier for one model of a make. Make refers
// to a CarMake by name; the reference is not enforced anywhere and a
// dangling value must be tolerated by consumers.
type CarModel struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	Make       string  `json:"make"`
}

// FuelType is a pricing multiplier keyed by fuel.
type FuelType struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}
