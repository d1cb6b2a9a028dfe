// Package catalog holds the in-memory vehicle table and the query engine
// that filters, sorts, and paginates it. The table is loaded once at startup
// and never mutated, so reads require no locking.
package catalog

import "strings"

// Vehicle is one row of the catalog. The ID is the row position assigned at
// load time and is stable for the lifetime of the process.
type Vehicle struct {
	ID          int     `json:"id"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	Price       float64 `json:"price"`
	Mileage     float64 `json:"mileage"`
	Horsepower  float64 `json:"horsepower"`
	MPGCombined float64 `json:"mpg_combined"`
	FuelType    string  `json:"fuel_type"`
	BodyType    string  `json:"body_type"`
}

// SortableFields lists the whitelisted sort keys, in catalog column order.
var SortableFields = []string{"price", "mpg_combined", "mileage", "year", "horsepower"}

// Columns lists every column the catalog exposes.
var Columns = []string{"id", "make", "model", "year", "price", "mileage", "horsepower", "mpg_combined", "fuel_type", "body_type"}

// SanitizeSortKey falls back to "price" for any key outside the whitelist.
func SanitizeSortKey(key string) string {
	for _, field := range SortableFields {
		if key == field {
			return key
		}
	}
	return "price"
}

// sortValue returns the numeric value backing a sanitized sort key.
func (v Vehicle) sortValue(key string) float64 {
	switch key {
	case "mpg_combined":
		return v.MPGCombined
	case "mileage":
		return v.Mileage
	case "year":
		return float64(v.Year)
	case "horsepower":
		return v.Horsepower
	default:
		return v.Price
	}
}

// modelContains reports a case-insensitive substring match on the model name.
func (v Vehicle) modelContains(q string) bool {
	return strings.Contains(strings.ToLower(v.Model), strings.ToLower(q))
}
