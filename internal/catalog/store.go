package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"carfinance/pkg/constants"
)

// Store is the immutable vehicle table. Construct it once with Load or
// NewStore and share it freely across requests.
type Store struct {
	vehicles []Vehicle
}

// NewStore builds a store from already-normalized vehicles, assigning
// sequential ids by position. Used directly by tests and fixtures.
func NewStore(vehicles []Vehicle) *Store {
	rows := make([]Vehicle, len(vehicles))
	copy(rows, vehicles)
	for i := range rows {
		rows[i].ID = i
	}
	return &Store{vehicles: rows}
}

// Load reads the catalog CSV at path and normalizes it: missing columns get
// defaults, numeric cells that fail to parse coerce to zero, and each row is
// assigned its position as a stable id.
func Load(logger *zap.Logger, path string) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	store, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	logger.Info("catalog loaded",
		zap.String("op", "catalog.Load"),
		zap.String("path", path),
		zap.Int("rows", store.Len()),
	)
	return store, nil
}

func parse(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var vehicles []Vehicle
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		vehicles = append(vehicles, normalizeRow(record, index))
	}

	return NewStore(vehicles), nil
}

// normalizeRow applies the expected-column defaults and numeric coercion.
func normalizeRow(record []string, index map[string]int) Vehicle {
	return Vehicle{
		Make:        cellString(record, index, "make", constants.DefaultMake),
		Model:       cellString(record, index, "model", ""),
		Year:        cellInt(record, index, "year", constants.DefaultYear),
		Price:       cellFloat(record, index, "price"),
		Mileage:     cellFloat(record, index, "mileage"),
		Horsepower:  cellFloat(record, index, "horsepower"),
		MPGCombined: cellFloat(record, index, "mpg_combined"),
		FuelType:    cellString(record, index, "fuel_type", ""),
		BodyType:    cellString(record, index, "body_type", ""),
	}
}

func cellString(record []string, index map[string]int, column, fallback string) string {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return fallback
	}
	return strings.TrimSpace(record[i])
}

func cellFloat(record []string, index map[string]int, column string) float64 {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return 0
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
	if err != nil {
		return 0
	}
	return val
}

func cellInt(record []string, index map[string]int, column string, fallback int) int {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return fallback
	}
	raw := strings.TrimSpace(record[i])
	if raw == "" {
		return fallback
	}
	// Year columns exported from spreadsheets often carry a decimal point.
	if val, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(val)
	}
	return 0
}

// Len returns the number of rows in the catalog.
func (s *Store) Len() int {
	return len(s.vehicles)
}

// GetByID looks up a vehicle by its stable id.
func (s *Store) GetByID(id int) (Vehicle, bool) {
	if id < 0 || id >= len(s.vehicles) {
		return Vehicle{}, false
	}
	return s.vehicles[id], true
}

// all returns a fresh copy of the full table so callers can sort freely.
func (s *Store) all() []Vehicle {
	out := make([]Vehicle, len(s.vehicles))
	copy(out, s.vehicles)
	return out
}
