package catalog

import (
	"sort"

	"carfinance/pkg/constants"
)

// FilterParams describes one /filter request. Zero values match the query
// parameter defaults; nil Year skips the exact-year predicate.
type FilterParams struct {
	Query      string
	PriceMin   float64
	PriceMax   float64
	HPMin      float64
	HPMax      float64
	MileageMin float64
	MileageMax float64
	Year       *int
	SortBy     string
	Order      string
	Limit      int
	Offset     int
}

// DefaultFilterParams returns a FilterParams with the documented range and
// pagination defaults filled in.
func DefaultFilterParams() FilterParams {
	return FilterParams{
		PriceMax:   constants.DefaultPriceMax,
		HPMax:      constants.DefaultHPMax,
		MileageMax: constants.DefaultMileageMax,
		SortBy:     "price",
		Order:      "asc",
		Limit:      constants.DefaultPageLimit,
	}
}

// List sorts the full catalog by the sanitized key and direction, then
// paginates. The returned total is the pre-pagination row count; an offset
// past the end yields an empty page rather than an error.
func (s *Store) List(sortBy, order string, limit, offset int) (int, []Vehicle) {
	rows := s.all()
	sortVehicles(rows, sortBy, order)
	return len(rows), paginate(rows, limit, offset)
}

// Filter applies the composed predicates (AND), then sorts and paginates
// exactly as List does. Missing numeric values were coerced to zero at load
// time, so the inclusive range checks see them as zero.
func (s *Store) Filter(p FilterParams) (int, []Vehicle) {
	rows := make([]Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if p.Query != "" && !v.modelContains(p.Query) {
			continue
		}
		if v.Price < p.PriceMin || v.Price > p.PriceMax {
			continue
		}
		if v.Horsepower < p.HPMin || v.Horsepower > p.HPMax {
			continue
		}
		if v.Mileage < p.MileageMin || v.Mileage > p.MileageMax {
			continue
		}
		if p.Year != nil && v.Year != *p.Year {
			continue
		}
		rows = append(rows, v)
	}

	sortVehicles(rows, p.SortBy, p.Order)
	return len(rows), paginate(rows, p.Limit, p.Offset)
}

func sortVehicles(rows []Vehicle, sortBy, order string) {
	key := SanitizeSortKey(sortBy)
	ascending := order == "asc"
	sort.Slice(rows, func(i, j int) bool {
		if ascending {
			return rows[i].sortValue(key) < rows[j].sortValue(key)
		}
		return rows[i].sortValue(key) > rows[j].sortValue(key)
	})
}

// paginate clamps limit to [MinPageLimit, MaxPageLimit] and offset to >= 0,
// then slices [offset, offset+limit).
func paginate(rows []Vehicle, limit, offset int) []Vehicle {
	if limit < constants.MinPageLimit {
		limit = constants.MinPageLimit
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []Vehicle{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
