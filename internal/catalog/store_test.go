package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureVehicles() []Vehicle {
	return []Vehicle{
		{Make: "Toyota", Model: "Corolla LE", Year: 2021, Price: 21000, Mileage: 30000, Horsepower: 169, MPGCombined: 33, FuelType: "gas", BodyType: "sedan"},
		{Make: "Toyota", Model: "Camry XSE", Year: 2022, Price: 28000, Mileage: 15000, Horsepower: 206, MPGCombined: 32, FuelType: "gas", BodyType: "sedan"},
		{Make: "Toyota", Model: "RAV4 XLE Hybrid", Year: 2023, Price: 34000, Mileage: 5000, Horsepower: 219, MPGCombined: 39, FuelType: "hybrid", BodyType: "suv"},
	}
}

func TestParseAssignsSequentialIDs(t *testing.T) {
	input := strings.NewReader(
		"make,model,year,price,mileage,horsepower,mpg_combined,fuel_type,body_type\n" +
			"Toyota,Corolla,2021,21000,30000,169,33,gas,sedan\n" +
			"Toyota,Camry,2022,28000,15000,206,32,gas,sedan\n")

	store, err := parse(input)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	first, ok := store.GetByID(0)
	require.True(t, ok)
	assert.Equal(t, "Corolla", first.Model)

	second, ok := store.GetByID(1)
	require.True(t, ok)
	assert.Equal(t, 1, second.ID)
	assert.Equal(t, "Camry", second.Model)
}

func TestParseMissingColumnsGetDefaults(t *testing.T) {
	input := strings.NewReader("model,price\nCorolla,21000\n")

	store, err := parse(input)
	require.NoError(t, err)

	v, ok := store.GetByID(0)
	require.True(t, ok)
	assert.Equal(t, "Toyota", v.Make)
	assert.Equal(t, 2000, v.Year)
	assert.Zero(t, v.Mileage)
	assert.Zero(t, v.Horsepower)
	assert.Zero(t, v.MPGCombined)
	assert.Empty(t, v.FuelType)
}

func TestParseCoercesBadNumericsToZero(t *testing.T) {
	input := strings.NewReader(
		"make,model,year,price,mileage\n" +
			"Toyota,Corolla,2021,not-a-number,n/a\n")

	store, err := parse(input)
	require.NoError(t, err)

	v, ok := store.GetByID(0)
	require.True(t, ok)
	assert.Zero(t, v.Price)
	assert.Zero(t, v.Mileage)
	assert.Equal(t, 2021, v.Year)
}

func TestParseAcceptsDecimalYears(t *testing.T) {
	input := strings.NewReader("model,year\nCorolla,2021.0\n")

	store, err := parse(input)
	require.NoError(t, err)

	v, _ := store.GetByID(0)
	assert.Equal(t, 2021, v.Year)
}

func TestGetByIDOutOfRange(t *testing.T) {
	store := NewStore(fixtureVehicles())

	_, ok := store.GetByID(-1)
	assert.False(t, ok)

	_, ok = store.GetByID(store.Len())
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(nil, "does-not-exist.csv")
	assert.Error(t, err)
}
