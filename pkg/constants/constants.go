// Package constants provides shared constants for the carfinance application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// AnnualDepreciationRate is the assumed yearly value loss for a vehicle
	AnnualDepreciationRate = 0.13

	// ProgramAPRFloor is the lowest APR any special program can reach
	ProgramAPRFloor = 2.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// APR tiers by credit score. Thresholds are checked highest first.
const (
	CreditTierExcellent = 760
	CreditTierVeryGood  = 720
	CreditTierGood      = 660
	CreditTierFair      = 620

	APRExcellent = 3.5
	APRVeryGood  = 4.2
	APRGood      = 6.0
	APRFair      = 8.0
	APRSubprime  = 10.5
)

// Down payment requirement thresholds.
const (
	// DownPaymentWaiverScore is the credit score at or above which no down
	// payment is required.
	DownPaymentWaiverScore = 650

	// DownPaymentDoubleScore is the credit score below which the doubled
	// down payment rate applies.
	DownPaymentDoubleScore = 600

	// DownPaymentBaseRate is the fraction of price required below the waiver score
	DownPaymentBaseRate = 0.10

	// DownPaymentDoubleRate is the fraction of price required below the double score
	DownPaymentDoubleRate = 0.20
)

// Catalog defaults applied when the source CSV omits a column.
const (
	DefaultMake = "Toyota"
	DefaultYear = 2000
)

// Pagination bounds for catalog listings.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
	MinPageLimit     = 1
)

// Filter range defaults mirroring the query parameter defaults.
const (
	DefaultPriceMax   = 100000.0
	DefaultHPMax      = 1000.0
	DefaultMileageMax = 300000.0
)

// Request defaults for the finance endpoints.
const (
	DefaultCreditScore = 720
	DefaultPrice       = 30000.0
	DefaultLoanMonths  = 60
	DefaultLeaseMonths = 36
)

// Image provider settings.
const (
	// DefaultImageAngle is the camera angle requested from the image CDN
	DefaultImageAngle = 23

	// DefaultImageYear substitutes for records with no usable model year
	DefaultImageYear = 2022

	ImaginBaseURL     = "https://cdn.imagin.studio/getImage"
	CarImageryBaseURL = "https://www.carimagery.com/api.asmx/GetImageUrl"

	// DefaultImaginCustomer is the demo customer key for the imagin CDN
	DefaultImaginCustomer = "demo"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"
)
