// Package finance provides the pure calculation primitives behind the loan,
// lease, and special-program endpoints: tiered APR lookup, the standard
// amortization formula, and the fixed-rate depreciation curve.
package finance

import (
	"math"

	"carfinance/pkg/constants"
	"carfinance/pkg/mathutil"
)

// Quote holds the derived figures for a loan at a given set of terms.
type Quote struct {
	APRPercent     float64 `json:"apr_percent"`
	Months         int     `json:"months"`
	Downpayment    float64 `json:"downpayment"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPaid      float64 `json:"total_paid"`
}

// LeaseFigures holds the derived figures for a lease at a given set of terms.
type LeaseFigures struct {
	ResidualValue float64 `json:"residual_value"`
	MonthlyLease  float64 `json:"monthly_lease"`
	TotalPaid     float64 `json:"total_paid"`
}

// ProgramOffer describes one special finance program applied to a price.
type ProgramOffer struct {
	Program        string  `json:"program"`
	APRPercent     float64 `json:"apr_percent"`
	DownRequired   float64 `json:"down_required"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPaid      float64 `json:"total_paid"`
}

// program pairs an APR adjustment with its marketing name. Order of the
// package-level slice is not significant; offers are keyed by name.
type program struct {
	key         string
	description string
	aprAdjust   float64
}

var specialPrograms = []program{
	{key: "student", description: "College Grad Rebate Program", aprAdjust: -0.3},
	{key: "military", description: "Military Rebate", aprAdjust: -0.5},
	{key: "elderly", description: "Senior Customer Loyalty Discount", aprAdjust: -0.2},
}

// APRForCreditScore maps a credit score onto the fixed APR tiers. Any integer
// is accepted; scores below the lowest tier fall to the subprime rate.
func APRForCreditScore(creditScore int) float64 {
	switch {
	case creditScore >= constants.CreditTierExcellent:
		return constants.APRExcellent
	case creditScore >= constants.CreditTierVeryGood:
		return constants.APRVeryGood
	case creditScore >= constants.CreditTierGood:
		return constants.APRGood
	case creditScore >= constants.CreditTierFair:
		return constants.APRFair
	default:
		return constants.APRSubprime
	}
}

// MonthlyPayment calculates the constant monthly payment for a loan using the
// standard amortization formula, rounded to cents. A non-positive term yields
// zero rather than an error, and a zero rate degenerates to straight-line
// division to avoid the zero-rate singularity in the formula.
func MonthlyPayment(price, aprPercent float64, months int, downpayment float64) float64 {
	principal := mathutil.Max(price-downpayment, 0)
	if months <= 0 {
		return 0
	}

	periodicRate := aprPercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
	if periodicRate == 0 {
		return mathutil.Round(principal / float64(months))
	}

	power := math.Pow(1.00+periodicRate, float64(months))
	payment := principal * periodicRate * power / (power - 1.00)
	return mathutil.Round(payment)
}

// DepreciatedValue estimates a vehicle's worth after the given number of
// years, which may be fractional (e.g. months/12).
func DepreciatedValue(price, years float64) float64 {
	return mathutil.Round(price * math.Pow(1.00-constants.AnnualDepreciationRate, years))
}

// LeaseQuote computes the residual value, monthly lease payment, and total
// paid over the term. A non-positive term yields a zero monthly payment with
// the full price as residual. The monthly payment is intentionally not floored at
// zero: a down payment large enough to overshoot the depreciation plus
// finance fees produces a negative figure, matching the published contract.
func LeaseQuote(price, aprPercent float64, months int, downpayment float64) LeaseFigures {
	if months <= 0 {
		return LeaseFigures{
			ResidualValue: mathutil.Round(price),
			TotalPaid:     mathutil.Round(downpayment),
		}
	}
	residual := DepreciatedValue(price, float64(months)/constants.MonthsPerYear)
	depreciationFee := (price - residual) / float64(months)
	financeFee := (price + residual) * (aprPercent / constants.PercentageMultiplier) / 24.0
	monthly := depreciationFee + financeFee - downpayment/float64(months)
	return LeaseFigures{
		ResidualValue: residual,
		MonthlyLease:  mathutil.Round(monthly),
		TotalPaid:     mathutil.Round(monthly*float64(months) + downpayment),
	}
}

// SpecialProgramOffers applies each program's APR adjustment to the base APR,
// floored at the program minimum, and prices the loan with the shared down
// payment requirement.
func SpecialProgramOffers(price, baseAPR float64, months int, downRequired float64) map[string]ProgramOffer {
	offers := make(map[string]ProgramOffer, len(specialPrograms))
	for _, p := range specialPrograms {
		apr := mathutil.Max(constants.ProgramAPRFloor, baseAPR+p.aprAdjust)
		monthly := MonthlyPayment(price, apr, months, downRequired)
		offers[p.key] = ProgramOffer{
			Program:        p.description,
			APRPercent:     mathutil.Round(apr),
			DownRequired:   mathutil.Round(downRequired),
			MonthlyPayment: monthly,
			TotalPaid:      mathutil.Round(monthly * float64(months)),
		}
	}
	return offers
}

// DownPaymentRequirement returns the required down payment for a price at a
// credit score. The lower threshold wins when both apply.
func DownPaymentRequirement(price float64, creditScore int) float64 {
	requirement := 0.0
	if creditScore < constants.DownPaymentWaiverScore {
		requirement = price * constants.DownPaymentBaseRate
	}
	if creditScore < constants.DownPaymentDoubleScore {
		requirement = price * constants.DownPaymentDoubleRate
	}
	return requirement
}

// LoanQuote bundles MonthlyPayment and the derived total into a Quote.
func LoanQuote(price, aprPercent float64, months int, downpayment float64) Quote {
	monthly := MonthlyPayment(price, aprPercent, months, downpayment)
	return Quote{
		APRPercent:     aprPercent,
		Months:         months,
		Downpayment:    downpayment,
		MonthlyPayment: monthly,
		TotalPaid:      mathutil.Round(monthly * float64(months)),
	}
}
