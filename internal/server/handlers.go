package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"carfinance/internal/catalog"
	"carfinance/internal/mailer"
	"carfinance/internal/metrics"
	"carfinance/pkg/constants"
	"carfinance/pkg/finance"
	"carfinance/pkg/mathutil"
)

// enrichedVehicle is a catalog row with its computed image URL attached.
type enrichedVehicle struct {
	catalog.Vehicle
	Image string `json:"image"`
}

type pageResponse struct {
	Count   int               `json:"count"`
	Results []enrichedVehicle `json:"results"`
	Offset  int               `json:"offset"`
	Limit   int               `json:"limit"`
}

type aprResponse struct {
	APRPercent     float64 `json:"apr_percent"`
	PriceUsed      float64 `json:"price_used"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPaid      float64 `json:"total_paid"`
}

type leaseResponse struct {
	APRPercent    float64 `json:"apr_percent"`
	PriceUsed     float64 `json:"price_used"`
	ResidualValue float64 `json:"residual_value"`
	MonthlyLease  float64 `json:"monthly_lease"`
	TotalPaid     float64 `json:"total_paid"`
}

type loanOption struct {
	Program        string  `json:"program"`
	APRPercent     float64 `json:"apr_percent"`
	PriceUsed      float64 `json:"price_used"`
	DownRequired   float64 `json:"down_required"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPaid      float64 `json:"total_paid"`
}

type loanResponse struct {
	Standard        loanOption                       `json:"standard"`
	SpecialPrograms map[string]finance.ProgramOffer `json:"special_programs"`
}

// Query parameter helpers. Out-of-range and unparseable values are defaulted
// rather than rejected; the endpoints never 400 on numeric noise.

func queryInt(values url.Values, key string, fallback int) int {
	raw := values.Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}

func queryFloat(values url.Values, key string, fallback float64) float64 {
	raw := values.Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return val
}

func queryString(values url.Values, key, fallback string) string {
	if raw := values.Get(key); raw != "" {
		return raw
	}
	return fallback
}

func (h *handler) enrich(vehicles []catalog.Vehicle) []enrichedVehicle {
	out := make([]enrichedVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, h.enrichOne(v))
	}
	return out
}

func (h *handler) enrichOne(v catalog.Vehicle) enrichedVehicle {
	url, _ := h.resolver.Resolve(v.Make, v.Model, v.Year, constants.DefaultImageAngle)
	return enrichedVehicle{Vehicle: v, Image: url}
}

func (h *handler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "carfinance API running",
		"rows":    h.store.Len(),
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"rows":    h.store.Len(),
		"columns": catalog.Columns,
	})
}

func (h *handler) handleCars(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	sortBy := queryString(values, "sort_by", "price")
	order := queryString(values, "order", "asc")
	limit := queryInt(values, "limit", constants.DefaultPageLimit)
	offset := queryInt(values, "offset", 0)

	total, page := h.store.List(sortBy, order, limit, offset)
	h.writeJSON(w, http.StatusOK, pageResponse{
		Count:   total,
		Results: h.enrich(page),
		Offset:  offset,
		Limit:   limit,
	})
}

func (h *handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	params := catalog.DefaultFilterParams()
	params.Query = values.Get("q")
	params.PriceMin = queryFloat(values, "price_min", 0)
	params.PriceMax = queryFloat(values, "price_max", constants.DefaultPriceMax)
	params.HPMin = queryFloat(values, "hp_min", 0)
	params.HPMax = queryFloat(values, "hp_max", constants.DefaultHPMax)
	params.MileageMin = queryFloat(values, "mil_min", 0)
	params.MileageMax = queryFloat(values, "mil_max", constants.DefaultMileageMax)
	params.SortBy = queryString(values, "sort_by", "price")
	params.Order = queryString(values, "order", "asc")
	params.Limit = queryInt(values, "limit", constants.DefaultPageLimit)
	params.Offset = queryInt(values, "offset", 0)

	if raw := values.Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			params.Year = &year
		}
	}

	total, page := h.store.Filter(params)
	h.writeJSON(w, http.StatusOK, pageResponse{
		Count:   total,
		Results: h.enrich(page),
		Offset:  params.Offset,
		Limit:   params.Limit,
	})
}

func computeAPR(creditScore int, price float64, months int, downpayment float64) aprResponse {
	apr := finance.APRForCreditScore(creditScore)
	quote := finance.LoanQuote(price, apr, months, downpayment)
	return aprResponse{
		APRPercent:     apr,
		PriceUsed:      price,
		MonthlyPayment: quote.MonthlyPayment,
		TotalPaid:      quote.TotalPaid,
	}
}

func (h *handler) handleAPR(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	creditScore := queryInt(values, "credit_score", constants.DefaultCreditScore)
	price := queryFloat(values, "price", constants.DefaultPrice)
	months := queryInt(values, "months", constants.DefaultLoanMonths)
	downpayment := queryFloat(values, "downpayment", 0)

	h.writeJSON(w, http.StatusOK, computeAPR(creditScore, price, months, downpayment))
}

func computeLease(price float64, creditScore, months int, downpayment float64) leaseResponse {
	apr := finance.APRForCreditScore(creditScore)
	lease := finance.LeaseQuote(price, apr, months, downpayment)
	return leaseResponse{
		APRPercent:    apr,
		PriceUsed:     price,
		ResidualValue: lease.ResidualValue,
		MonthlyLease:  lease.MonthlyLease,
		TotalPaid:     lease.TotalPaid,
	}
}

func (h *handler) handleLease(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	price := queryFloat(values, "price", constants.DefaultPrice)
	creditScore := queryInt(values, "credit_score", constants.DefaultCreditScore)
	months := queryInt(values, "months", constants.DefaultLeaseMonths)
	downpayment := queryFloat(values, "downpayment", 0)

	h.writeJSON(w, http.StatusOK, computeLease(price, creditScore, months, downpayment))
}

func computeLoan(price float64, creditScore, months int) loanResponse {
	apr := finance.APRForCreditScore(creditScore)
	downRequired := finance.DownPaymentRequirement(price, creditScore)

	standard := finance.LoanQuote(price, apr, months, downRequired)
	return loanResponse{
		Standard: loanOption{
			Program:        "Standard Finance Plan",
			APRPercent:     apr,
			PriceUsed:      price,
			DownRequired:   mathutil.Round(downRequired),
			MonthlyPayment: standard.MonthlyPayment,
			TotalPaid:      standard.TotalPaid,
		},
		SpecialPrograms: finance.SpecialProgramOffers(price, apr, months, downRequired),
	}
}

func (h *handler) handleLoan(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	price := queryFloat(values, "price", constants.DefaultPrice)
	creditScore := queryInt(values, "credit_score", constants.DefaultCreditScore)
	months := queryInt(values, "months", constants.DefaultLoanMonths)

	h.writeJSON(w, http.StatusOK, computeLoan(price, creditScore, months))
}

func (h *handler) handleDemo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sample_price": constants.DefaultPrice,
		"lease":        computeLease(constants.DefaultPrice, constants.DefaultCreditScore, constants.DefaultLeaseMonths, 0),
		"loan":         computeLoan(constants.DefaultPrice, constants.DefaultCreditScore, constants.DefaultLoanMonths),
		"apr":          computeAPR(constants.DefaultCreditScore, constants.DefaultPrice, constants.DefaultLoanMonths, 0),
	})
}

func (h *handler) handleCarByID(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "not found", "server.handleCarByID")
		return
	}

	v, ok := h.store.GetByID(id)
	if !ok {
		h.respondError(w, http.StatusNotFound, "not found", "server.handleCarByID")
		return
	}

	h.writeJSON(w, http.StatusOK, h.enrichOne(v))
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	id1 := queryInt(values, "id1", -1)
	id2 := queryInt(values, "id2", -1)
	creditScore := queryInt(values, "credit_score", constants.DefaultCreditScore)
	months := queryInt(values, "months", constants.DefaultLoanMonths)
	downpayment := queryFloat(values, "downpayment", 0)

	carA, okA := h.store.GetByID(id1)
	carB, okB := h.store.GetByID(id2)
	if !okA || !okB {
		h.logger.Warn("compare id lookup miss",
			zap.String("op", "server.handleCompare"),
			zap.Int("id1", id1),
			zap.Int("id2", id2),
		)
		h.writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error": "not found",
			"ids":   []int{id1, id2},
		})
		return
	}

	apr := finance.APRForCreditScore(creditScore)
	quoteA := finance.LoanQuote(carA.Price, apr, months, downpayment)
	quoteB := finance.LoanQuote(carB.Price, apr, months, downpayment)

	diffs := map[string]float64{
		"price":           mathutil.Round(carA.Price - carB.Price),
		"mpg_combined":    mathutil.Round(carA.MPGCombined - carB.MPGCombined),
		"horsepower":      mathutil.Round(carA.Horsepower - carB.Horsepower),
		"mileage":         mathutil.Round(carA.Mileage - carB.Mileage),
		"year":            float64(carA.Year - carB.Year),
		"monthly_payment": mathutil.Round(quoteA.MonthlyPayment - quoteB.MonthlyPayment),
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"inputs": map[string]interface{}{
			"id1":          id1,
			"id2":          id2,
			"credit_score": creditScore,
			"months":       months,
			"downpayment":  downpayment,
		},
		"carA":     h.enrichOne(carA),
		"financeA": quoteA,
		"carB":     h.enrichOne(carB),
		"financeB": quoteB,
		"diffs":    diffs,
	})
}

func (h *handler) handleShareEmail(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	toEmail := values.Get("to_email")
	carID := queryInt(values, "car_id", -1)
	creditScore := queryInt(values, "credit_score", constants.DefaultCreditScore)
	months := queryInt(values, "months", constants.DefaultLoanMonths)
	downpayment := queryFloat(values, "downpayment", 0)

	v, ok := h.store.GetByID(carID)
	if !ok {
		h.respondError(w, http.StatusNotFound, "not found", "server.handleShareEmail")
		return
	}

	apr := finance.APRForCreditScore(creditScore)
	quote := finance.LoanQuote(v.Price, apr, months, downpayment)
	imageURL, _ := h.resolver.Resolve(v.Make, v.Model, v.Year, constants.DefaultImageAngle)

	subject := fmt.Sprintf("Your quote: %d %s %s", v.Year, v.Make, v.Model)
	body := mailer.ComposeQuoteSummary(v, quote, imageURL)

	channel, link := h.mail.Share(toEmail, subject, body)
	metrics.EmailShares.WithLabelValues(channel).Inc()

	response := map[string]interface{}{
		"ok":       true,
		"sent_via": channel,
		"to":       toEmail,
		"car_id":   carID,
		"preview":  body,
	}
	if link != "" {
		response["mailto"] = link
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleImage(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	makeName := values.Get("make")
	model := values.Get("model")
	year := queryInt(values, "year", 0)
	angle := queryInt(values, "angle", constants.DefaultImageAngle)

	url, source := h.resolver.Resolve(makeName, model, year, angle)
	metrics.ImageResolutions.WithLabelValues(source).Inc()
	h.writeJSON(w, http.StatusOK, map[string]string{"url": url, "source": source})
}

func (h *handler) handleImageFallback(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	makeName := values.Get("make")
	model := values.Get("model")
	year := queryInt(values, "year", 0)
	angle := queryInt(values, "angle", constants.DefaultImageAngle)

	url, source := h.resolver.ResolveWithFallback(r.Context(), makeName, model, year, angle)
	metrics.ImageResolutions.WithLabelValues(source).Inc()
	h.writeJSON(w, http.StatusOK, map[string]string{"url": url, "source": source})
}
