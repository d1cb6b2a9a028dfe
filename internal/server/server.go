// Package server wires the catalog, finance calculator, image resolver, and
// mailer behind the HTTP API.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"carfinance/internal/catalog"
	"carfinance/internal/images"
	"carfinance/internal/mailer"
	"carfinance/internal/metrics"
)

type handler struct {
	logger   *zap.Logger
	store    *catalog.Store
	resolver *images.Resolver
	mail     *mailer.Mailer
	cors     *Config
}

// NewHandler constructs the HTTP handler serving the catalog and finance API.
// All collaborators are injected so tests can run against fixtures.
func NewHandler(logger *zap.Logger, cfg *Config, store *catalog.Store, resolver *images.Resolver, mail *mailer.Mailer) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
	}

	h := &handler{
		logger:   logger,
		store:    store,
		resolver: resolver,
		mail:     mail,
		cors:     cfg,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", h.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/cars", h.handleCars).Methods(http.MethodGet)
	r.HandleFunc("/filter", h.handleFilter).Methods(http.MethodGet)
	r.HandleFunc("/apr", h.handleAPR).Methods(http.MethodGet)
	r.HandleFunc("/lease", h.handleLease).Methods(http.MethodGet)
	r.HandleFunc("/loan", h.handleLoan).Methods(http.MethodGet)
	r.HandleFunc("/demo", h.handleDemo).Methods(http.MethodGet)
	r.HandleFunc("/car/{id}", h.handleCarByID).Methods(http.MethodGet)
	r.HandleFunc("/compare", h.handleCompare).Methods(http.MethodGet)
	r.HandleFunc("/share_email", h.handleShareEmail).Methods(http.MethodPost)
	r.HandleFunc("/image", h.handleImage).Methods(http.MethodGet)
	r.HandleFunc("/image_fallback", h.handleImageFallback).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Route listing needs the router itself.
	r.HandleFunc("/__routes", h.routesHandler(r)).Methods(http.MethodGet)

	r.Use(h.corsMiddleware)
	r.Use(h.metricsMiddleware)

	return r
}

// corsMiddleware mirrors the thin CORS layer of the original deployment:
// configured origins get the standard headers, preflights short-circuit.
func (h *handler) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if h.cors.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for the metrics middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func (h *handler) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// routesHandler walks the router and lists every registered path, a cheap
// diagnostic for deployment smoke checks.
func (h *handler) routesHandler(r *mux.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		type routeInfo struct {
			Path    string   `json:"path"`
			Methods []string `json:"methods,omitempty"`
		}

		var routes []routeInfo
		err := r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
			path, err := route.GetPathTemplate()
			if err != nil {
				return nil
			}
			info := routeInfo{Path: path}
			if methods, err := route.GetMethods(); err == nil {
				info.Methods = methods
			}
			routes = append(routes, info)
			return nil
		})
		if err != nil {
			h.respondError(w, http.StatusInternalServerError, err.Error(), "server.routesHandler")
			return
		}

		h.writeJSON(w, http.StatusOK, map[string]interface{}{"routes": routes})
	}
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
