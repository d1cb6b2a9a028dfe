package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"carfinance/pkg/constants"
)

// Resolution sources reported to API callers.
const (
	SourceCache      = "cache"
	SourceImagin     = "imagin"
	SourceCarImagery = "carimagery"
)

const (
	probeTimeout    = 6 * time.Second
	fallbackTimeout = 12 * time.Second
)

var urlPattern = regexp.MustCompile(`https?://[^\s<]+`)

type cacheKey struct {
	make  string
	model string
	year  int
	angle int
}

type cacheEntry struct {
	url    string
	source string
}

// Resolver resolves image URLs with a process-lifetime cache. Multiple
// in-flight requests may race to resolve the same key; last-writer-wins is
// fine because every writer computes an equivalent value.
type Resolver struct {
	logger   *zap.Logger
	client   *http.Client
	customer string

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

// NewResolver constructs a Resolver. The customer key parameterizes the
// primary provider URL; an empty key uses the demo customer.
func NewResolver(logger *zap.Logger, customer string) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		logger:   logger,
		client:   &http.Client{Timeout: fallbackTimeout},
		customer: customer,
		cache:    make(map[cacheKey]cacheEntry),
	}
}

func key(make, model string, year, angle int) cacheKey {
	return cacheKey{
		make:  strings.ToLower(make),
		model: strings.ToLower(model),
		year:  year,
		angle: angle,
	}
}

func (r *Resolver) lookup(k cacheKey) (cacheEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.cache[k]
	return entry, ok
}

func (r *Resolver) store(k cacheKey, url, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[k] = cacheEntry{url: url, source: source}
}

// Resolve returns the deterministic primary URL without touching the
// network, caching it on first sight of a key.
func (r *Resolver) Resolve(make, model string, year, angle int) (string, string) {
	k := key(make, model, year, angle)
	if entry, ok := r.lookup(k); ok {
		return entry.url, SourceCache
	}

	primary := ImaginURL(r.customer, make, model, year, angle)
	r.store(k, primary, SourceImagin)
	return primary, SourceImagin
}

// ResolveWithFallback probes the primary URL and, on failure, tries the
// free-text secondary provider once. It never returns an error: when both
// providers fail the primary URL is cached and returned anyway.
func (r *Resolver) ResolveWithFallback(ctx context.Context, make, model string, year, angle int) (string, string) {
	k := key(make, model, year, angle)
	if entry, ok := r.lookup(k); ok {
		return entry.url, SourceCache
	}

	primary := ImaginURL(r.customer, make, model, year, angle)
	if r.probe(ctx, primary) {
		r.store(k, primary, SourceImagin)
		return primary, SourceImagin
	}

	if alt := r.fallbackLookup(ctx, make, model, year); alt != "" {
		r.store(k, alt, SourceCarImagery)
		return alt, SourceCarImagery
	}

	r.store(k, primary, SourceImagin)
	return primary, SourceImagin
}

// probe performs a HEAD request against the primary URL; any 2xx counts as
// existing.
func (r *Resolver) probe(ctx context.Context, target string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("image probe failed",
			zap.String("op", "images.probe"),
			zap.Error(err),
		)
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return resp.StatusCode/100 == 2
}

// fallbackLookup queries the secondary provider with a free-text search term
// and extracts the first URL-shaped substring from the response body.
// Returns "" on any failure.
func (r *Resolver) fallbackLookup(ctx context.Context, make, model string, year int) string {
	ctx, cancel := context.WithTimeout(ctx, fallbackTimeout)
	defer cancel()

	term := fmt.Sprintf("%s %s %d", make, model, year)
	target := fmt.Sprintf("%s?searchTerm=%s", constants.CarImageryBaseURL, url.QueryEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return ""
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("image fallback lookup failed",
			zap.String("op", "images.fallbackLookup"),
			zap.Error(err),
		)
		return ""
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return ""
	}

	return urlPattern.FindString(string(body))
}

// SetBaseClient overrides the HTTP client, used by tests to point the
// resolver at a stub server.
func (r *Resolver) SetBaseClient(client *http.Client) {
	if client != nil {
		r.client = client
	}
}
