package images

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestModelFamily(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		expected string
	}{
		{
			name:     "Strips trim words",
			model:    "RAV4 XLE Hybrid",
			expected: "RAV4",
		},
		{
			name:     "Plain model unchanged",
			model:    "Camry",
			expected: "Camry",
		},
		{
			name:     "Alphanumeric family survives",
			model:    "GR86 Premium",
			expected: "GR86",
		},
		{
			name:     "Lowercase trim words stripped",
			model:    "Corolla le",
			expected: "Corolla",
		},
		{
			name:     "Trim word embedded in the family name is kept",
			model:    "Corolla LE",
			expected: "Corolla",
		},
		{
			name:     "Empty model",
			model:    "",
			expected: "",
		},
		{
			name:     "All trim words falls back to raw model",
			model:    "Limited",
			expected: "Limited",
		},
		{
			name:     "Tundra SR5",
			model:    "Tundra SR5",
			expected: "Tundra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModelFamily(tt.model); got != tt.expected {
				t.Errorf("ModelFamily(%q) = %q, expected %q", tt.model, got, tt.expected)
			}
		})
	}
}

func TestImaginURLDeterministic(t *testing.T) {
	url := ImaginURL("", "Toyota", "RAV4 XLE Hybrid", 2023, 23)

	if !strings.Contains(url, "modelFamily=RAV4") {
		t.Errorf("expected modelFamily=RAV4 in %s", url)
	}
	if !strings.Contains(url, "modelYear=2023") {
		t.Errorf("expected modelYear=2023 in %s", url)
	}
	if !strings.Contains(url, "customer=demo") {
		t.Errorf("expected demo customer in %s", url)
	}

	if again := ImaginURL("", "Toyota", "RAV4 XLE Hybrid", 2023, 23); again != url {
		t.Error("ImaginURL is not deterministic")
	}
}

func TestImaginURLDefaults(t *testing.T) {
	url := ImaginURL("", "", "Camry", 0, 23)

	if !strings.Contains(url, "make=Toyota") {
		t.Errorf("expected default make in %s", url)
	}
	if !strings.Contains(url, "modelYear=2022") {
		t.Errorf("expected default model year in %s", url)
	}
}

func TestResolveUsesCacheOnSecondCall(t *testing.T) {
	r := NewResolver(nil, "")

	url1, source1 := r.Resolve("Toyota", "Camry", 2022, 23)
	if source1 != SourceImagin {
		t.Errorf("first resolve source = %s, expected %s", source1, SourceImagin)
	}

	url2, source2 := r.Resolve("Toyota", "Camry", 2022, 23)
	if source2 != SourceCache {
		t.Errorf("second resolve source = %s, expected %s", source2, SourceCache)
	}
	if url1 != url2 {
		t.Error("cached URL differs from first resolution")
	}
}

func TestResolveCacheKeyIsCaseInsensitive(t *testing.T) {
	r := NewResolver(nil, "")

	r.Resolve("Toyota", "Camry", 2022, 23)
	_, source := r.Resolve("TOYOTA", "CAMRY", 2022, 23)
	if source != SourceCache {
		t.Errorf("source = %s, expected cache hit on case-folded key", source)
	}
}

// roundTripFunc lets tests stub provider responses without a listener.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func stubClient(f roundTripFunc) *http.Client {
	return &http.Client{Transport: f}
}

func TestResolveWithFallbackPrimarySucceeds(t *testing.T) {
	r := NewResolver(nil, "")
	r.SetBaseClient(stubClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}, nil
	}))

	_, source := r.ResolveWithFallback(context.Background(), "Toyota", "Camry", 2022, 23)
	if source != SourceImagin {
		t.Errorf("source = %s, expected %s", source, SourceImagin)
	}
}

func TestResolveWithFallbackUsesSecondaryProvider(t *testing.T) {
	r := NewResolver(nil, "")
	r.SetBaseClient(stubClient(func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodHead {
			return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(""))}, nil
		}
		body := `<string> https://images.example.com/camry.jpg </string>`
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
	}))

	url, source := r.ResolveWithFallback(context.Background(), "Toyota", "Camry", 2022, 23)
	if source != SourceCarImagery {
		t.Errorf("source = %s, expected %s", source, SourceCarImagery)
	}
	if url != "https://images.example.com/camry.jpg" {
		t.Errorf("url = %s, expected extracted fallback URL", url)
	}
}

func TestResolveWithFallbackDegradesToPrimary(t *testing.T) {
	r := NewResolver(nil, "")
	r.SetBaseClient(stubClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusInternalServerError, Body: io.NopCloser(strings.NewReader(""))}, nil
	}))

	url, source := r.ResolveWithFallback(context.Background(), "Toyota", "Camry", 2022, 23)
	if source != SourceImagin {
		t.Errorf("source = %s, expected best-effort %s", source, SourceImagin)
	}
	if !strings.Contains(url, "cdn.imagin.studio") {
		t.Errorf("url = %s, expected primary provider URL", url)
	}

	// The degraded result is cached too.
	_, source = r.ResolveWithFallback(context.Background(), "Toyota", "Camry", 2022, 23)
	if source != SourceCache {
		t.Errorf("source = %s, expected cache hit after degradation", source)
	}
}
