// Package images derives external image URLs for catalog vehicles. The
// primary provider URL is deterministic; an optional network path probes it
// and falls back to a free-text lookup service, caching whatever it settles
// on for the lifetime of the process.
package images

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"carfinance/pkg/constants"
)

// trimWords are the trim-level qualifiers stripped before extracting the
// model family token. Kept as alternation so "RAV4 XLE Hybrid" reduces to
// "RAV4" while alphanumeric families like "GR86" or "bZ4X" survive.
var trimWords = regexp.MustCompile(`(?i)\b(Hybrid|Prime|TRD|XSE|XLE|SE|LE|L|SR5|SR|Limited|Platinum|Base|Adventure|Nightshade|Trail|Capstone)\b`)

var firstToken = regexp.MustCompile(`[A-Za-z0-9]+`)

// ModelFamily extracts the base model token used as the image lookup
// parameter. Falls back to the trimmed raw model when stripping leaves no
// alphanumeric token.
func ModelFamily(model string) string {
	if model == "" {
		return ""
	}
	clean := trimWords.ReplaceAllString(model, "")
	if token := firstToken.FindString(clean); token != "" {
		return token
	}
	return strings.TrimSpace(model)
}

// ImaginURL builds the deterministic primary provider URL for a vehicle.
// A falsy year defaults to the current-generation model year.
func ImaginURL(customer, make, model string, year, angle int) string {
	if customer == "" {
		customer = constants.DefaultImaginCustomer
	}
	if make == "" {
		make = constants.DefaultMake
	}
	if year == 0 {
		year = constants.DefaultImageYear
	}
	return fmt.Sprintf("%s?customer=%s&make=%s&modelFamily=%s&modelYear=%d&angle=%d&zoomType=fullscreen",
		constants.ImaginBaseURL,
		url.QueryEscape(customer),
		url.QueryEscape(make),
		url.QueryEscape(ModelFamily(model)),
		year,
		angle,
	)
}
