package marketdata

import (
	"strings"

	"github.com/user/fxjournal/internal/models"
)

// Calendar entries whose name mentions one of these are treated as
// market-moving. Everything else is classified low; this path never
// produces "medium".
var highImpactKeywords = []string{
	"NFP",
	"Non-Farm",
	"FOMC",
	"CPI",
	"GDP",
	"Interest Rate",
	"Employment",
}

// countryPairs maps a release's country code to the currency pairs it is
// deemed to affect.
var countryPairs = map[string][]string{
	"US":  {"EURUSD", "GBPUSD", "USDJPY", "USDCAD", "AUDUSD", "NZDUSD"},
	"EUR": {"EURUSD", "EURGBP", "EURJPY", "EURCHF"},
	"GB":  {"GBPUSD", "EURGBP", "GBPJPY"},
	"JP":  {"USDJPY", "EURJPY", "GBPJPY"},
	"CA":  {"USDCAD", "CADCHF"},
	"AU":  {"AUDUSD", "AUDJPY"},
	"NZ":  {"NZDUSD"},
	"CH":  {"USDCHF", "EURCHF"},
}

// ClassifyImpact decides an event's impact level from its name by
// case-insensitive keyword match.
func ClassifyImpact(eventName string) string {
	lower := strings.ToLower(eventName)
	for _, keyword := range highImpactKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return models.ImpactHigh
		}
	}
	return models.ImpactLow
}

// AffectedPairs returns the currency pairs moved by releases from the given
// country. Unknown countries map to an empty list.
func AffectedPairs(country string) []string {
	if pairs, ok := countryPairs[country]; ok {
		return pairs
	}
	return []string{}
}
