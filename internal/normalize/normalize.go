package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/revsum/revsum/internal/model"
)

// DefaultCurrency is prefixed to bare numeric prices
const DefaultCurrency = "₹"

// Price fields in resolution order. The payload shape differs between
// source sites and older API versions.
var priceFields = []string{"productPrice", "price", "product_price"}

// currencyGlyphs are leading symbols that mark a price as already formatted
const currencyGlyphs = "₹$€£"

// Normalize maps a raw analysis payload onto the display model.
// It never fails: anything missing or malformed falls back to a default.
func Normalize(raw map[string]any, currency string) model.AnalysisResult {
	if currency == "" {
		currency = DefaultCurrency
	}

	result := model.AnalysisResult{
		ProductName:    firstString(raw, model.UnknownProduct, "productName", "product_name"),
		ProductImage:   firstString(raw, "", "productImage", "product_image"),
		TotalReviews:   clampInt(raw["totalReviews"], 0, math.MaxInt32),
		AverageRating:  displayValue(raw["averageRating"]),
		FormattedPrice: ResolvePrice(raw, currency),
		Summary:        summary(raw["summary"]),
		Sentiment:      sentiment(raw["sentiment"]),
		KeyFeatures:    keyFeatures(raw),
		Platform:       firstString(raw, "", "platform"),
		CreatedAt:      firstString(raw, "", "createdAt"),
	}

	if id, ok := toFloat(raw["analysisId"]); ok && id > 0 {
		result.AnalysisID = int(id)
	}
	if rating := displayValue(raw["productRating"]); rating != model.NotAvailable {
		result.ProductRating = rating
	}

	return result
}

// ResolvePrice picks the first populated price field and formats it
func ResolvePrice(raw map[string]any, currency string) string {
	for _, field := range priceFields {
		if v, ok := raw[field]; ok && truthy(v) {
			return FormatPrice(v, currency)
		}
	}
	return model.NotAvailable
}

// FormatPrice renders a price for display. Bare numbers get the currency
// prefix; anything else, including already-prefixed prices, passes through.
func FormatPrice(v any, currency string) string {
	if !truthy(v) {
		return model.NotAvailable
	}

	s := strings.TrimSpace(stringify(v))
	if s == "" || s == model.NotAvailable {
		return model.NotAvailable
	}

	switch {
	case s[0] >= '0' && s[0] <= '9':
		return currency + s
	case HasCurrencyPrefix(s):
		return s
	default:
		return s
	}
}

// HasCurrencyPrefix reports whether s starts with a known currency glyph
func HasCurrencyPrefix(s string) bool {
	for _, g := range currencyGlyphs {
		if strings.HasPrefix(s, string(g)) {
			return true
		}
	}
	return false
}

func summary(v any) model.Summary {
	m, _ := v.(map[string]any)
	return model.Summary{
		Pros: stringList(m["pros"]),
		Cons: stringList(m["cons"]),
	}
}

func sentiment(v any) model.Sentiment {
	m, _ := v.(map[string]any)
	return model.Sentiment{
		Positive: clampInt(m["positive"], 0, 100),
		Neutral:  clampInt(m["neutral"], 0, 100),
		Negative: clampInt(m["negative"], 0, 100),
	}
}

func keyFeatures(raw map[string]any) []model.KeyFeature {
	list, ok := raw["keyFeatures"].([]any)
	if !ok {
		list, _ = raw["key_features"].([]any)
	}

	features := make([]model.KeyFeature, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["feature"].(string)
		label, _ := m["sentiment"].(string)
		features = append(features, model.KeyFeature{
			Feature:   name,
			Sentiment: model.ParseFeatureSentiment(label),
			Mentions:  clampInt(m["mentions"], 0, 100),
		})
	}
	return features
}

func stringList(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func firstString(raw map[string]any, def string, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return def
}

// displayValue renders a string-or-number field, "N/A" when absent
func displayValue(v any) string {
	switch val := v.(type) {
	case nil:
		return model.NotAvailable
	case string:
		if strings.TrimSpace(val) == "" {
			return model.NotAvailable
		}
		return val
	}

	f, ok := toFloat(v)
	if !ok {
		return model.NotAvailable
	}
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func clampInt(v any, lo, hi int) int {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) {
		return lo
	}
	n := math.Round(f)
	if n < float64(lo) {
		return lo
	}
	if n > float64(hi) {
		return hi
	}
	return int(n)
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// truthy mirrors the loose emptiness check the API payloads were designed around:
// nil, false, zero and the empty string all count as absent.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}
