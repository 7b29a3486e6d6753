package model

// AnalysisRequest is a single submission to the analysis service
type AnalysisRequest struct {
	URL string `json:"url"`
}

// AnalysisResult is the normalized display model for a finished analysis.
// Every field has a default so renderers never deal with missing data.
type AnalysisResult struct {
	ProductName    string       `json:"productName"`
	ProductImage   string       `json:"productImage,omitempty"`
	TotalReviews   int          `json:"totalReviews"`
	AverageRating  string       `json:"averageRating"`
	FormattedPrice string       `json:"productPrice"` // Already resolved; "N/A" when unknown
	Summary        Summary      `json:"summary"`
	Sentiment      Sentiment    `json:"sentiment"`
	KeyFeatures    []KeyFeature `json:"keyFeatures"`

	ProductRating string `json:"productRating,omitempty"` // Rating scraped from the product page
	Platform      string `json:"platform,omitempty"`      // Site key the backend matched
	AnalysisID    int    `json:"analysisId,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// Summary holds the ordered pros and cons
type Summary struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// Sentiment holds percentages in 0-100; they need not sum to 100
type Sentiment struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// FeatureSentiment classifies how reviewers feel about a feature
type FeatureSentiment string

const (
	FeaturePositive FeatureSentiment = "positive"
	FeatureNeutral  FeatureSentiment = "neutral"
	FeatureNegative FeatureSentiment = "negative"
)

// ParseFeatureSentiment maps arbitrary input onto a known sentiment, defaulting to neutral
func ParseFeatureSentiment(s string) FeatureSentiment {
	switch FeatureSentiment(s) {
	case FeaturePositive, FeatureNegative:
		return FeatureSentiment(s)
	default:
		return FeatureNeutral
	}
}

// KeyFeature is one frequently mentioned product feature
type KeyFeature struct {
	Feature   string           `json:"feature"`
	Sentiment FeatureSentiment `json:"sentiment"`
	Mentions  int              `json:"mentions"` // 0-100
}

// Defaults used by the normalizer
const (
	UnknownProduct = "Unknown Product"
	NotAvailable   = "N/A"
)

// HistoryEntry is one row of the service's recent analyses
type HistoryEntry struct {
	ID           int       `json:"id"`
	ProductName  string    `json:"productName"`
	ProductImage string    `json:"productImage,omitempty"`
	Platform     string    `json:"platform,omitempty"`
	TotalReviews int       `json:"totalReviews"`
	CreatedAt    string    `json:"createdAt"`
	Sentiment    Sentiment `json:"sentiment"`
}
