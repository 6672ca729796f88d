package domain

import "time"

// PropertyFacts is the read-only subset of a property's attributes used to
// build a generation prompt. Zero values mean "unknown".
type PropertyFacts struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Price    float64 `json:"price"`
	Area     float64 `json:"area"`
	Category string  `json:"category"`
}

// GeneratedContent is the marketing copy produced for one property.
// The four text fields are HTML fragments and are always persisted together.
type GeneratedContent struct {
	KeyHighlights  string    `json:"key_highlights"`
	InvestmentData string    `json:"investment_data"`
	NearbyPlaces   string    `json:"nearby_places"`
	UniqueFeatures string    `json:"unique_features"`
	GeneratedAt    time.Time `json:"generated_at"`

	// Degraded is set when the model answered but not in the requested
	// shape; the raw answer is then kept in KeyHighlights.
	Degraded bool `json:"degraded"`
}

// IsEmpty reports whether none of the four text fields carry content.
func (c *GeneratedContent) IsEmpty() bool {
	return c.KeyHighlights == "" && c.InvestmentData == "" &&
		c.NearbyPlaces == "" && c.UniqueFeatures == ""
}
