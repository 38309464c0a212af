package contract

// CompanyProfile maps survey attribute names to their ratings. Values are kept
// untyped because the profile may arrive from loosely validated sources; the
// score engine rejects non-string values explicitly.
type CompanyProfile map[string]any

// Rating vocabulary accepted by the score engine (case-insensitive).
const (
	RatingYes       = "yes"
	RatingMostlyYes = "mostly_yes"
	RatingMostlyNo  = "mostly_no"
	RatingNo        = "no"
	RatingUnknown   = "unknown"
)

// MaturityResult is the outcome of one maturity computation.
// Percentage is 0.0 whenever MissingAttributes is non-empty.
type MaturityResult struct {
	Percentage        float64  `json:"percentage"`
	MissingAttributes []string `json:"missing_attributes,omitempty"`
	UnknownAttributes []string `json:"unknown_attributes,omitempty"`
}
