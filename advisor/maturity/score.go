// Package maturity computes the weighted digital-maturity score of a company
// profile and derives IT-solution recommendations from it.
package maturity

import (
	"fmt"
	"math"
	"strings"

	contractx "github.com/digitaldept/business-advisor/advisor/contract"
)

type attributeWeight struct {
	Name   string
	Weight int
}

// attributeWeights fixes both the set of scored attributes and their
// iteration order. Attributes covering core automation carry double weight.
var attributeWeights = []attributeWeight{
	{"formalization_level", 1},
	{"automation_systems", 2},
	{"kpi_metrics", 1},
	{"data_driven_decisions", 1},
	{"it_systems_used", 2},
	{"systems_integration", 1},
	{"cloud_services_usage", 1},
	{"info_security_measures", 1},
	{"digital_literacy", 1},
	{"training_programs", 1},
	{"it_specialists_in_house", 1},
	{"employees_automation_perception", 1},
	{"it_strategy", 1},
	{"state_electronic_services", 1},
	{"future_implementation_plans", 1},
}

// significance maps a rating to its contribution in [0,1]. "unknown" is
// deliberately absent: an explicit unknown contributes nothing and its weight
// is excluded from the denominator, same as an unrecognized value.
var significance = map[string]float64{
	contractx.RatingYes:       1,
	contractx.RatingMostlyYes: 0.8,
	contractx.RatingMostlyNo:  0.2,
	contractx.RatingNo:        0,
}

// AttributeNames returns the scored attribute names in their fixed order.
func AttributeNames() []string {
	names := make([]string, 0, len(attributeWeights))
	for _, aw := range attributeWeights {
		names = append(names, aw.Name)
	}
	return names
}

// TotalWeight is the theoretical maximum score denominator.
func TotalWeight() int {
	total := 0
	for _, aw := range attributeWeights {
		total += aw.Weight
	}
	return total
}

// ComputeMaturity calculates the weighted maturity percentage for a profile.
//
// Absent attributes short-circuit the computation: the result carries
// Percentage 0.0 and the full list of missing attributes, and the caller is
// expected to ask for the gaps instead of reporting a degraded score. Present
// attributes whose value is not in the rating vocabulary (including explicit
// "unknown") are excluded from both numerator and denominator.
func ComputeMaturity(profile contractx.CompanyProfile) (contractx.MaturityResult, error) {
	var (
		weightedPoints float64
		usedWeight     int
		missing        []string
		unknown        []string
	)

	for _, aw := range attributeWeights {
		raw, ok := profile[aw.Name]
		if !ok || raw == nil {
			missing = append(missing, aw.Name)
			continue
		}

		value, ok := raw.(string)
		if !ok {
			return contractx.MaturityResult{}, fmt.Errorf(
				"%w: attribute %q has type %T", contractx.ErrInvalidAttributeType, aw.Name, raw)
		}

		sig, ok := significance[strings.ToLower(strings.TrimSpace(value))]
		if !ok {
			unknown = append(unknown, aw.Name)
			continue
		}

		usedWeight += aw.Weight
		weightedPoints += sig * float64(aw.Weight)
	}

	if len(missing) > 0 {
		return contractx.MaturityResult{
			MissingAttributes: missing,
			UnknownAttributes: unknown,
		}, nil
	}

	if usedWeight == 0 {
		return contractx.MaturityResult{}, fmt.Errorf(
			"%w: every attribute is unknown or unrecognized", contractx.ErrInsufficientData)
	}

	percentage := round2(100 * weightedPoints / float64(usedWeight))
	return contractx.MaturityResult{
		Percentage:        percentage,
		UnknownAttributes: unknown,
	}, nil
}

// Band maps a percentage to its display band. Boundaries are inclusive on the
// lower band: <=40 low, <=70 medium, >70 high.
func Band(percentage float64) string {
	switch {
	case percentage <= 40:
		return "low"
	case percentage <= 70:
		return "medium"
	default:
		return "high"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
