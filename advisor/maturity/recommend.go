package maturity

import (
	"strings"

	contractx "github.com/digitaldept/business-advisor/advisor/contract"
)

type recommendation struct {
	Attribute string
	Problem   string
	Solutions []string
}

// recommendationTable maps weak survey attributes to the solutions that
// address them. Not every scored attribute has a mapped solution.
var recommendationTable = []recommendation{
	{"formalization_level", "Business processes are not formalized", []string{"CRM"}},
	{"automation_systems", "Core business processes are not automated", []string{"Electronic document management (EDM)"}},
	{"kpi_metrics", "KPI tracking without automated tooling", []string{"BI platform", "Big Data analytics"}},
	{"data_driven_decisions", "Decisions made without digital support", []string{"Data-driven decision support system"}},
	{"it_systems_used", "Modern IT systems are underused", []string{"Automated accounting and reporting systems"}},
	{"systems_integration", "Existing systems cannot be integrated", []string{"Application integration middleware"}},
	{"cloud_services_usage", "Cloud services are underused", []string{"Cloud services"}},
	{"info_security_measures", "Information security level is inadequate", []string{"Security policy"}},
	{"digital_literacy", "Low digital literacy among employees", []string{"Staff upskilling programs"}},
	{"training_programs", "No employee training programs", []string{"Workforce training program"}},
	{"it_specialists_in_house", "No in-house IT specialists", []string{"External consultants or a dedicated IT team"}},
	{"employees_automation_perception", "Employees are skeptical of automation", []string{"Automation awareness initiatives"}},
	{"it_strategy", "No IT adoption strategy", []string{"Company IT strategy"}},
}

// weakRatings are the ratings that trigger a recommendation.
var weakRatings = map[string]bool{
	contractx.RatingNo:       true,
	contractx.RatingMostlyNo: true,
	contractx.RatingUnknown:  true,
}

// RecommendSolutions returns the solutions mapped from every attribute whose
// rating indicates a gap. Output order follows the table order, so results
// are deterministic regardless of the profile map's iteration order.
func RecommendSolutions(profile contractx.CompanyProfile) []string {
	var solutions []string
	for _, rec := range recommendationTable {
		raw, ok := profile[rec.Attribute]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if weakRatings[strings.ToLower(strings.TrimSpace(value))] {
			solutions = append(solutions, rec.Solutions...)
		}
	}
	return solutions
}
