package accesscontrol

import "github.com/frahmantamala/community-ops/internal/catalog"

// Template is a named, reusable access blueprint used to seed new investor
// configurations. Templates never carry community lists; those are always
// assigned per user. The catalog is immutable.
type Template struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Categories  CategoryFlags   `json:"dataCategories"`
	Metrics     MetricOverrides `json:"metricAccess,omitempty"`
}

var templates = []Template{
	{
		ID:          "reit-financial",
		Name:        "REIT Investor - Financial Focus",
		Description: "Occupancy and financial performance only; no staffing or clinical visibility.",
		Categories: CategoryFlags{
			OccupancyMoveIns: true,
			Financials:       true,
		},
	},
	{
		ID:          "reit-full-portfolio",
		Name:        "REIT Investor - Full Portfolio",
		Description: "All categories except care outcomes and compliance detail.",
		Categories: CategoryFlags{
			OccupancyMoveIns: true,
			Financials:       true,
			SalesFunnel:      true,
			Staffing:         true,
		},
		Metrics: MetricOverrides{
			// Agency spend is considered operator-internal even on the
			// full-portfolio preset.
			"agency_hours": false,
		},
	},
	{
		ID:          "reit-occupancy-only",
		Name:        "REIT Investor - Occupancy Only",
		Description: "Census and move-in activity without financial detail.",
		Categories: CategoryFlags{
			OccupancyMoveIns: true,
		},
	},
}

// Templates returns the template catalog in display order. Callers receive a
// copy so the catalog stays immutable.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TemplateByID looks up a template preset.
func TemplateByID(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Apply builds a user config from the template plus the per-user community
// assignment. Metric overrides are copied so user configs never alias the
// catalog's maps.
func (t Template) Apply(communities []string) Config {
	metrics := make(MetricOverrides, len(t.Metrics))
	for k, v := range t.Metrics {
		metrics[k] = v
	}
	return Config{
		Communities: append([]string(nil), communities...),
		Categories:  t.Categories,
		Metrics:     metrics,
	}
}

// TotalCategories is the category count used in access summaries.
var TotalCategories = len(catalog.CategoryKeys)
