// Package catalog holds the compiled-in enumeration of dashboard data
// categories and the metrics each one owns. Access resolution falls back from
// metric-level overrides to the owning category's flag, so every metric id
// must map to exactly one category.
package catalog

// CategoryKey identifies one of the six data categories. The set is closed:
// adding a category means touching this package, the CategoryFlags struct in
// accesscontrol, and the access templates.
type CategoryKey string

const (
	CategoryOccupancyMoveIns CategoryKey = "occupancyMoveIns"
	CategoryFinancials       CategoryKey = "financials"
	CategorySalesFunnel      CategoryKey = "salesFunnel"
	CategoryStaffing         CategoryKey = "staffing"
	CategoryCareOutcomes     CategoryKey = "careOutcomes"
	CategoryAlertsCompliance CategoryKey = "alertsCompliance"
)

// Metric is one displayable metric definition.
type Metric struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Category owns an ordered list of metrics.
type Category struct {
	Key     CategoryKey `json:"key"`
	Label   string      `json:"label"`
	Metrics []Metric    `json:"metrics"`
}

// Categories is the full catalog in display order.
var Categories = []Category{
	{
		Key:   CategoryOccupancyMoveIns,
		Label: "Occupancy & Move-Ins",
		Metrics: []Metric{
			{ID: "occupancy_rate", Label: "Occupancy Rate"},
			{ID: "move_ins", Label: "Move-Ins"},
			{ID: "move_outs", Label: "Move-Outs"},
			{ID: "census_trend", Label: "Census Trend"},
			{ID: "unit_availability", Label: "Unit Availability"},
		},
	},
	{
		Key:   CategoryFinancials,
		Label: "Financials",
		Metrics: []Metric{
			{ID: "noi", Label: "Net Operating Income"},
			{ID: "operating_margin", Label: "Operating Margin"},
			{ID: "revenue_per_unit", Label: "Revenue per Occupied Unit"},
			{ID: "labor_cost_ratio", Label: "Labor Cost Ratio"},
			{ID: "ebitdar", Label: "EBITDAR"},
		},
	},
	{
		Key:   CategorySalesFunnel,
		Label: "Sales Funnel",
		Metrics: []Metric{
			{ID: "lead_volume", Label: "Lead Volume"},
			{ID: "tour_conversion", Label: "Tour Conversion"},
			{ID: "sales_velocity", Label: "Sales Velocity"},
			{ID: "pipeline_value", Label: "Pipeline Value"},
		},
	},
	{
		Key:   CategoryStaffing,
		Label: "Staffing",
		Metrics: []Metric{
			{ID: "staff_turnover", Label: "Staff Turnover"},
			{ID: "agency_hours", Label: "Agency Hours"},
			{ID: "overtime_ratio", Label: "Overtime Ratio"},
			{ID: "open_positions", Label: "Open Positions"},
		},
	},
	{
		Key:   CategoryCareOutcomes,
		Label: "Care Outcomes",
		Metrics: []Metric{
			{ID: "falls_per_1000", Label: "Falls per 1,000 Resident Days"},
			{ID: "hospital_readmissions", Label: "Hospital Readmissions"},
			{ID: "medication_errors", Label: "Medication Errors"},
			{ID: "care_plan_compliance", Label: "Care Plan Compliance"},
		},
	},
	{
		Key:   CategoryAlertsCompliance,
		Label: "Alerts & Compliance",
		Metrics: []Metric{
			{ID: "open_alerts", Label: "Open Alerts"},
			{ID: "survey_deficiencies", Label: "Survey Deficiencies"},
			{ID: "incident_reports", Label: "Incident Reports"},
			{ID: "compliance_score", Label: "Compliance Score"},
		},
	},
}

// CategoryKeys lists the six keys in catalog order.
var CategoryKeys = []CategoryKey{
	CategoryOccupancyMoveIns,
	CategoryFinancials,
	CategorySalesFunnel,
	CategoryStaffing,
	CategoryCareOutcomes,
	CategoryAlertsCompliance,
}

var metricOwner map[string]CategoryKey

var metricLabels map[string]string

func init() {
	metricOwner = make(map[string]CategoryKey)
	metricLabels = make(map[string]string)
	for _, cat := range Categories {
		for _, m := range cat.Metrics {
			metricOwner[m.ID] = cat.Key
			metricLabels[m.ID] = m.Label
		}
	}
}

// CategoryForMetric returns the category that owns the metric. The second
// return value is false for unknown metric ids, which resolve to deny.
func CategoryForMetric(metricID string) (CategoryKey, bool) {
	key, ok := metricOwner[metricID]
	return key, ok
}

// MetricLabel returns the display label for a metric id, or the id itself
// when the metric is not in the catalog.
func MetricLabel(metricID string) string {
	if label, ok := metricLabels[metricID]; ok {
		return label
	}
	return metricID
}

// IsKnownCategory reports whether key is one of the six catalog categories.
func IsKnownCategory(key CategoryKey) bool {
	_, ok := categoryByKey(key)
	return ok
}

// CategoryLabel returns the display label for a category key, or the key
// itself when unknown.
func CategoryLabel(key CategoryKey) string {
	if cat, ok := categoryByKey(key); ok {
		return cat.Label
	}
	return string(key)
}

func categoryByKey(key CategoryKey) (Category, bool) {
	for _, cat := range Categories {
		if cat.Key == key {
			return cat, true
		}
	}
	return Category{}, false
}
