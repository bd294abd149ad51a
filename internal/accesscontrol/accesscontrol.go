package accesscontrol

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/community-ops/internal/catalog"
)

// Role is the closed set of dashboard personas. Every role except the REIT
// investor bypasses RBAC entirely; that is a business rule, not an oversight.
type Role string

const (
	RoleExecutive    Role = "executive"
	RoleOperator     Role = "operator"
	RoleSales        Role = "sales"
	RoleClinical     Role = "clinical"
	RoleAdmin        Role = "admin"
	RoleREITInvestor Role = "reit-investor"
)

var knownRoles = map[Role]struct{}{
	RoleExecutive:    {},
	RoleOperator:     {},
	RoleSales:        {},
	RoleClinical:     {},
	RoleAdmin:        {},
	RoleREITInvestor: {},
}

func (r Role) IsValid() bool {
	_, ok := knownRoles[r]
	return ok
}

// BypassesRBAC reports whether access checks are skipped for this role.
func (r Role) BypassesRBAC() bool {
	return r != RoleREITInvestor
}

// CategoryFlags is the per-category visibility record. It is a fixed-shape
// struct rather than a map so a new category cannot be silently omitted.
type CategoryFlags struct {
	OccupancyMoveIns bool `json:"occupancyMoveIns"`
	Financials       bool `json:"financials"`
	SalesFunnel      bool `json:"salesFunnel"`
	Staffing         bool `json:"staffing"`
	CareOutcomes     bool `json:"careOutcomes"`
	AlertsCompliance bool `json:"alertsCompliance"`
}

// Flag returns the flag for a category key. Unknown keys report false, which
// callers treat as deny.
func (f CategoryFlags) Flag(key catalog.CategoryKey) (bool, bool) {
	switch key {
	case catalog.CategoryOccupancyMoveIns:
		return f.OccupancyMoveIns, true
	case catalog.CategoryFinancials:
		return f.Financials, true
	case catalog.CategorySalesFunnel:
		return f.SalesFunnel, true
	case catalog.CategoryStaffing:
		return f.Staffing, true
	case catalog.CategoryCareOutcomes:
		return f.CareOutcomes, true
	case catalog.CategoryAlertsCompliance:
		return f.AlertsCompliance, true
	default:
		return false, false
	}
}

// EnabledCount returns how many of the six categories are enabled.
func (f CategoryFlags) EnabledCount() int {
	count := 0
	for _, key := range catalog.CategoryKeys {
		if on, _ := f.Flag(key); on {
			count++
		}
	}
	return count
}

// UnmarshalJSON enforces the closed-record contract: a serialized config that
// omits any of the six category keys is a data-integrity error and fails
// fast at load time instead of propagating into resolution.
func (f *CategoryFlags) UnmarshalJSON(data []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, key := range catalog.CategoryKeys {
		if _, ok := raw[string(key)]; !ok {
			return fmt.Errorf("access config missing mandatory category flag %q", key)
		}
	}

	type plain CategoryFlags
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*f = CategoryFlags(decoded)
	return nil
}

// MetricOverrides is the sparse metric-level table. Absence of a key is NOT
// false: it means "fall back to the owning category's flag". Entries only
// ever override category defaults.
type MetricOverrides map[string]bool

// Override returns the explicit override for a metric, with ok=false when no
// override exists and the category fallback applies.
func (m MetricOverrides) Override(metricID string) (bool, bool) {
	v, ok := m[metricID]
	return v, ok
}

// Config is the full description of what one user (or template) may see.
type Config struct {
	Communities []string        `json:"communityAccess"`
	Categories  CategoryFlags   `json:"dataCategories"`
	Metrics     MetricOverrides `json:"metricAccess,omitempty"`
}

// HasCommunity reports exact membership; no wildcard or prefix matching.
func (c Config) HasCommunity(communityID string) bool {
	for _, id := range c.Communities {
		if id == communityID {
			return true
		}
	}
	return false
}

// Validate applies the lenient-load policy: metric override keys that do not
// exist in the catalog are logged as warnings and kept, since configs may be
// authored independently of code deploys. The resolver denies them anyway.
func (c Config) Validate(logger *slog.Logger) {
	for metricID := range c.Metrics {
		if _, ok := catalog.CategoryForMetric(metricID); !ok {
			logger.Warn("access config references unknown metric",
				"metric_id", metricID)
		}
	}
}

// ParseConfig decodes a serialized access config, failing fast on missing
// category flags and warning on unknown metric overrides. The dataCategories
// record itself is mandatory; a config without one would otherwise decode to
// all-false flags and silently deny everything.
func ParseConfig(data []byte, logger *slog.Logger) (Config, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return Config{}, err
	}
	if _, ok := keys["dataCategories"]; !ok {
		return Config{}, fmt.Errorf("access config missing mandatory %q record", "dataCategories")
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Validate(logger)
	return cfg, nil
}
