package accesscontrol

import (
	"log/slog"

	"github.com/frahmantamala/community-ops/internal/catalog"
)

// Resolver answers allow/deny questions for a (role, config, resource)
// triple. Every method is a pure function of its arguments: identical inputs
// always produce identical answers and nothing is cached, so a role switch in
// demo tooling takes effect on the very next call.
type Resolver struct {
	logger *slog.Logger
}

func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// CanViewCommunity allows bypass roles unconditionally, otherwise requires
// exact membership in the config's community set.
func (r *Resolver) CanViewCommunity(role Role, cfg Config, communityID string) bool {
	if role.BypassesRBAC() {
		return true
	}
	if communityID == "" {
		return false
	}
	return cfg.HasCommunity(communityID)
}

// CanViewCategory allows bypass roles, otherwise requires the category flag.
// A key outside the six known categories is a contract violation upstream and
// resolves to deny rather than a crash.
func (r *Resolver) CanViewCategory(role Role, cfg Config, key catalog.CategoryKey) bool {
	if role.BypassesRBAC() {
		return true
	}

	flag, known := cfg.Categories.Flag(key)
	if !known {
		r.logger.Warn("access check for unknown data category", "category", string(key))
		return false
	}
	return flag
}

// CanViewMetric resolves in two tiers: an explicit metric override wins,
// otherwise the owning category's flag decides. A metric id with no owning
// category has nothing to fall back to and is denied.
func (r *Resolver) CanViewMetric(role Role, cfg Config, metricID string) bool {
	if role.BypassesRBAC() {
		return true
	}

	if allowed, ok := cfg.Metrics.Override(metricID); ok {
		return allowed
	}

	category, ok := catalog.CategoryForMetric(metricID)
	if !ok {
		r.logger.Warn("access check for metric missing from catalog", "metric_id", metricID)
		return false
	}

	flag, _ := cfg.Categories.Flag(category)
	return flag
}

// Summary counts what the config grants, for the dashboard header strip. It
// recomputes from the config on every call.
type Summary struct {
	AccessibleCommunities int `json:"accessibleCommunities"`
	TotalCommunities      int `json:"totalCommunities"`
	EnabledCategories     int `json:"enabledCategories"`
	TotalCategories       int `json:"totalCategories"`
}

func (r *Resolver) Summarize(role Role, cfg Config, totalCommunities int) Summary {
	if role.BypassesRBAC() {
		return Summary{
			AccessibleCommunities: totalCommunities,
			TotalCommunities:      totalCommunities,
			EnabledCategories:     TotalCategories,
			TotalCategories:       TotalCategories,
		}
	}

	return Summary{
		AccessibleCommunities: len(cfg.Communities),
		TotalCommunities:      totalCommunities,
		EnabledCategories:     cfg.Categories.EnabledCount(),
		TotalCategories:       TotalCategories,
	}
}
