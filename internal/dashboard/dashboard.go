package dashboard

import (
	"time"

	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/visibility"
)

// MetricSnapshot is one pre-computed metric value for one community. Values
// arrive from external reporting systems; this service never computes them.
type MetricSnapshot struct {
	CommunityID string    `json:"community_id"`
	MetricID    string    `json:"metric_id"`
	Value       float64   `json:"value"`
	Unit        string    `json:"unit"`
	AsOf        time.Time `json:"as_of"`
}

// RepositoryAPI loads snapshots for one community.
type RepositoryAPI interface {
	GetByCommunity(communityID string) ([]*MetricSnapshot, error)
}

// Card is one dashboard tile: either a metric value or a restricted-access
// placeholder, never both.
type Card struct {
	MetricID    string                  `json:"metric_id"`
	Label       string                  `json:"label"`
	Category    string                  `json:"category"`
	Value       *float64                `json:"value,omitempty"`
	Unit        string                  `json:"unit,omitempty"`
	AsOf        *time.Time              `json:"as_of,omitempty"`
	Placeholder *visibility.Placeholder `json:"placeholder,omitempty"`
}

// Response is the assembled dashboard for one community.
type Response struct {
	CommunityID string                `json:"community_id"`
	Summary     accesscontrol.Summary `json:"summary"`
	Cards       []Card                `json:"cards"`
}
