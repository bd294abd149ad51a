package dashboard

import (
	"log/slog"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/catalog"
	"github.com/frahmantamala/community-ops/internal/visibility"
)

// SummaryProvider recomputes the access summary for the header strip.
type SummaryProvider interface {
	Summarize(role accesscontrol.Role, cfg accesscontrol.Config) (accesscontrol.Summary, error)
}

type Service struct {
	repo   RepositoryAPI
	gate   *visibility.Gate
	access SummaryProvider
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, gate *visibility.Gate, access SummaryProvider, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		gate:   gate,
		access: access,
		logger: logger,
	}
}

// Build assembles the dashboard for one community. The community gate is
// evaluated first: a denied community returns the standalone placeholder
// alone, with no metric data attached. Individual denied metrics become
// per-card placeholders honoring the caller-supplied render mode.
func (s *Service) Build(p *internal.Principal, communityID string, mode visibility.RenderMode) (*Response, *visibility.Placeholder, error) {
	summary, err := s.access.Summarize(p.Role, p.Config)
	if err != nil {
		return nil, nil, err
	}

	communityRef := visibility.ResourceRef{Kind: visibility.KindCommunity, ID: communityID}
	if decision := s.gate.Evaluate(p.Role, p.Config, communityRef, visibility.ModeStandalone); !decision.Allowed {
		return nil, decision.Placeholder, nil
	}

	snapshots, err := s.repo.GetByCommunity(communityID)
	if err != nil {
		s.logger.Error("failed to load metric snapshots", "community_id", communityID, "error", err)
		return nil, nil, err
	}

	resp := &Response{
		CommunityID: communityID,
		Summary:     summary,
		Cards:       make([]Card, 0, len(snapshots)),
	}

	for _, snap := range snapshots {
		categoryKey, known := catalog.CategoryForMetric(snap.MetricID)
		card := Card{
			MetricID: snap.MetricID,
			Label:    catalog.MetricLabel(snap.MetricID),
			Category: string(categoryKey),
		}

		ref := visibility.ResourceRef{
			Kind:        visibility.KindMetric,
			ID:          snap.MetricID,
			DisplayName: card.Label,
		}
		decision := s.gate.Evaluate(p.Role, p.Config, ref, mode)
		if !known {
			// Snapshot for a metric the catalog no longer declares: the
			// resolver already denies it, keep the card as a placeholder so
			// the gap is visible instead of silently dropped.
			s.logger.Warn("metric snapshot not in catalog", "metric_id", snap.MetricID)
		}

		if decision.Allowed {
			value := snap.Value
			asOf := snap.AsOf
			card.Value = &value
			card.Unit = snap.Unit
			card.AsOf = &asOf
		} else {
			card.Placeholder = decision.Placeholder
		}

		resp.Cards = append(resp.Cards, card)
	}

	return resp, nil, nil
}
