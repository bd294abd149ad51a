package accesscontrol

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/community-ops/internal/catalog"
)

// CommunityCounter supplies the total community count for summaries. The
// community package owns the reference data; this interface keeps the
// dependency pointing outward.
type CommunityCounter interface {
	CountCommunities() (int, error)
}

type Service struct {
	resolver    *Resolver
	communities CommunityCounter
	logger      *slog.Logger
}

func NewService(resolver *Resolver, communities CommunityCounter, logger *slog.Logger) *Service {
	return &Service{
		resolver:    resolver,
		communities: communities,
		logger:      logger,
	}
}

func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Summarize recomputes the access summary for the acting principal.
func (s *Service) Summarize(role Role, cfg Config) (Summary, error) {
	total, err := s.communities.CountCommunities()
	if err != nil {
		s.logger.Error("failed to count communities for access summary", "error", err)
		return Summary{}, err
	}
	return s.resolver.Summarize(role, cfg, total), nil
}

// Check answers a single allow/deny question for one resource. resourceType
// is one of community, category, metric.
func (s *Service) Check(role Role, cfg Config, resourceType, resourceID string) (CheckResponse, error) {
	resp := CheckResponse{ResourceType: resourceType, ResourceID: resourceID}

	switch resourceType {
	case "community":
		resp.Allowed = s.resolver.CanViewCommunity(role, cfg, resourceID)
	case "category":
		resp.Allowed = s.resolver.CanViewCategory(role, cfg, catalog.CategoryKey(resourceID))
	case "metric":
		resp.Allowed = s.resolver.CanViewMetric(role, cfg, resourceID)
	default:
		return CheckResponse{}, fmt.Errorf("unknown resource type %q", resourceType)
	}

	return resp, nil
}

// ListTemplates returns the immutable preset catalog.
func (s *Service) ListTemplates() []Template {
	return Templates()
}
