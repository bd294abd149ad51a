package community

import (
	"log/slog"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
)

type Service struct {
	repo     RepositoryAPI
	resolver *accesscontrol.Resolver
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, resolver *accesscontrol.Resolver, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}
}

// ListVisible returns the communities the acting principal may see. Bypass
// roles see everything; RBAC-subject roles see their exact community set.
func (s *Service) ListVisible(role accesscontrol.Role, cfg accesscontrol.Config) ([]*Community, error) {
	all, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to load communities", "error", err)
		return nil, err
	}

	visible := make([]*Community, 0, len(all))
	for _, c := range all {
		if s.resolver.CanViewCommunity(role, cfg, c.ID) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Get returns one community, enforcing visibility for the acting principal.
func (s *Service) Get(role accesscontrol.Role, cfg accesscontrol.Config, id string) (*Community, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, internal.ErrCommunityNotFound
	}
	if !s.resolver.CanViewCommunity(role, cfg, c.ID) {
		return nil, internal.ErrAccessRestricted
	}
	return c, nil
}

// CountCommunities satisfies accesscontrol.CommunityCounter for summaries.
func (s *Service) CountCommunities() (int, error) {
	n, err := s.repo.Count()
	return int(n), err
}
