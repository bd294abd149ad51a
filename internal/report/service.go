package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/core/events"
)

// RepositoryAPI is the persistence surface for the report store. Get returns
// (nil, nil) for unknown ids; the service decides whether that is a NotFound
// or a harmless no-op.
type RepositoryAPI interface {
	List(isTemplate bool) ([]*Report, error)
	Get(id string) (*Report, error)
	Create(report *Report) error
	// UpdateWithRevision writes the report only if the stored revision still
	// equals expectedRevision, reporting whether a row was written.
	UpdateWithRevision(report *Report, expectedRevision int64) (bool, error)
	Delete(id string) error
}

// EventPublisher is the slice of the event bus the store needs.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service is the report/template store. Template protection lives here, at
// the store boundary, not in whatever UI sits above it.
type Service struct {
	repo   RepositoryAPI
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// Create starts a new private, empty, non-template report owned by the actor.
func (s *Service) Create(ctx context.Context, actorID string, dto CreateDTO) (*Report, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rpt := &Report{
		ID:           uuid.NewString(),
		Name:         dto.Name,
		Description:  dto.Description,
		CreatedBy:    actorID,
		LastModified: time.Now(),
		IsTemplate:   false,
		Permissions:  Permissions{IsPublic: false},
		Layout:       Layout{Components: []Component{}},
		Revision:     1,
	}

	if err := s.repo.Create(rpt); err != nil {
		s.logger.Error("failed to create report", "name", dto.Name, "error", err)
		return nil, err
	}

	s.publish(ctx, events.NewReportCreatedEvent(rpt.ID, rpt.Name, actorID))
	s.logger.Info("report created", "report_id", rpt.ID, "actor_id", actorID)
	return rpt, nil
}

// CreateFromTemplate copies a template's layout into a new report owned by
// the actor. The template itself is never touched.
func (s *Service) CreateFromTemplate(ctx context.Context, actorID string, dto CreateFromTemplateDTO) (*Report, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	tpl, err := s.repo.Get(dto.TemplateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil || !tpl.IsTemplate {
		return nil, internal.ErrReportNotFound
	}

	rpt := &Report{
		ID:           uuid.NewString(),
		Name:         dto.Name,
		Description:  tpl.Description,
		CreatedBy:    actorID,
		LastModified: time.Now(),
		IsTemplate:   false,
		Permissions:  Permissions{IsPublic: false},
		Layout:       cloneLayout(tpl.Layout),
		Revision:     1,
	}

	if err := s.repo.Create(rpt); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewReportCreatedEvent(rpt.ID, rpt.Name, actorID))
	return rpt, nil
}

// Get surfaces unknown ids as a typed NotFound.
func (s *Service) Get(id string) (*Report, error) {
	rpt, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if rpt == nil {
		return nil, internal.ErrReportNotFound
	}
	return rpt, nil
}

// List returns saved reports or templates, optionally filtered by the
// case-insensitive name-or-description search. All records are visible to
// all users; ownership and the public flag are stored, not enforced.
func (s *Service) List(isTemplate bool, searchTerm string) ([]*Report, error) {
	all, err := s.repo.List(isTemplate)
	if err != nil {
		return nil, err
	}

	if searchTerm == "" {
		return all, nil
	}

	filtered := make([]*Report, 0, len(all))
	for _, rpt := range all {
		if rpt.MatchesSearch(searchTerm) {
			filtered = append(filtered, rpt)
		}
	}
	return filtered, nil
}

// Update applies an edit under optimistic concurrency. Templates are
// immutable from here; a non-owner edit is logged but not blocked.
func (s *Service) Update(ctx context.Context, actorID, id string, dto UpdateDTO) (*Report, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rpt, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if rpt == nil {
		return nil, internal.ErrReportNotFound
	}
	if rpt.IsTemplate {
		return nil, internal.ErrTemplateProtected
	}
	if rpt.Revision != dto.Revision {
		return nil, internal.ErrReportConflict
	}
	if rpt.CreatedBy != actorID {
		s.logger.Warn("report edited by non-owner",
			"report_id", id, "owner_id", rpt.CreatedBy, "actor_id", actorID)
	}

	expected := rpt.Revision
	rpt.Name = dto.Name
	rpt.Description = dto.Description
	if dto.IsPublic != nil {
		rpt.Permissions.IsPublic = *dto.IsPublic
	}
	if dto.Layout != nil {
		rpt.Layout = *dto.Layout
	}
	rpt.Revision++
	rpt.LastModified = time.Now()

	written, err := s.repo.UpdateWithRevision(rpt, expected)
	if err != nil {
		return nil, err
	}
	if !written {
		return nil, internal.ErrReportConflict
	}

	s.publish(ctx, events.NewReportUpdatedEvent(rpt.ID, rpt.Name, actorID))
	return rpt, nil
}

// Delete removes a report. An unknown id is a harmless no-op; a template id
// is rejected here, at the store boundary, and is never reported as a
// successful mutation.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	rpt, err := s.repo.Get(id)
	if err != nil {
		return err
	}
	if rpt == nil {
		s.logger.Debug("delete of unknown report ignored", "report_id", id)
		return nil
	}
	if rpt.IsTemplate {
		s.logger.Warn("delete of template rejected", "report_id", id, "actor_id", actorID)
		return internal.ErrTemplateProtected
	}
	if rpt.CreatedBy != actorID {
		s.logger.Warn("report deleted by non-owner",
			"report_id", id, "owner_id", rpt.CreatedBy, "actor_id", actorID)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.publish(ctx, events.NewReportDeletedEvent(rpt.ID, rpt.Name, actorID))
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish report event", "event_type", event.EventType(), "error", err)
	}
}

func cloneLayout(l Layout) Layout {
	out := Layout{Components: make([]Component, len(l.Components))}
	for i, c := range l.Components {
		cfg := make(map[string]any, len(c.Config))
		for k, v := range c.Config {
			cfg[k] = v
		}
		out.Components[i] = Component{ID: c.ID, Type: c.Type, Config: cfg}
	}
	return out
}
