package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeReportCreated   = "report.created"
	EventTypeReportUpdated   = "report.updated"
	EventTypeReportDeleted   = "report.deleted"
	EventTypeAccessRequested = "access.requested"
)

type ReportEvent struct {
	BaseEvent
	ReportID   string `json:"report_id"`
	ReportName string `json:"report_name"`
	ActorID    string `json:"actor_id"`
}

func newReportEvent(eventType, reportID, reportName, actorID string) *ReportEvent {
	return &ReportEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"report_id":   reportID,
				"report_name": reportName,
				"actor_id":    actorID,
			},
		},
		ReportID:   reportID,
		ReportName: reportName,
		ActorID:    actorID,
	}
}

func NewReportCreatedEvent(reportID, reportName, actorID string) *ReportEvent {
	return newReportEvent(EventTypeReportCreated, reportID, reportName, actorID)
}

func NewReportUpdatedEvent(reportID, reportName, actorID string) *ReportEvent {
	return newReportEvent(EventTypeReportUpdated, reportID, reportName, actorID)
}

func NewReportDeletedEvent(reportID, reportName, actorID string) *ReportEvent {
	return newReportEvent(EventTypeReportDeleted, reportID, reportName, actorID)
}

// AccessRequestedEvent records that a restricted-access placeholder's
// request action was composed, for the audit trail.
type AccessRequestedEvent struct {
	BaseEvent
	ResourceKind string `json:"resource_kind"`
	ResourceID   string `json:"resource_id"`
	ActorID      string `json:"actor_id"`
}

func NewAccessRequestedEvent(resourceKind, resourceID, actorID string) *AccessRequestedEvent {
	return &AccessRequestedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccessRequested,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"resource_kind": resourceKind,
				"resource_id":   resourceID,
				"actor_id":      actorID,
			},
		},
		ResourceKind: resourceKind,
		ResourceID:   resourceID,
		ActorID:      actorID,
	}
}
