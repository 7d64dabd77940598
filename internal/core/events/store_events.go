package events

import (
	"time"

	"github.com/google/uuid"
)

// Collection-changed events published by the store after a mutation has been
// applied to the in-memory state. Subscribers (notifier, caches) only learn
// which collection moved and why; they re-read through the store's read API.
const (
	EventUsersChanged        = "garage.users.changed"
	EventSessionsChanged     = "garage.recruitment_sessions.changed"
	EventApplicationsChanged = "garage.applications.changed"
	EventTeamChanged         = "garage.team_members.changed"
	EventReviewsChanged      = "garage.client_reviews.changed"
	EventAppointmentsChanged = "garage.appointments.changed"
	EventPartnersChanged     = "garage.partners.changed"
	EventRecruitmentToggled  = "garage.recruitment.toggled"
)

func NewCollectionChanged(eventType, action, entityID string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"action":    action,
			"entity_id": entityID,
		},
	}
}

func NewRecruitmentToggled(open bool) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventRecruitmentToggled,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"open": open,
		},
	}
}
