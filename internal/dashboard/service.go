// Package dashboard aggregates the pending-work counters shown in the
// back-office header.
package dashboard

import (
	"log/slog"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/auth"
	"github.com/acfortier/garage-backoffice/internal/storage"
)

const statusPending = "pending"

// Notifications carries per-concern pending counts plus their sum.
type Notifications struct {
	Applications int `json:"applications"`
	Reviews      int `json:"reviews"`
	Appointments int `json:"appointments"`
	Total        int `json:"total"`
}

type Service struct {
	store  *storage.Store
	logger *slog.Logger
}

func NewService(store *storage.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Notifications computes the actor's pending counters. Direction and dev see
// everything; rh only counts appointments addressed to them; the employee
// gate sees the dashboard but carries no identity, so every counter is zero.
func (s *Service) Notifications(actor auth.Actor) (Notifications, error) {
	if !auth.CanAccessDashboard(actor) {
		return Notifications{}, internal.ErrProtected
	}

	var n Notifications

	switch actor.Grade {
	case auth.GradeDirection, auth.GradeDev:
		for _, row := range s.store.Applications() {
			if row.Status == statusPending {
				n.Applications++
			}
		}
		for _, row := range s.store.Reviews() {
			if row.Status == statusPending {
				n.Reviews++
			}
		}
		for _, row := range s.store.Appointments() {
			if row.Status == statusPending {
				n.Appointments++
			}
		}
	case auth.GradeRH:
		for _, row := range s.store.Appointments() {
			if row.Status != statusPending {
				continue
			}
			if row.DirectionUserID != nil && *row.DirectionUserID == actor.UserID {
				n.Appointments++
			}
		}
	}

	n.Total = n.Applications + n.Reviews + n.Appointments
	return n, nil
}
