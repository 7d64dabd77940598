package appointment

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/auth"
	"github.com/acfortier/garage-backoffice/internal/storage"
)

var (
	// ErrOpenAppointmentExists blocks a second booking while one is still
	// pending or accepted.
	ErrOpenAppointmentExists = internal.NewConflictError(
		"an open appointment already exists for this user", internal.ErrCodePendingExists, "user_id")

	// ErrNotDirection rejects a booking addressed to anyone outside the
	// direction.
	ErrNotDirection = internal.NewValidationError(
		"appointments can only be addressed to a direction member", internal.ErrCodeValidationFailed)

	ErrInvalidTransition = internal.NewValidationError(
		"invalid appointment status transition", internal.ErrCodeInvalidStatus)
)

type Service struct {
	store  *storage.Store
	logger *slog.Logger
}

func NewService(store *storage.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Book files an appointment request for the acting user. One open request
// (pending or accepted) per user, and the target must hold the direction
// grade.
func (s *Service) Book(ctx context.Context, actor auth.Actor, dto BookAppointmentDTO) (Appointment, error) {
	if actor.UserID == "" {
		return Appointment{}, internal.NewUnauthorizedError("login required", internal.ErrCodeInvalidToken)
	}
	if err := dto.Validate(); err != nil {
		return Appointment{}, err
	}

	requester, ok := s.store.UserByID(actor.UserID)
	if !ok {
		return Appointment{}, internal.ErrUserNotFound
	}

	target, ok := s.store.UserByID(dto.DirectionUserID)
	if !ok {
		return Appointment{}, internal.ErrUserNotFound
	}
	if target.Grade != auth.GradeDirection {
		return Appointment{}, ErrNotDirection
	}

	for _, row := range s.store.Appointments() {
		if row.UserID == nil || *row.UserID != actor.UserID {
			continue
		}
		if row.Status == StatusPending || row.Status == StatusAccepted {
			return Appointment{}, ErrOpenAppointmentExists
		}
	}

	userID := requester.ID
	directionID := target.ID
	a := Appointment{
		ID:              uuid.NewString(),
		UserID:          &userID,
		IDPersonnel:     requester.IDPersonnel,
		Nom:             requester.Nom,
		Prenom:          requester.Prenom,
		Telephone:       requester.Telephone,
		DirectionUserID: &directionID,
		DateTime:        dto.DateTime,
		Reason:          dto.Reason,
		Status:          StatusPending,
		CreatedAt:       time.Now(),
	}

	if err := s.store.CreateAppointment(ctx, ToRow(a)); err != nil {
		return Appointment{}, err
	}

	s.logger.Info("appointment booked", "appointment_id", a.ID, "user_id", requester.ID, "direction_user_id", directionID)
	return a, nil
}

// List returns the appointments the actor may see. Direction and dev see
// everything; rh only the ones addressed to them.
func (s *Service) List(actor auth.Actor) ([]Appointment, error) {
	if !auth.CanAccessDashboard(actor) {
		return nil, internal.ErrProtected
	}

	visible := make([]Appointment, 0)
	for _, row := range s.store.Appointments() {
		if auth.CanSeeAppointment(actor, row) {
			visible = append(visible, FromRow(row))
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].DateTime.Before(visible[j].DateTime)
	})
	return visible, nil
}

// Mine returns the acting user's own appointment history.
func (s *Service) Mine(actor auth.Actor) ([]Appointment, error) {
	if actor.UserID == "" {
		return nil, internal.NewUnauthorizedError("login required", internal.ErrCodeInvalidToken)
	}

	mine := make([]Appointment, 0)
	for _, row := range s.store.Appointments() {
		if row.UserID != nil && *row.UserID == actor.UserID {
			mine = append(mine, FromRow(row))
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})
	return mine, nil
}

// Respond moves an appointment along its lifecycle and stamps who answered.
func (s *Service) Respond(ctx context.Context, actor auth.Actor, id, status string) (Appointment, error) {
	row, ok := s.store.AppointmentByID(id)
	if !ok {
		return Appointment{}, internal.ErrAppointmentNotFound
	}
	if !auth.CanRespondAppointment(actor, row) {
		return Appointment{}, internal.ErrProtected
	}
	if !CanTransition(row.Status, status) {
		return Appointment{}, ErrInvalidTransition
	}

	now := time.Now()
	responder := actor.UserID
	row.Status = status
	row.RespondedBy = &responder
	row.RespondedAt = &now

	if err := s.store.UpdateAppointment(ctx, row); err != nil {
		return Appointment{}, err
	}

	s.logger.Info("appointment responded", "appointment_id", id, "status", status, "by", actor.UserID)
	return FromRow(row), nil
}

// Cancel lets the requester withdraw their own open appointment.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id string) (Appointment, error) {
	row, ok := s.store.AppointmentByID(id)
	if !ok {
		return Appointment{}, internal.ErrAppointmentNotFound
	}
	if row.UserID == nil || *row.UserID != actor.UserID {
		return Appointment{}, internal.ErrProtected
	}
	if !CanTransition(row.Status, StatusCancelled) {
		return Appointment{}, ErrInvalidTransition
	}

	row.Status = StatusCancelled

	if err := s.store.UpdateAppointment(ctx, row); err != nil {
		return Appointment{}, err
	}

	s.logger.Info("appointment cancelled", "appointment_id", id, "user_id", actor.UserID)
	return FromRow(row), nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	row, ok := s.store.AppointmentByID(id)
	if !ok {
		return internal.ErrAppointmentNotFound
	}
	if !auth.CanRespondAppointment(actor, row) {
		return internal.ErrProtected
	}

	if err := s.store.DeleteAppointment(ctx, id); err != nil {
		return err
	}

	s.logger.Info("appointment deleted", "appointment_id", id, "by", actor.UserID)
	return nil
}
