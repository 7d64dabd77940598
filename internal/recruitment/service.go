package recruitment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/auth"
	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
	"github.com/acfortier/garage-backoffice/internal/storage"
)

var ErrPendingApplicationExists = internal.NewConflictError(
	"a pending application already exists for this player",
	internal.ErrCodePendingExists, "id_joueur")

var ErrInvalidTransition = internal.NewValidationError(
	"application cannot move to the requested status",
	internal.ErrCodeInvalidStatus)

type Service struct {
	store  *storage.Store
	logger *slog.Logger
}

func NewService(store *storage.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) RecruitmentOpen() bool {
	return s.store.RecruitmentOpen()
}

func (s *Service) ActiveSession() (Session, bool) {
	for _, row := range s.store.Sessions() {
		if row.IsActive {
			return SessionFromRow(row), true
		}
	}
	return Session{}, false
}

func (s *Service) Sessions(actor auth.Actor) ([]Session, error) {
	if !auth.CanManageRecruitment(actor) {
		return nil, internal.ErrProtected
	}
	return SessionsFromRows(s.store.Sessions()), nil
}

// OpenRecruitment reactivates the current season or starts an implicit one.
func (s *Service) OpenRecruitment(ctx context.Context, actor auth.Actor) error {
	if !auth.CanManageRecruitment(actor) {
		return internal.ErrProtected
	}
	if _, err := s.ensureActiveSession(ctx); err != nil {
		return err
	}
	if err := s.store.SetRecruitmentOpen(ctx, true); err != nil {
		return err
	}
	s.logger.Info("recruitment opened", "by", actor.UserID)
	return nil
}

// CloseRecruitment closes the active session and stamps its end date.
func (s *Service) CloseRecruitment(ctx context.Context, actor auth.Actor) error {
	if !auth.CanManageRecruitment(actor) {
		return internal.ErrProtected
	}
	if err := s.closeActiveSessions(ctx); err != nil {
		return err
	}
	if err := s.store.SetRecruitmentOpen(ctx, false); err != nil {
		return err
	}
	s.logger.Info("recruitment closed", "by", actor.UserID)
	return nil
}

// CreateSession opens a new named season. Any currently active session is
// closed first so at most one stays active, then recruitment opens.
func (s *Service) CreateSession(ctx context.Context, actor auth.Actor, dto CreateSessionDTO) (Session, error) {
	if !auth.CanManageRecruitment(actor) {
		return Session{}, internal.ErrProtected
	}
	if err := dto.Validate(); err != nil {
		return Session{}, err
	}

	if err := s.closeActiveSessions(ctx); err != nil {
		return Session{}, err
	}

	row := datamodel.RecruitmentSession{
		ID:        uuid.NewString(),
		Name:      dto.Name,
		StartDate: time.Now(),
		IsActive:  true,
	}
	if err := s.store.CreateSession(ctx, row); err != nil {
		return Session{}, err
	}
	if err := s.store.SetRecruitmentOpen(ctx, true); err != nil {
		return Session{}, err
	}

	s.logger.Info("recruitment session created", "session_id", row.ID, "name", row.Name, "by", actor.UserID)
	return SessionFromRow(row), nil
}

// DeleteSession removes a season without cascading to its applications.
func (s *Service) DeleteSession(ctx context.Context, actor auth.Actor, id string) error {
	if !auth.CanManageRecruitment(actor) {
		return internal.ErrProtected
	}
	return s.store.DeleteSession(ctx, id)
}

func (s *Service) Applications(actor auth.Actor) ([]Application, error) {
	if !auth.CanManageRecruitment(actor) {
		return nil, internal.ErrProtected
	}
	return ApplicationsFromRows(s.store.Applications()), nil
}

// Submit records a new application. A player may only have one pending
// application at a time; the first application of a season implicitly opens
// a session when none is active.
func (s *Service) Submit(ctx context.Context, dto SubmitApplicationDTO) (Application, error) {
	if err := dto.Validate(); err != nil {
		return Application{}, err
	}

	for _, row := range s.store.Applications() {
		if row.IDJoueur == dto.IDJoueur && row.Status == StatusPending {
			return Application{}, ErrPendingApplicationExists
		}
	}

	session, err := s.ensureActiveSession(ctx)
	if err != nil {
		return Application{}, err
	}

	row := datamodel.Application{
		ID:         uuid.NewString(),
		NomRP:      dto.NomRP,
		PrenomRP:   dto.PrenomRP,
		IDJoueur:   dto.IDJoueur,
		Motivation: dto.Motivation,
		Experience: dto.Experience,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
		SessionID:  session.ID,
	}
	if err := s.store.CreateApplication(ctx, row); err != nil {
		return Application{}, err
	}

	s.logger.Info("application submitted", "application_id", row.ID, "id_joueur", row.IDJoueur)
	return ApplicationFromRow(row), nil
}

// Advance moves an application along the state machine. Acceptance
// promotes the matching client account to employee.
func (s *Service) Advance(ctx context.Context, actor auth.Actor, id, status string) (Application, error) {
	if !auth.CanManageRecruitment(actor) {
		return Application{}, internal.ErrProtected
	}

	row, ok := s.store.ApplicationByID(id)
	if !ok {
		return Application{}, internal.ErrApplicationNotFound
	}
	if !CanAdvance(row.Status, status) {
		return Application{}, ErrInvalidTransition
	}

	row.Status = status
	if err := s.store.UpdateApplication(ctx, row); err != nil {
		return Application{}, err
	}

	if status == StatusAccepted {
		s.promoteToEmployee(ctx, row.IDJoueur)
	}

	s.logger.Info("application advanced", "application_id", id, "status", status, "by", actor.UserID)
	return ApplicationFromRow(row), nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if !auth.CanManageRecruitment(actor) {
		return internal.ErrProtected
	}
	return s.store.DeleteApplication(ctx, id)
}

// promoteToEmployee upgrades the matching account from client to employee.
// Any other grade is left alone: acceptance must not demote staff.
func (s *Service) promoteToEmployee(ctx context.Context, idJoueur string) {
	row, ok := s.store.UserByIDPersonnel(idJoueur)
	if !ok {
		return
	}
	if row.Grade != auth.GradeClient {
		return
	}
	row.Grade = auth.GradeEmployee
	if err := s.store.UpdateUser(ctx, row); err != nil {
		s.logger.Error("grade promotion failed", "user_id", row.ID, "error", err)
		return
	}
	s.logger.Info("user promoted to employee", "user_id", row.ID, "id_personnel", idJoueur)
}

func (s *Service) ensureActiveSession(ctx context.Context) (datamodel.RecruitmentSession, error) {
	for _, row := range s.store.Sessions() {
		if row.IsActive {
			return row, nil
		}
	}

	row := datamodel.RecruitmentSession{
		ID:        uuid.NewString(),
		Name:      fmt.Sprintf("Session du %s", time.Now().Format("02/01/2006")),
		StartDate: time.Now(),
		IsActive:  true,
	}
	if err := s.store.CreateSession(ctx, row); err != nil {
		return datamodel.RecruitmentSession{}, err
	}
	s.logger.Info("implicit recruitment session opened", "session_id", row.ID)
	return row, nil
}

func (s *Service) closeActiveSessions(ctx context.Context) error {
	now := time.Now()
	for _, row := range s.store.Sessions() {
		if !row.IsActive {
			continue
		}
		row.IsActive = false
		row.EndDate = &now
		if err := s.store.UpdateSession(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
