package storage

import (
	"context"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
	"github.com/acfortier/garage-backoffice/internal/core/events"
)

func (s *Store) Sessions() []datamodel.RecruitmentSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions
}

func (s *Store) SessionByID(id string) (datamodel.RecruitmentSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.sessions {
		if row.ID == id {
			return row, true
		}
	}
	return datamodel.RecruitmentSession{}, false
}

func (s *Store) CreateSession(ctx context.Context, row datamodel.RecruitmentSession) error {
	s.mu.Lock()
	next := make([]datamodel.RecruitmentSession, 0, len(s.sessions)+1)
	next = append(next, s.sessions...)
	next = append(next, row)
	s.sessions = next
	s.mu.Unlock()

	err := s.persist(ctx, keySessions, s.snapshotSessions, func(ctx context.Context) error {
		return s.remote.CreateSession(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventSessionsChanged, "create", row.ID)
	return nil
}

func (s *Store) UpdateSession(ctx context.Context, row datamodel.RecruitmentSession) error {
	s.mu.Lock()
	replaced := false
	next := make([]datamodel.RecruitmentSession, 0, len(s.sessions))
	for _, existing := range s.sessions {
		if existing.ID == row.ID {
			next = append(next, row)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if replaced {
		s.sessions = next
	}
	s.mu.Unlock()
	if !replaced {
		return internal.ErrSessionNotFound
	}

	err := s.persist(ctx, keySessions, s.snapshotSessions, func(ctx context.Context) error {
		return s.remote.UpdateSession(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventSessionsChanged, "update", row.ID)
	return nil
}

// DeleteSession does not cascade: applications keep their session_id.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, ok := s.SessionByID(id); !ok {
		return internal.ErrSessionNotFound
	}

	if s.remote != nil {
		if err := s.remote.DeleteSession(ctx, id); err != nil {
			s.logger.Error("remote delete failed for session", "session_id", id, "error", err)
			return internal.NewInternalError("remote delete failed", err)
		}
	}

	s.mu.Lock()
	next := make([]datamodel.RecruitmentSession, 0, len(s.sessions))
	for _, row := range s.sessions {
		if row.ID != id {
			next = append(next, row)
		}
	}
	s.sessions = next
	s.mu.Unlock()

	if err := s.persistDelete(keySessions, s.snapshotSessions); err != nil {
		return err
	}

	s.notify(ctx, events.EventSessionsChanged, "delete", id)
	return nil
}

func (s *Store) snapshotSessions() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return marshalCollection(s.sessions)
}

func (s *Store) Applications() []datamodel.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applications
}

func (s *Store) ApplicationByID(id string) (datamodel.Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.applications {
		if row.ID == id {
			return row, true
		}
	}
	return datamodel.Application{}, false
}

func (s *Store) CreateApplication(ctx context.Context, row datamodel.Application) error {
	s.mu.Lock()
	next := make([]datamodel.Application, 0, len(s.applications)+1)
	next = append(next, s.applications...)
	next = append(next, row)
	s.applications = next
	s.mu.Unlock()

	err := s.persist(ctx, keyApplications, s.snapshotApplications, func(ctx context.Context) error {
		return s.remote.CreateApplication(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventApplicationsChanged, "create", row.ID)
	return nil
}

func (s *Store) UpdateApplication(ctx context.Context, row datamodel.Application) error {
	s.mu.Lock()
	replaced := false
	next := make([]datamodel.Application, 0, len(s.applications))
	for _, existing := range s.applications {
		if existing.ID == row.ID {
			next = append(next, row)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if replaced {
		s.applications = next
	}
	s.mu.Unlock()
	if !replaced {
		return internal.ErrApplicationNotFound
	}

	err := s.persist(ctx, keyApplications, s.snapshotApplications, func(ctx context.Context) error {
		return s.remote.UpdateApplication(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventApplicationsChanged, "update", row.ID)
	return nil
}

func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	if _, ok := s.ApplicationByID(id); !ok {
		return internal.ErrApplicationNotFound
	}

	if s.remote != nil {
		if err := s.remote.DeleteApplication(ctx, id); err != nil {
			s.logger.Error("remote delete failed for application", "application_id", id, "error", err)
			return internal.NewInternalError("remote delete failed", err)
		}
	}

	s.mu.Lock()
	next := make([]datamodel.Application, 0, len(s.applications))
	for _, row := range s.applications {
		if row.ID != id {
			next = append(next, row)
		}
	}
	s.applications = next
	s.mu.Unlock()

	if err := s.persistDelete(keyApplications, s.snapshotApplications); err != nil {
		return err
	}

	s.notify(ctx, events.EventApplicationsChanged, "delete", id)
	return nil
}

func (s *Store) snapshotApplications() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return marshalCollection(s.applications)
}
