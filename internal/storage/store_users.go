package storage

import (
	"context"
	"errors"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
	"github.com/acfortier/garage-backoffice/internal/core/events"
)

func (s *Store) Users() []datamodel.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users
}

func (s *Store) UserByID(id string) (datamodel.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.users {
		if row.ID == id {
			return row, true
		}
	}
	return datamodel.User{}, false
}

func (s *Store) UserByIDPersonnel(idPersonnel string) (datamodel.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.users {
		if row.IDPersonnel == idPersonnel {
			return row, true
		}
	}
	return datamodel.User{}, false
}

// CreateUser enforces idPersonnel/telephone uniqueness: in-memory first,
// then against the remote store when configured, and finally by rolling
// back if a duplicate-key error still surfaces at insert time (a concurrent
// writer won the race).
func (s *Store) CreateUser(ctx context.Context, row datamodel.User) error {
	if err := s.checkUserUniqueness(ctx, row.IDPersonnel, row.Telephone, ""); err != nil {
		return err
	}

	s.mu.Lock()
	next := make([]datamodel.User, 0, len(s.users)+1)
	next = append(next, s.users...)
	next = append(next, row)
	s.users = next
	s.mu.Unlock()

	err := s.persist(ctx, keyUsers, s.snapshotUsers, func(ctx context.Context) error {
		return s.remote.CreateUser(ctx, row)
	})
	var uv *UniqueViolationError
	if errors.As(err, &uv) {
		s.removeUserFromMemory(row.ID)
		return conflictForField(uv.Field)
	}
	if err != nil {
		return err
	}

	s.notify(ctx, events.EventUsersChanged, "create", row.ID)
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, row datamodel.User) error {
	if err := s.checkUserUniqueness(ctx, row.IDPersonnel, row.Telephone, row.ID); err != nil {
		return err
	}

	prior, replaced := s.replaceUserInMemory(row)
	if !replaced {
		return internal.ErrUserNotFound
	}

	err := s.persist(ctx, keyUsers, s.snapshotUsers, func(ctx context.Context) error {
		return s.remote.UpdateUser(ctx, row)
	})
	var uv *UniqueViolationError
	if errors.As(err, &uv) {
		s.replaceUserInMemory(prior)
		return conflictForField(uv.Field)
	}
	if err != nil {
		return err
	}

	s.notify(ctx, events.EventUsersChanged, "update", row.ID)
	return nil
}

// DeleteUser is not optimistic: the remote delete must confirm before the
// in-memory collection is pruned, so a failed delete never silently
// resurrects the row on the next reload.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if _, ok := s.UserByID(id); !ok {
		return internal.ErrUserNotFound
	}

	if s.remote != nil {
		if err := s.remote.DeleteUser(ctx, id); err != nil {
			s.logger.Error("remote delete failed for user", "user_id", id, "error", err)
			return internal.NewInternalError("remote delete failed", err)
		}
	}

	s.mu.Lock()
	next := make([]datamodel.User, 0, len(s.users))
	for _, row := range s.users {
		if row.ID != id {
			next = append(next, row)
		}
	}
	s.users = next
	s.mu.Unlock()

	if err := s.persistDelete(keyUsers, s.snapshotUsers); err != nil {
		return err
	}

	s.notify(ctx, events.EventUsersChanged, "delete", id)
	return nil
}

func (s *Store) checkUserUniqueness(ctx context.Context, idPersonnel, telephone, excludeID string) error {
	s.mu.RLock()
	for _, row := range s.users {
		if row.ID == excludeID {
			continue
		}
		if row.IDPersonnel == idPersonnel {
			s.mu.RUnlock()
			return internal.ErrDuplicateIDPersonnel
		}
		if row.Telephone == telephone {
			s.mu.RUnlock()
			return internal.ErrDuplicateTelephone
		}
	}
	s.mu.RUnlock()

	if s.remote == nil {
		return nil
	}

	// Race-safe re-check against concurrent writers. Lookup errors do not
	// block the write: availability wins, the insert itself still has the
	// unique constraint as the last line of defense.
	if found, err := s.remote.FindUserByIDPersonnel(ctx, idPersonnel); err != nil {
		s.logger.Error("remote uniqueness check failed for id personnel", "error", err)
	} else if found != nil && found.ID != excludeID {
		return internal.ErrDuplicateIDPersonnel
	}

	if found, err := s.remote.FindUserByTelephone(ctx, telephone); err != nil {
		s.logger.Error("remote uniqueness check failed for telephone", "error", err)
	} else if found != nil && found.ID != excludeID {
		return internal.ErrDuplicateTelephone
	}

	return nil
}

func conflictForField(field string) *internal.AppError {
	if field == "telephone" {
		return internal.ErrDuplicateTelephone
	}
	return internal.ErrDuplicateIDPersonnel
}

func (s *Store) snapshotUsers() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return marshalCollection(s.users)
}

func (s *Store) removeUserFromMemory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]datamodel.User, 0, len(s.users))
	for _, row := range s.users {
		if row.ID != id {
			next = append(next, row)
		}
	}
	s.users = next
}

func (s *Store) replaceUserInMemory(row datamodel.User) (datamodel.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var prior datamodel.User
	replaced := false
	next := make([]datamodel.User, 0, len(s.users))
	for _, existing := range s.users {
		if existing.ID == row.ID {
			prior = existing
			next = append(next, row)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if replaced {
		s.users = next
	}
	return prior, replaced
}
