// Package storage owns every entity collection in memory and mediates
// between the remote relational store and the local fallback store. All
// mutations replace collections wholesale (copy-on-write), so snapshots
// handed out by the read API are never mutated behind a caller's back.
package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	"sync"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
	"github.com/acfortier/garage-backoffice/internal/core/events"
)

type Store struct {
	mu     sync.RWMutex
	remote Remote
	local  KV
	bus    *events.EventBus
	logger *slog.Logger

	users        []datamodel.User
	sessions     []datamodel.RecruitmentSession
	applications []datamodel.Application
	teamMembers  []datamodel.TeamMember
	reviews      []datamodel.ClientReview
	appointments []datamodel.Appointment
	partners     []datamodel.Partner

	recruitmentOpen bool
}

// NewStore builds the store; remote may be nil, which pins every operation
// to the local fallback store for the lifetime of the process.
func NewStore(remote Remote, local KV, bus *events.EventBus, logger *slog.Logger) *Store {
	return &Store{
		remote: remote,
		local:  local,
		bus:    bus,
		logger: logger,
	}
}

func (s *Store) Bus() *events.EventBus {
	return s.bus
}

func (s *Store) RemoteConfigured() bool {
	return s.remote != nil
}

// Load runs the startup protocol: the local fallback is read first so the
// store always has a last-known state, then each collection is refreshed
// from the remote store independently. A failing collection keeps its
// local state rather than aborting the whole load.
func (s *Store) Load(ctx context.Context) {
	s.loadLocal()

	if s.remote == nil {
		s.logger.Info("remote store not configured, running on local fallback only")
		return
	}

	if rows, err := s.remote.LoadUsers(ctx); err != nil {
		s.logger.Error("remote load failed for users", "error", err)
	} else {
		s.mu.Lock()
		s.users = rows
		s.mu.Unlock()
	}

	if rows, err := s.remote.LoadSessions(ctx); err != nil {
		s.logger.Error("remote load failed for recruitment sessions", "error", err)
	} else {
		s.mu.Lock()
		s.sessions = rows
		s.mu.Unlock()
	}

	if rows, err := s.remote.LoadApplications(ctx); err != nil {
		s.logger.Error("remote load failed for applications", "error", err)
	} else {
		s.mu.Lock()
		s.applications = rows
		s.mu.Unlock()
	}

	if rows, err := s.remote.LoadTeamMembers(ctx); err != nil {
		s.logger.Error("remote load failed for team members", "error", err)
	} else {
		s.mu.Lock()
		s.teamMembers = rows
		s.mu.Unlock()
	}

	if rows, err := s.remote.LoadReviews(ctx); err != nil {
		s.logger.Error("remote load failed for client reviews", "error", err)
	} else {
		s.mu.Lock()
		s.reviews = rows
		s.mu.Unlock()
	}

	if rows, err := s.remote.LoadAppointments(ctx); err != nil {
		s.logger.Error("remote load failed for appointments", "error", err)
	} else {
		s.mu.Lock()
		s.appointments = rows
		s.mu.Unlock()
	}

	if rows, err := s.remote.LoadPartners(ctx); err != nil {
		s.logger.Error("remote load failed for partners", "error", err)
	} else {
		s.mu.Lock()
		s.partners = rows
		s.mu.Unlock()
	}

	s.loadRecruitmentFlag(ctx)
}

func (s *Store) loadLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadCollection(s, keyUsers, &s.users)
	loadCollection(s, keySessions, &s.sessions)
	loadCollection(s, keyApplications, &s.applications)
	loadCollection(s, keyTeamMembers, &s.teamMembers)
	loadCollection(s, keyReviews, &s.reviews)
	loadCollection(s, keyAppointments, &s.appointments)
	loadCollection(s, keyPartners, &s.partners)

	if value, ok, err := s.local.Get(keyRecruitmentOpen); err != nil {
		s.logger.Error("local load failed for recruitment flag", "error", err)
	} else if ok {
		s.recruitmentOpen = value == "true"
	}
}

func loadCollection[T any](s *Store, key string, target *[]T) {
	value, ok, err := s.local.Get(key)
	if err != nil {
		s.logger.Error("local load failed", "key", key, "error", err)
		return
	}
	if !ok {
		return
	}
	var rows []T
	if err := json.Unmarshal([]byte(value), &rows); err != nil {
		s.logger.Error("local store holds malformed data", "key", key, "error", err)
		return
	}
	*target = rows
}

// loadRecruitmentFlag applies the asymmetric rule: the locally cached value
// wins unless the remote value is present AND differs, which avoids the UI
// flickering back to a default while the remote round-trip is in flight.
func (s *Store) loadRecruitmentFlag(ctx context.Context) {
	remoteValue, err := s.remote.LoadRecruitmentOpen(ctx)
	if err != nil {
		s.logger.Error("remote load failed for recruitment flag", "error", err)
		return
	}
	if remoteValue == nil {
		return
	}

	s.mu.Lock()
	differs := *remoteValue != s.recruitmentOpen
	if differs {
		s.recruitmentOpen = *remoteValue
	}
	s.mu.Unlock()

	if differs {
		if err := s.local.Set(keyRecruitmentOpen, boolString(*remoteValue)); err != nil {
			s.logger.Error("local write failed for recruitment flag", "error", err)
		}
	}
}

// persist is the single durable-write point. The in-memory state has
// already been updated when it runs: the remote write is attempted when
// configured, and any non-conflict failure downgrades to persisting the
// applied snapshot locally. Unique violations are returned untouched so the
// caller can roll back its optimistic update.
func (s *Store) persist(ctx context.Context, key string, snapshot func() string, remoteOp func(context.Context) error) error {
	if s.remote != nil {
		err := remoteOp(ctx)
		if err == nil {
			return nil
		}
		if _, ok := asUniqueViolationError(err); ok {
			return err
		}
		s.logger.Error("remote write failed, keeping optimistic state on local fallback",
			"key", key, "error", err)
	}

	if err := s.local.Set(key, snapshot()); err != nil {
		s.logger.Error("local fallback write failed", "key", key, "error", err)
		return internal.NewInternalError("failed to persist state", err)
	}
	return nil
}

// persistDelete rewrites the local snapshot once a delete is confirmed, so
// a later reload in degraded mode cannot resurrect the pruned row from a
// stale local cache. A failed local write is fatal only when the local
// store is the sole durability layer.
func (s *Store) persistDelete(key string, snapshot func() string) error {
	if err := s.local.Set(key, snapshot()); err != nil {
		s.logger.Error("local write failed after delete", "key", key, "error", err)
		if s.remote == nil {
			return internal.NewInternalError("failed to persist state", err)
		}
	}
	return nil
}

func asUniqueViolationError(err error) (*UniqueViolationError, bool) {
	uv, ok := err.(*UniqueViolationError)
	return uv, ok
}

func (s *Store) notify(ctx context.Context, eventType, action, entityID string) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(ctx, events.NewCollectionChanged(eventType, action, entityID))
}

func marshalCollection(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// ---- recruitment flag ----

func (s *Store) RecruitmentOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recruitmentOpen
}

// SetRecruitmentOpen updates the flag everywhere: memory first, then remote
// when configured, and always the local cache so restarts show the last
// known value immediately.
func (s *Store) SetRecruitmentOpen(ctx context.Context, open bool) error {
	s.mu.Lock()
	s.recruitmentOpen = open
	s.mu.Unlock()

	if s.remote != nil {
		if err := s.remote.SaveRecruitmentOpen(ctx, open); err != nil {
			s.logger.Error("remote write failed for recruitment flag", "error", err)
		}
	}
	if err := s.local.Set(keyRecruitmentOpen, boolString(open)); err != nil {
		s.logger.Error("local write failed for recruitment flag", "error", err)
		return internal.NewInternalError("failed to persist recruitment flag", err)
	}

	// Delivered synchronously: toggle subscribers must observe the new
	// flag value before the call returns, or a close followed by a status
	// read can race the old state.
	if s.bus != nil {
		_ = s.bus.PublishSync(ctx, events.NewRecruitmentToggled(open))
	}
	return nil
}

// ---- current user cache ----

// SaveCurrentUser caches the logged-in user locally so the session survives
// a restart without re-authentication.
func (s *Store) SaveCurrentUser(row datamodel.User) error {
	b, err := json.Marshal(row)
	if err != nil {
		return internal.NewInternalError("failed to serialize current user", err)
	}
	return s.local.Set(keyCurrentUser, string(b))
}

// LoadCurrentUser restores the cached session. The record is shape-checked,
// not re-authenticated.
func (s *Store) LoadCurrentUser() (*datamodel.User, bool) {
	value, ok, err := s.local.Get(keyCurrentUser)
	if err != nil || !ok {
		return nil, false
	}
	var row datamodel.User
	if err := json.Unmarshal([]byte(value), &row); err != nil {
		s.logger.Warn("cached current user is malformed, discarding", "error", err)
		_ = s.local.Remove(keyCurrentUser)
		return nil, false
	}
	if row.ID == "" || row.IDPersonnel == "" {
		return nil, false
	}
	return &row, true
}

func (s *Store) ClearCurrentUser() error {
	return s.local.Remove(keyCurrentUser)
}
