package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
	"github.com/acfortier/garage-backoffice/internal/storage"
)

// Service holds the authentication state: the current user session and the
// legacy employee gate. Both survive restarts through the store's local
// cache; the cached session is shape-checked, not re-authenticated.
type Service struct {
	store            *storage.Store
	tokens           TokenGenerator
	employeePassword string
	logger           *slog.Logger

	mu               sync.RWMutex
	current          *datamodel.User
	employeeUnlocked bool
}

func NewService(store *storage.Store, tokens TokenGenerator, employeePassword string, logger *slog.Logger) *Service {
	return &Service{
		store:            store,
		tokens:           tokens,
		employeePassword: employeePassword,
		logger:           logger,
	}
}

// RestoreSession reloads the cached current user, if any.
func (s *Service) RestoreSession() {
	row, ok := s.store.LoadCurrentUser()
	if !ok {
		return
	}
	s.mu.Lock()
	s.current = row
	s.mu.Unlock()
	s.logger.Info("session restored from local cache", "user_id", row.ID, "grade", row.Grade)
}

// Login authenticates by idPersonnel and password. A stored plaintext
// credential that matches is transparently upgraded to the modern digest
// format before the session opens.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (datamodel.User, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return datamodel.User{}, AuthTokens{}, err
	}

	row, ok := s.store.UserByIDPersonnel(dto.IDPersonnel)
	if !ok {
		return datamodel.User{}, AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !VerifyPassword(dto.Password, row.Password) {
		return datamodel.User{}, AuthTokens{}, internal.ErrInvalidCredentials
	}

	if NeedsRehash(row.Password) {
		if digest, err := HashPassword(dto.Password); err != nil {
			s.logger.Error("credential upgrade failed", "user_id", row.ID, "error", err)
		} else {
			upgraded := row
			upgraded.Password = digest
			if err := s.store.UpdateUser(ctx, upgraded); err != nil {
				s.logger.Error("credential upgrade persist failed", "user_id", row.ID, "error", err)
			} else {
				row = upgraded
				s.logger.Info("stored credential upgraded to tagged format", "user_id", row.ID)
			}
		}
	}

	s.mu.Lock()
	current := row
	s.current = &current
	s.mu.Unlock()

	if err := s.store.SaveCurrentUser(row); err != nil {
		s.logger.Error("failed to cache session locally", "user_id", row.ID, "error", err)
	}

	access, err := s.tokens.GenerateAccessToken(row.ID, row.Grade)
	if err != nil {
		return datamodel.User{}, AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(row.ID, row.Grade)
	if err != nil {
		return datamodel.User{}, AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("login", "user_id", row.ID, "grade", row.Grade)
	return row, AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	if err := s.store.ClearCurrentUser(); err != nil {
		s.logger.Error("failed to clear cached session", "error", err)
	}
}

func (s *Service) CurrentUser() (datamodel.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return datamodel.User{}, false
	}
	return *s.current, true
}

// RefreshTokens validates refresh token and returns new tokens.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	grade := claims.Grade
	if row, ok := s.store.UserByID(claims.UserID); ok {
		grade = row.Grade
	}

	access, err := s.tokens.GenerateAccessToken(claims.UserID, grade)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(claims.UserID, grade)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	return AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

// UnlockEmployeeGate checks the legacy shared dashboard password. The gate
// is disabled when no password is configured.
func (s *Service) UnlockEmployeeGate(password string) bool {
	if s.employeePassword == "" || password != s.employeePassword {
		return false
	}
	s.mu.Lock()
	s.employeeUnlocked = true
	s.mu.Unlock()
	s.logger.Info("legacy employee gate unlocked")
	return true
}

func (s *Service) EmployeeGateUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employeeUnlocked
}

// ActorForClaims resolves the acting identity for a request. The store is
// consulted so grade changes apply immediately instead of at token renewal.
func (s *Service) ActorForClaims(claims *Claims) (Actor, error) {
	row, ok := s.store.UserByID(claims.UserID)
	if !ok {
		return Actor{}, internal.ErrUserNotFound
	}
	return Actor{UserID: row.ID, Grade: row.Grade}, nil
}
