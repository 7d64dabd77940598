package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/auth"
	"github.com/acfortier/garage-backoffice/internal/storage"
)

type Service struct {
	store  *storage.Store
	logger *slog.Logger
}

func NewService(store *storage.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Register creates a client account. Uniqueness of idPersonnel and
// telephone is enforced by the store; conflicts come back as typed results
// naming the field.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (User, error) {
	if err := dto.Validate(); err != nil {
		return User{}, err
	}

	digest, err := auth.HashPassword(dto.Password)
	if err != nil {
		return User{}, internal.NewInternalError("failed to hash password", err)
	}

	u := User{
		ID:          uuid.NewString(),
		IDPersonnel: dto.IDPersonnel,
		Password:    digest,
		Telephone:   dto.Telephone,
		Prenom:      dto.Prenom,
		Nom:         dto.Nom,
		Grade:       auth.GradeClient,
		PhotoURL:    dto.PhotoURL,
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreateUser(ctx, ToRow(u)); err != nil {
		return User{}, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "id_personnel", u.IDPersonnel)
	return u, nil
}

func (s *Service) List(actor auth.Actor) ([]User, error) {
	if !auth.CanManageUsers(actor) {
		return nil, internal.ErrProtected
	}
	return FromRows(s.store.Users()), nil
}

func (s *Service) GetByID(id string) (User, error) {
	row, ok := s.store.UserByID(id)
	if !ok {
		return User{}, internal.ErrUserNotFound
	}
	return FromRow(row), nil
}

// Update applies an admin edit. Grade changes run through the assignment
// policy (only dev hands out dev), and dev records stay untouchable for
// everyone else.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, dto AdminUpdateDTO) (User, error) {
	row, ok := s.store.UserByID(id)
	if !ok {
		return User{}, internal.ErrUserNotFound
	}
	if !auth.CanModifyUser(actor, row) {
		return User{}, internal.ErrProtected
	}

	if dto.Grade != nil && *dto.Grade != row.Grade {
		if !auth.ValidGrade(*dto.Grade) {
			return User{}, internal.NewValidationError("unknown grade", internal.ErrCodeInvalidGrade)
		}
		if !auth.CanAssignGrade(actor, *dto.Grade) {
			return User{}, internal.ErrProtected
		}
		row.Grade = *dto.Grade
	}
	if dto.Telephone != nil {
		row.Telephone = *dto.Telephone
	}
	if dto.Prenom != nil {
		row.Prenom = *dto.Prenom
	}
	if dto.Nom != nil {
		row.Nom = *dto.Nom
	}
	if dto.PhotoURL != nil {
		row.PhotoURL = *dto.PhotoURL
	}
	if dto.Password != nil && *dto.Password != "" {
		digest, err := auth.HashPassword(*dto.Password)
		if err != nil {
			return User{}, internal.NewInternalError("failed to hash password", err)
		}
		row.Password = digest
	}

	if err := s.store.UpdateUser(ctx, row); err != nil {
		return User{}, err
	}

	s.logger.Info("user updated", "user_id", id, "by", actor.UserID)
	return FromRow(row), nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	row, ok := s.store.UserByID(id)
	if !ok {
		return internal.ErrUserNotFound
	}
	if actor.UserID == id {
		return internal.ErrSelfDelete
	}
	if !auth.CanDeleteUser(actor, row) {
		return internal.ErrProtected
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", id, "by", actor.UserID)
	return nil
}
