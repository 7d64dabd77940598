package team

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/auth"
	"github.com/acfortier/garage-backoffice/internal/storage"
)

var (
	// ErrNotStaff rejects roster entries for accounts outside direction and rh.
	ErrNotStaff = internal.NewValidationError(
		"team members must be created from a direction or rh account", internal.ErrCodeValidationFailed)

	ErrAlreadyOnTeam = internal.NewConflictError(
		"this user is already on the team", internal.ErrCodePendingExists, "user_id")

	// ErrEdgeOfRoster means the member is already first or last.
	ErrEdgeOfRoster = internal.NewValidationError(
		"member is already at the edge of the roster", internal.ErrCodeValidationFailed)
)

type Service struct {
	store  *storage.Store
	logger *slog.Logger
}

func NewService(store *storage.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// List returns the roster in display order with photos resolved: a member
// without a photo of their own falls back to the linked account's photoUrl.
// Public.
func (s *Service) List() []Member {
	members := FromRows(s.store.TeamMembers())
	for i := range members {
		members[i].Photo = s.resolvePhoto(members[i])
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Order < members[j].Order
	})
	return members
}

// Create adds a direction or rh account to the roster, appended at the end
// of the display order.
func (s *Service) Create(ctx context.Context, actor auth.Actor, dto CreateMemberDTO) (Member, error) {
	if !auth.CanManageTeam(actor) {
		return Member{}, internal.ErrProtected
	}
	if err := dto.Validate(); err != nil {
		return Member{}, err
	}

	source, ok := s.store.UserByID(dto.UserID)
	if !ok {
		return Member{}, internal.ErrUserNotFound
	}
	if source.Grade != auth.GradeDirection && source.Grade != auth.GradeRH {
		return Member{}, ErrNotStaff
	}

	for _, row := range s.store.TeamMembers() {
		if row.UserID != nil && *row.UserID == source.ID {
			return Member{}, ErrAlreadyOnTeam
		}
	}

	maxOrder := 0
	for _, row := range s.store.TeamMembers() {
		if row.Order > maxOrder {
			maxOrder = row.Order
		}
	}

	userID := source.ID
	m := Member{
		ID:     uuid.NewString(),
		UserID: &userID,
		Prenom: source.Prenom,
		Nom:    source.Nom,
		Role:   dto.Role,
		Photo:  dto.Photo,
		Order:  maxOrder + 1,
	}

	if err := s.store.CreateTeamMember(ctx, ToRow(m)); err != nil {
		return Member{}, err
	}

	s.logger.Info("team member created", "team_member_id", m.ID, "user_id", userID, "by", actor.UserID)
	return m, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, dto UpdateMemberDTO) (Member, error) {
	if !auth.CanManageTeam(actor) {
		return Member{}, internal.ErrProtected
	}

	row, ok := s.store.TeamMemberByID(id)
	if !ok {
		return Member{}, internal.ErrTeamMemberNotFound
	}

	if dto.Role != nil {
		row.Role = *dto.Role
	}
	if dto.Photo != nil {
		row.Photo = dto.Photo
	}

	if err := s.store.UpdateTeamMember(ctx, row); err != nil {
		return Member{}, err
	}

	s.logger.Info("team member updated", "team_member_id", id, "by", actor.UserID)
	return FromRow(row), nil
}

// Move swaps a member's rank with its immediate neighbor in the given
// direction.
func (s *Service) Move(ctx context.Context, actor auth.Actor, id string, dto MoveMemberDTO) error {
	if !auth.CanManageTeam(actor) {
		return internal.ErrProtected
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	member, ok := s.store.TeamMemberByID(id)
	if !ok {
		return internal.ErrTeamMemberNotFound
	}

	neighborID := ""
	neighborOrder := 0
	for _, row := range s.store.TeamMembers() {
		if row.ID == member.ID {
			continue
		}
		switch dto.Direction {
		case "up":
			if row.Order < member.Order && (neighborID == "" || row.Order > neighborOrder) {
				neighborID, neighborOrder = row.ID, row.Order
			}
		case "down":
			if row.Order > member.Order && (neighborID == "" || row.Order < neighborOrder) {
				neighborID, neighborOrder = row.ID, row.Order
			}
		}
	}
	if neighborID == "" {
		return ErrEdgeOfRoster
	}

	if err := s.store.SwapTeamMembers(ctx, member.ID, neighborID); err != nil {
		return err
	}

	s.logger.Info("team member moved", "team_member_id", id, "direction", dto.Direction, "by", actor.UserID)
	return nil
}

// Delete removes a roster entry. The linked account is untouched.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if !auth.CanManageTeam(actor) {
		return internal.ErrProtected
	}
	if err := s.store.DeleteTeamMember(ctx, id); err != nil {
		return err
	}
	s.logger.Info("team member deleted", "team_member_id", id, "by", actor.UserID)
	return nil
}

func (s *Service) resolvePhoto(m Member) *string {
	if m.Photo != nil && *m.Photo != "" {
		return m.Photo
	}
	if m.UserID == nil {
		return m.Photo
	}
	user, ok := s.store.UserByID(*m.UserID)
	if !ok || user.PhotoURL == "" {
		return m.Photo
	}
	photo := user.PhotoURL
	return &photo
}
