package review

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

// ErrPendingReviewExists blocks a second submission while one is still
// awaiting moderation.
var ErrPendingReviewExists = internal.NewConflictError(
	"a pending review already exists for this user", internal.ErrCodePendingExists, "user_id")

type Service struct {
	store  *storage.Store
	logger *slog.Logger
}

func NewService(store *storage.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Approved returns the publishable reviews, newest first. Public.
func (s *Service) Approved() []Review {
	approved := make([]Review, 0)
	for _, row := range s.store.Reviews() {
		if row.Status == StatusApproved {
			approved = append(approved, FromRow(row))
		}
	}
	sortNewestFirst(approved)
	return approved
}

// List returns every review for moderation.
func (s *Service) List(actor auth.Actor) ([]Review, error) {
	if !auth.CanModerateReviews(actor) {
		return nil, internal.ErrProtected
	}
	reviews := FromRows(s.store.Reviews())
	sortNewestFirst(reviews)
	return reviews, nil
}

// Submit files a review for the acting user. One pending review per user.
func (s *Service) Submit(ctx context.Context, actor auth.Actor, dto SubmitReviewDTO) (Review, error) {
	if actor.UserID == "" {
		return Review{}, internal.NewUnauthorizedError("login required", internal.ErrCodeInvalidToken)
	}
	if err := dto.Validate(); err != nil {
		return Review{}, err
	}

	author, ok := s.store.UserByID(actor.UserID)
	if !ok {
		return Review{}, internal.ErrUserNotFound
	}

	for _, row := range s.store.Reviews() {
		if row.Status == StatusPending && row.UserID != nil && *row.UserID == actor.UserID {
			return Review{}, ErrPendingReviewExists
		}
	}

	userID := author.ID
	r := Review{
		ID:          uuid.NewString(),
		UserID:      &userID,
		Nom:         author.Nom,
		Prenom:      author.Prenom,
		IDPersonnel: author.IDPersonnel,
		Comment:     dto.Comment,
		Rating:      dto.Rating,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.store.CreateReview(ctx, ToRow(r)); err != nil {
		return Review{}, err
	}

	s.logger.Info("review submitted", "review_id", r.ID, "user_id", author.ID)
	return r, nil
}

func (s *Service) Approve(ctx context.Context, actor auth.Actor, id string) (Review, error) {
	return s.moderate(ctx, actor, id, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, actor auth.Actor, id string) (Review, error) {
	return s.moderate(ctx, actor, id, StatusRejected)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if !auth.CanModerateReviews(actor) {
		return internal.ErrProtected
	}
	if err := s.store.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.logger.Info("review deleted", "review_id", id, "by", actor.UserID)
	return nil
}

func (s *Service) moderate(ctx context.Context, actor auth.Actor, id, status string) (Review, error) {
	if !auth.CanModerateReviews(actor) {
		return Review{}, internal.ErrProtected
	}

	row, ok := s.store.ReviewByID(id)
	if !ok {
		return Review{}, internal.ErrReviewNotFound
	}

	now := time.Now()
	moderator := actor.UserID
	row.Status = status
	row.ApprovedBy = &moderator
	row.ApprovedAt = &now

	if err := s.store.UpdateReview(ctx, row); err != nil {
		return Review{}, err
	}

	s.logger.Info("review moderated", "review_id", id, "status", status, "by", actor.UserID)
	return FromRow(row), nil
}

func sortNewestFirst(reviews []Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
}
