package partner

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

// List is public.
func (s *Service) List() []Partner {
	return FromRows(s.store.Partners())
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, dto CreatePartnerDTO) (Partner, error) {
	if !auth.CanManagePartners(actor) {
		return Partner{}, internal.ErrProtected
	}
	if err := dto.Validate(); err != nil {
		return Partner{}, err
	}

	p := Partner{
		ID:        uuid.NewString(),
		Nom:       dto.Nom,
		LogoURL:   dto.LogoURL,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreatePartner(ctx, ToRow(p)); err != nil {
		return Partner{}, err
	}

	s.logger.Info("partner created", "partner_id", p.ID, "by", actor.UserID)
	return p, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, dto UpdatePartnerDTO) (Partner, error) {
	if !auth.CanManagePartners(actor) {
		return Partner{}, internal.ErrProtected
	}

	row, ok := s.store.PartnerByID(id)
	if !ok {
		return Partner{}, internal.ErrPartnerNotFound
	}

	if dto.Nom != nil {
		row.Nom = *dto.Nom
	}
	if dto.LogoURL != nil {
		row.LogoURL = *dto.LogoURL
	}

	if err := s.store.UpdatePartner(ctx, row); err != nil {
		return Partner{}, err
	}

	s.logger.Info("partner updated", "partner_id", id, "by", actor.UserID)
	return FromRow(row), nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if !auth.CanManagePartners(actor) {
		return internal.ErrProtected
	}
	if err := s.store.DeletePartner(ctx, id); err != nil {
		return err
	}
	s.logger.Info("partner deleted", "partner_id", id, "by", actor.UserID)
	return nil
}
