package storage

import (
	"context"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
	"github.com/acfortier/garage-backoffice/internal/core/events"
)

// ---- team members ----

func (s *Store) TeamMembers() []datamodel.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teamMembers
}

func (s *Store) TeamMemberByID(id string) (datamodel.TeamMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.teamMembers {
		if row.ID == id {
			return row, true
		}
	}
	return datamodel.TeamMember{}, false
}

func (s *Store) CreateTeamMember(ctx context.Context, row datamodel.TeamMember) error {
	s.mu.Lock()
	next := make([]datamodel.TeamMember, 0, len(s.teamMembers)+1)
	next = append(next, s.teamMembers...)
	next = append(next, row)
	s.teamMembers = next
	s.mu.Unlock()

	err := s.persist(ctx, keyTeamMembers, s.snapshotTeamMembers, func(ctx context.Context) error {
		return s.remote.CreateTeamMember(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventTeamChanged, "create", row.ID)
	return nil
}

func (s *Store) UpdateTeamMember(ctx context.Context, row datamodel.TeamMember) error {
	s.mu.Lock()
	replaced := false
	next := make([]datamodel.TeamMember, 0, len(s.teamMembers))
	for _, existing := range s.teamMembers {
		if existing.ID == row.ID {
			next = append(next, row)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if replaced {
		s.teamMembers = next
	}
	s.mu.Unlock()
	if !replaced {
		return internal.ErrTeamMemberNotFound
	}

	err := s.persist(ctx, keyTeamMembers, s.snapshotTeamMembers, func(ctx context.Context) error {
		return s.remote.UpdateTeamMember(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventTeamChanged, "update", row.ID)
	return nil
}

// SwapTeamMembers exchanges the display ranks of two members as one
// mutation, persisting both rows.
func (s *Store) SwapTeamMembers(ctx context.Context, firstID, secondID string) error {
	s.mu.Lock()
	next := make([]datamodel.TeamMember, len(s.teamMembers))
	copy(next, s.teamMembers)
	var first, second *datamodel.TeamMember
	for i := range next {
		switch next[i].ID {
		case firstID:
			first = &next[i]
		case secondID:
			second = &next[i]
		}
	}
	if first == nil || second == nil {
		s.mu.Unlock()
		return internal.ErrTeamMemberNotFound
	}
	first.Order, second.Order = second.Order, first.Order
	firstRow, secondRow := *first, *second
	s.teamMembers = next
	s.mu.Unlock()

	err := s.persist(ctx, keyTeamMembers, s.snapshotTeamMembers, func(ctx context.Context) error {
		if err := s.remote.UpdateTeamMember(ctx, firstRow); err != nil {
			return err
		}
		return s.remote.UpdateTeamMember(ctx, secondRow)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventTeamChanged, "reorder", firstID)
	return nil
}

func (s *Store) DeleteTeamMember(ctx context.Context, id string) error {
	if _, ok := s.TeamMemberByID(id); !ok {
		return internal.ErrTeamMemberNotFound
	}

	if s.remote != nil {
		if err := s.remote.DeleteTeamMember(ctx, id); err != nil {
			s.logger.Error("remote delete failed for team member", "team_member_id", id, "error", err)
			return internal.NewInternalError("remote delete failed", err)
		}
	}

	s.mu.Lock()
	next := make([]datamodel.TeamMember, 0, len(s.teamMembers))
	for _, row := range s.teamMembers {
		if row.ID != id {
			next = append(next, row)
		}
	}
	s.teamMembers = next
	s.mu.Unlock()

	if err := s.persistDelete(keyTeamMembers, s.snapshotTeamMembers); err != nil {
		return err
	}

	s.notify(ctx, events.EventTeamChanged, "delete", id)
	return nil
}

func (s *Store) snapshotTeamMembers() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return marshalCollection(s.teamMembers)
}

// ---- client reviews ----

func (s *Store) Reviews() []datamodel.ClientReview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviews
}

func (s *Store) ReviewByID(id string) (datamodel.ClientReview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.reviews {
		if row.ID == id {
			return row, true
		}
	}
	return datamodel.ClientReview{}, false
}

func (s *Store) CreateReview(ctx context.Context, row datamodel.ClientReview) error {
	s.mu.Lock()
	next := make([]datamodel.ClientReview, 0, len(s.reviews)+1)
	next = append(next, s.reviews...)
	next = append(next, row)
	s.reviews = next
	s.mu.Unlock()

	err := s.persist(ctx, keyReviews, s.snapshotReviews, func(ctx context.Context) error {
		return s.remote.CreateReview(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventReviewsChanged, "create", row.ID)
	return nil
}

func (s *Store) UpdateReview(ctx context.Context, row datamodel.ClientReview) error {
	s.mu.Lock()
	replaced := false
	next := make([]datamodel.ClientReview, 0, len(s.reviews))
	for _, existing := range s.reviews {
		if existing.ID == row.ID {
			next = append(next, row)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if replaced {
		s.reviews = next
	}
	s.mu.Unlock()
	if !replaced {
		return internal.ErrReviewNotFound
	}

	err := s.persist(ctx, keyReviews, s.snapshotReviews, func(ctx context.Context) error {
		return s.remote.UpdateReview(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventReviewsChanged, "update", row.ID)
	return nil
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	if _, ok := s.ReviewByID(id); !ok {
		return internal.ErrReviewNotFound
	}

	if s.remote != nil {
		if err := s.remote.DeleteReview(ctx, id); err != nil {
			s.logger.Error("remote delete failed for review", "review_id", id, "error", err)
			return internal.NewInternalError("remote delete failed", err)
		}
	}

	s.mu.Lock()
	next := make([]datamodel.ClientReview, 0, len(s.reviews))
	for _, row := range s.reviews {
		if row.ID != id {
			next = append(next, row)
		}
	}
	s.reviews = next
	s.mu.Unlock()

	if err := s.persistDelete(keyReviews, s.snapshotReviews); err != nil {
		return err
	}

	s.notify(ctx, events.EventReviewsChanged, "delete", id)
	return nil
}

func (s *Store) snapshotReviews() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return marshalCollection(s.reviews)
}

// ---- appointments ----

func (s *Store) Appointments() []datamodel.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appointments
}

func (s *Store) AppointmentByID(id string) (datamodel.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.appointments {
		if row.ID == id {
			return row, true
		}
	}
	return datamodel.Appointment{}, false
}

func (s *Store) CreateAppointment(ctx context.Context, row datamodel.Appointment) error {
	s.mu.Lock()
	next := make([]datamodel.Appointment, 0, len(s.appointments)+1)
	next = append(next, s.appointments...)
	next = append(next, row)
	s.appointments = next
	s.mu.Unlock()

	err := s.persist(ctx, keyAppointments, s.snapshotAppointments, func(ctx context.Context) error {
		return s.remote.CreateAppointment(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventAppointmentsChanged, "create", row.ID)
	return nil
}

func (s *Store) UpdateAppointment(ctx context.Context, row datamodel.Appointment) error {
	s.mu.Lock()
	replaced := false
	next := make([]datamodel.Appointment, 0, len(s.appointments))
	for _, existing := range s.appointments {
		if existing.ID == row.ID {
			next = append(next, row)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if replaced {
		s.appointments = next
	}
	s.mu.Unlock()
	if !replaced {
		return internal.ErrAppointmentNotFound
	}

	err := s.persist(ctx, keyAppointments, s.snapshotAppointments, func(ctx context.Context) error {
		return s.remote.UpdateAppointment(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventAppointmentsChanged, "update", row.ID)
	return nil
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	if _, ok := s.AppointmentByID(id); !ok {
		return internal.ErrAppointmentNotFound
	}

	if s.remote != nil {
		if err := s.remote.DeleteAppointment(ctx, id); err != nil {
			s.logger.Error("remote delete failed for appointment", "appointment_id", id, "error", err)
			return internal.NewInternalError("remote delete failed", err)
		}
	}

	s.mu.Lock()
	next := make([]datamodel.Appointment, 0, len(s.appointments))
	for _, row := range s.appointments {
		if row.ID != id {
			next = append(next, row)
		}
	}
	s.appointments = next
	s.mu.Unlock()

	if err := s.persistDelete(keyAppointments, s.snapshotAppointments); err != nil {
		return err
	}

	s.notify(ctx, events.EventAppointmentsChanged, "delete", id)
	return nil
}

func (s *Store) snapshotAppointments() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return marshalCollection(s.appointments)
}

// ---- partners ----

func (s *Store) Partners() []datamodel.Partner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partners
}

func (s *Store) PartnerByID(id string) (datamodel.Partner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.partners {
		if row.ID == id {
			return row, true
		}
	}
	return datamodel.Partner{}, false
}

func (s *Store) CreatePartner(ctx context.Context, row datamodel.Partner) error {
	s.mu.Lock()
	next := make([]datamodel.Partner, 0, len(s.partners)+1)
	next = append(next, s.partners...)
	next = append(next, row)
	s.partners = next
	s.mu.Unlock()

	err := s.persist(ctx, keyPartners, s.snapshotPartners, func(ctx context.Context) error {
		return s.remote.CreatePartner(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventPartnersChanged, "create", row.ID)
	return nil
}

func (s *Store) UpdatePartner(ctx context.Context, row datamodel.Partner) error {
	s.mu.Lock()
	replaced := false
	next := make([]datamodel.Partner, 0, len(s.partners))
	for _, existing := range s.partners {
		if existing.ID == row.ID {
			next = append(next, row)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if replaced {
		s.partners = next
	}
	s.mu.Unlock()
	if !replaced {
		return internal.ErrPartnerNotFound
	}

	err := s.persist(ctx, keyPartners, s.snapshotPartners, func(ctx context.Context) error {
		return s.remote.UpdatePartner(ctx, row)
	})
	if err != nil {
		return err
	}
	s.notify(ctx, events.EventPartnersChanged, "update", row.ID)
	return nil
}

func (s *Store) DeletePartner(ctx context.Context, id string) error {
	if _, ok := s.PartnerByID(id); !ok {
		return internal.ErrPartnerNotFound
	}

	if s.remote != nil {
		if err := s.remote.DeletePartner(ctx, id); err != nil {
			s.logger.Error("remote delete failed for partner", "partner_id", id, "error", err)
			return internal.NewInternalError("remote delete failed", err)
		}
	}

	s.mu.Lock()
	next := make([]datamodel.Partner, 0, len(s.partners))
	for _, row := range s.partners {
		if row.ID != id {
			next = append(next, row)
		}
	}
	s.partners = next
	s.mu.Unlock()

	if err := s.persistDelete(keyPartners, s.snapshotPartners); err != nil {
		return err
	}

	s.notify(ctx, events.EventPartnersChanged, "delete", id)
	return nil
}

func (s *Store) snapshotPartners() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return marshalCollection(s.partners)
}
