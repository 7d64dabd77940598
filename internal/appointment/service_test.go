package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/auth"
	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
	"github.com/acfortier/garage-backoffice/internal/core/events"
	"github.com/acfortier/garage-backoffice/internal/storage"
	"github.com/acfortier/garage-backoffice/pkg/logger"
)

func TestAppointment(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Appointment Module Suite")
}

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var _ = ginkgo.Describe("AppointmentService", func() {
	var (
		ctx     context.Context
		store   *storage.Store
		service *Service
	)

	direction := auth.Actor{UserID: "dir-1", Grade: auth.GradeDirection}
	rh := auth.Actor{UserID: "rh-1", Grade: auth.GradeRH}
	client := auth.Actor{UserID: "client-1", Grade: auth.GradeClient}

	seedUser := func(id, idPersonnel, grade string) {
		err := store.CreateUser(ctx, datamodel.User{
			ID:          id,
			IDPersonnel: idPersonnel,
			Password:    "password",
			Telephone:   "555-" + idPersonnel,
			Prenom:      "Test",
			Nom:         "User",
			Grade:       grade,
			CreatedAt:   time.Now(),
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	}

	book := func(actor auth.Actor, targetID string) Appointment {
		a, err := service.Book(ctx, actor, BookAppointmentDTO{
			DirectionUserID: targetID,
			DateTime:        time.Now().Add(24 * time.Hour),
			Reason:          "entretien annuel",
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return a
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		bus := events.NewEventBus(logger.LoggerWrapper())
		store = storage.NewStore(nil, newMemKV(), bus, logger.LoggerWrapper())
		store.Load(ctx)
		service = NewService(store, logger.LoggerWrapper())

		seedUser("dir-1", "1002", auth.GradeDirection)
		seedUser("rh-1", "1003", auth.GradeRH)
		seedUser("client-1", "1004", auth.GradeClient)
	})

	ginkgo.Describe("Book", func() {
		ginkgo.It("snapshots the requester contact details", func() {
			a := book(client, "dir-1")

			gomega.Expect(a.Status).To(gomega.Equal(StatusPending))
			gomega.Expect(a.IDPersonnel).To(gomega.Equal("1004"))
			gomega.Expect(a.Telephone).To(gomega.Equal("555-1004"))
			gomega.Expect(a.DirectionUserID).ToNot(gomega.BeNil())
			gomega.Expect(*a.DirectionUserID).To(gomega.Equal("dir-1"))
		})

		ginkgo.It("only accepts direction members as targets", func() {
			_, err := service.Book(ctx, client, BookAppointmentDTO{
				DirectionUserID: "rh-1",
				DateTime:        time.Now().Add(time.Hour),
				Reason:          "test",
			})
			gomega.Expect(err).To(gomega.MatchError(ErrNotDirection))
		})

		ginkgo.It("allows one open appointment per user", func() {
			book(client, "dir-1")

			_, err := service.Book(ctx, client, BookAppointmentDTO{
				DirectionUserID: "dir-1",
				DateTime:        time.Now().Add(time.Hour),
				Reason:          "encore",
			})
			gomega.Expect(err).To(gomega.MatchError(ErrOpenAppointmentExists))
		})

		ginkgo.It("allows rebooking after a cancellation", func() {
			a := book(client, "dir-1")
			_, err := service.Cancel(ctx, client, a.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			book(client, "dir-1")
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("scopes rh to appointments addressed to them", func() {
			seedUser("dir-2", "1005", auth.GradeDirection)
			book(client, "dir-1")

			seedUser("client-2", "1006", auth.GradeClient)
			book(auth.Actor{UserID: "client-2", Grade: auth.GradeClient}, "dir-2")

			all, err := service.List(direction)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(all).To(gomega.HaveLen(2))

			scoped, err := service.List(auth.Actor{UserID: "dir-1", Grade: auth.GradeRH})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(scoped).To(gomega.HaveLen(1))
			gomega.Expect(*scoped[0].DirectionUserID).To(gomega.Equal("dir-1"))
		})

		ginkgo.It("is closed to clients", func() {
			_, err := service.List(client)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrProtected))
		})
	})

	ginkgo.Describe("Mine", func() {
		ginkgo.It("returns only the actor's own history", func() {
			book(client, "dir-1")

			mine, err := service.Mine(client)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mine).To(gomega.HaveLen(1))

			none, err := service.Mine(rh)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(none).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Respond", func() {
		ginkgo.It("stamps the responder on acceptance", func() {
			a := book(client, "dir-1")

			accepted, err := service.Respond(ctx, direction, a.ID, StatusAccepted)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(accepted.Status).To(gomega.Equal(StatusAccepted))
			gomega.Expect(accepted.RespondedBy).ToNot(gomega.BeNil())
			gomega.Expect(*accepted.RespondedBy).To(gomega.Equal("dir-1"))
			gomega.Expect(accepted.RespondedAt).ToNot(gomega.BeNil())
		})

		ginkgo.It("follows the status machine", func() {
			a := book(client, "dir-1")

			_, err := service.Respond(ctx, direction, a.ID, StatusCompleted)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidTransition))

			_, err = service.Respond(ctx, direction, a.ID, StatusAccepted)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Respond(ctx, direction, a.ID, StatusCompleted)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Respond(ctx, direction, a.ID, StatusCancelled)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidTransition))
		})

		ginkgo.It("keeps rh out of appointments addressed to others", func() {
			a := book(client, "dir-1")

			_, err := service.Respond(ctx, auth.Actor{UserID: "rh-9", Grade: auth.GradeRH}, a.ID, StatusAccepted)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrProtected))
		})
	})

	ginkgo.Describe("Cancel", func() {
		ginkgo.It("is reserved to the requester", func() {
			a := book(client, "dir-1")

			_, err := service.Cancel(ctx, rh, a.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrProtected))

			cancelled, err := service.Cancel(ctx, client, a.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cancelled.Status).To(gomega.Equal(StatusCancelled))
		})

		ginkgo.It("refuses cancelling a completed appointment", func() {
			a := book(client, "dir-1")
			_, err := service.Respond(ctx, direction, a.ID, StatusAccepted)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Respond(ctx, direction, a.ID, StatusCompleted)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Cancel(ctx, client, a.ID)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidTransition))
		})
	})
})
