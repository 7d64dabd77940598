package team

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

func TestTeam(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Team Module Suite")
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

var _ = ginkgo.Describe("TeamService", func() {
	var (
		ctx     context.Context
		store   *storage.Store
		service *Service
	)

	direction := auth.Actor{UserID: "dir-1", Grade: auth.GradeDirection}
	client := auth.Actor{UserID: "client-1", Grade: auth.GradeClient}

	seedUser := func(id, idPersonnel, grade, photoURL string) {
		err := store.CreateUser(ctx, datamodel.User{
			ID:          id,
			IDPersonnel: idPersonnel,
			Password:    "password",
			Telephone:   "555-" + idPersonnel,
			Prenom:      "Test",
			Nom:         "User",
			Grade:       grade,
			PhotoURL:    photoURL,
			CreatedAt:   time.Now(),
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	}

	create := func(userID, role string) Member {
		m, err := service.Create(ctx, direction, CreateMemberDTO{UserID: userID, Role: role})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return m
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		bus := events.NewEventBus(logger.LoggerWrapper())
		store = storage.NewStore(nil, newMemKV(), bus, logger.LoggerWrapper())
		store.Load(ctx)
		service = NewService(store, logger.LoggerWrapper())

		seedUser("dir-1", "1002", auth.GradeDirection, "")
		seedUser("rh-1", "1003", auth.GradeRH, "https://cdn.example/rh.png")
		seedUser("client-1", "1004", auth.GradeClient, "")
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("appends staff at the end of the roster", func() {
			first := create("dir-1", "Patron")
			second := create("rh-1", "Recruteuse")

			gomega.Expect(first.Order).To(gomega.Equal(1))
			gomega.Expect(second.Order).To(gomega.Equal(2))
		})

		ginkgo.It("rejects non-staff accounts", func() {
			_, err := service.Create(ctx, direction, CreateMemberDTO{UserID: "client-1", Role: "Client"})
			gomega.Expect(err).To(gomega.MatchError(ErrNotStaff))
		})

		ginkgo.It("rejects duplicate roster entries", func() {
			create("dir-1", "Patron")

			_, err := service.Create(ctx, direction, CreateMemberDTO{UserID: "dir-1", Role: "Patron"})
			gomega.Expect(err).To(gomega.MatchError(ErrAlreadyOnTeam))
		})

		ginkgo.It("is closed to clients", func() {
			_, err := service.Create(ctx, client, CreateMemberDTO{UserID: "dir-1", Role: "Patron"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrProtected))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("falls back to the linked account photo", func() {
			create("rh-1", "Recruteuse")

			members := service.List()
			gomega.Expect(members).To(gomega.HaveLen(1))
			gomega.Expect(members[0].Photo).ToNot(gomega.BeNil())
			gomega.Expect(*members[0].Photo).To(gomega.Equal("https://cdn.example/rh.png"))
		})

		ginkgo.It("prefers the member's own photo", func() {
			photo := "https://cdn.example/custom.png"
			_, err := service.Create(ctx, direction, CreateMemberDTO{UserID: "rh-1", Role: "Recruteuse", Photo: &photo})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			members := service.List()
			gomega.Expect(*members[0].Photo).To(gomega.Equal(photo))
		})
	})

	ginkgo.Describe("Move", func() {
		ginkgo.It("swaps ranks with the neighbor", func() {
			first := create("dir-1", "Patron")
			second := create("rh-1", "Recruteuse")

			gomega.Expect(service.Move(ctx, direction, second.ID, MoveMemberDTO{Direction: "up"})).To(gomega.Succeed())

			members := service.List()
			gomega.Expect(members[0].ID).To(gomega.Equal(second.ID))
			gomega.Expect(members[1].ID).To(gomega.Equal(first.ID))
		})

		ginkgo.It("refuses moving past the edge", func() {
			first := create("dir-1", "Patron")
			create("rh-1", "Recruteuse")

			err := service.Move(ctx, direction, first.ID, MoveMemberDTO{Direction: "up"})
			gomega.Expect(err).To(gomega.MatchError(ErrEdgeOfRoster))
		})

		ginkgo.It("validates the direction", func() {
			first := create("dir-1", "Patron")

			err := service.Move(ctx, direction, first.ID, MoveMemberDTO{Direction: "sideways"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("leaves the linked account untouched", func() {
			m := create("dir-1", "Patron")

			gomega.Expect(service.Delete(ctx, direction, m.ID)).To(gomega.Succeed())
			gomega.Expect(service.List()).To(gomega.BeEmpty())

			_, ok := store.UserByID("dir-1")
			gomega.Expect(ok).To(gomega.BeTrue())
		})
	})
})
