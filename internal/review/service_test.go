package review

import (
	"context"
	"strings"
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

func TestReview(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Review Module Suite")
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

var _ = ginkgo.Describe("ReviewService", func() {
	var (
		ctx     context.Context
		store   *storage.Store
		service *Service
	)

	direction := auth.Actor{UserID: "dir-1", Grade: auth.GradeDirection}
	client := auth.Actor{UserID: "client-1", Grade: auth.GradeClient}

	seedAuthor := func(id string) {
		err := store.CreateUser(ctx, datamodel.User{
			ID:          id,
			IDPersonnel: "1004",
			Password:    "password",
			Telephone:   "555-" + id,
			Prenom:      "Emma",
			Nom:         "Roy",
			Grade:       auth.GradeClient,
			CreatedAt:   time.Now(),
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	}

	submit := func(actor auth.Actor) Review {
		r, err := service.Submit(ctx, actor, SubmitReviewDTO{Comment: "super garage", Rating: 5})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return r
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		bus := events.NewEventBus(logger.LoggerWrapper())
		store = storage.NewStore(nil, newMemKV(), bus, logger.LoggerWrapper())
		store.Load(ctx)
		service = NewService(store, logger.LoggerWrapper())
	})

	ginkgo.Describe("Submit", func() {
		ginkgo.It("snapshots the author identity on the review", func() {
			seedAuthor("client-1")
			r := submit(client)

			gomega.Expect(r.Status).To(gomega.Equal(StatusPending))
			gomega.Expect(r.Prenom).To(gomega.Equal("Emma"))
			gomega.Expect(r.Nom).To(gomega.Equal("Roy"))
			gomega.Expect(r.IDPersonnel).To(gomega.Equal("1004"))
			gomega.Expect(r.UserID).ToNot(gomega.BeNil())
			gomega.Expect(*r.UserID).To(gomega.Equal("client-1"))
		})

		ginkgo.It("requires a logged-in author", func() {
			_, err := service.Submit(ctx, auth.Actor{EmployeeGate: true}, SubmitReviewDTO{Comment: "ok", Rating: 4})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("allows one pending review per user", func() {
			seedAuthor("client-1")
			submit(client)

			_, err := service.Submit(ctx, client, SubmitReviewDTO{Comment: "encore", Rating: 3})
			gomega.Expect(err).To(gomega.MatchError(ErrPendingReviewExists))
		})

		ginkgo.It("lets a user submit again once moderated", func() {
			seedAuthor("client-1")
			r := submit(client)

			_, err := service.Approve(ctx, direction, r.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			submit(client)
		})

		ginkgo.It("bounds the comment length", func() {
			seedAuthor("client-1")
			_, err := service.Submit(ctx, client, SubmitReviewDTO{
				Comment: strings.Repeat("a", 251),
				Rating:  4,
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("moderation", func() {
		ginkgo.It("stamps the moderator and timestamp", func() {
			seedAuthor("client-1")
			r := submit(client)

			approved, err := service.Approve(ctx, direction, r.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(approved.Status).To(gomega.Equal(StatusApproved))
			gomega.Expect(approved.ApprovedBy).ToNot(gomega.BeNil())
			gomega.Expect(*approved.ApprovedBy).To(gomega.Equal("dir-1"))
			gomega.Expect(approved.ApprovedAt).ToNot(gomega.BeNil())
		})

		ginkgo.It("is closed to clients", func() {
			seedAuthor("client-1")
			r := submit(client)

			_, err := service.Approve(ctx, client, r.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrProtected))
		})

		ginkgo.It("reports unknown reviews", func() {
			_, err := service.Reject(ctx, direction, "nope")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrReviewNotFound))
		})
	})

	ginkgo.Describe("Approved", func() {
		ginkgo.It("exposes only approved reviews, newest first", func() {
			seedAuthor("client-1")
			first := submit(client)
			_, err := service.Approve(ctx, direction, first.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			second := submit(client)
			_, err = service.Approve(ctx, direction, second.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			third := submit(client)
			_, err = service.Reject(ctx, direction, third.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			public := service.Approved()
			gomega.Expect(public).To(gomega.HaveLen(2))
			gomega.Expect(public[0].CreatedAt.Before(public[1].CreatedAt)).To(gomega.BeFalse())
		})
	})
})
