package recruitment

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

func TestRecruitment(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Recruitment Module Suite")
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

var _ = ginkgo.Describe("RecruitmentService", func() {
	var (
		ctx     context.Context
		store   *storage.Store
		service *Service
	)

	rh := auth.Actor{UserID: "rh-1", Grade: auth.GradeRH}
	client := auth.Actor{UserID: "client-1", Grade: auth.GradeClient}

	submit := func(idJoueur string) Application {
		app, err := service.Submit(ctx, SubmitApplicationDTO{
			NomRP:      "Fortier",
			PrenomRP:   "Alex",
			IDJoueur:   idJoueur,
			Motivation: "je veux travailler au garage",
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return app
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		bus := events.NewEventBus(logger.LoggerWrapper())
		store = storage.NewStore(nil, newMemKV(), bus, logger.LoggerWrapper())
		store.Load(ctx)
		service = NewService(store, logger.LoggerWrapper())
	})

	ginkgo.Describe("sessions", func() {
		ginkgo.It("keeps at most one session active", func() {
			first, err := service.CreateSession(ctx, rh, CreateSessionDTO{Name: "Saison 1"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			second, err := service.CreateSession(ctx, rh, CreateSessionDTO{Name: "Saison 2"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(second.IsActive).To(gomega.BeTrue())

			sessions, err := service.Sessions(rh)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sessions).To(gomega.HaveLen(2))
			for _, s := range sessions {
				if s.ID == first.ID {
					gomega.Expect(s.IsActive).To(gomega.BeFalse())
					gomega.Expect(s.EndDate).ToNot(gomega.BeNil())
				}
			}
		})

		ginkgo.It("opens recruitment when a session is created", func() {
			_, err := service.CreateSession(ctx, rh, CreateSessionDTO{Name: "Saison 1"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(service.RecruitmentOpen()).To(gomega.BeTrue())
		})

		ginkgo.It("rejects session management from non-staff", func() {
			_, err := service.CreateSession(ctx, client, CreateSessionDTO{Name: "Saison 1"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrProtected))
		})

		ginkgo.It("keeps applications when their session is deleted", func() {
			session, err := service.CreateSession(ctx, rh, CreateSessionDTO{Name: "Saison 1"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			app := submit("1001")

			gomega.Expect(service.DeleteSession(ctx, rh, session.ID)).To(gomega.Succeed())

			apps, err := service.Applications(rh)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(apps).To(gomega.HaveLen(1))
			gomega.Expect(apps[0].ID).To(gomega.Equal(app.ID))
		})
	})

	ginkgo.Describe("open and close", func() {
		ginkgo.It("ensures a session exists when opening", func() {
			gomega.Expect(service.OpenRecruitment(ctx, rh)).To(gomega.Succeed())
			gomega.Expect(service.RecruitmentOpen()).To(gomega.BeTrue())

			_, ok := service.ActiveSession()
			gomega.Expect(ok).To(gomega.BeTrue())
		})

		ginkgo.It("stamps the end date when closing", func() {
			gomega.Expect(service.OpenRecruitment(ctx, rh)).To(gomega.Succeed())
			gomega.Expect(service.CloseRecruitment(ctx, rh)).To(gomega.Succeed())

			gomega.Expect(service.RecruitmentOpen()).To(gomega.BeFalse())
			sessions, err := service.Sessions(rh)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sessions).To(gomega.HaveLen(1))
			gomega.Expect(sessions[0].IsActive).To(gomega.BeFalse())
			gomega.Expect(sessions[0].EndDate).ToNot(gomega.BeNil())
		})
	})

	ginkgo.Describe("Submit", func() {
		ginkgo.It("opens an implicit session for the first application", func() {
			app := submit("1001")

			session, ok := service.ActiveSession()
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(app.SessionID).To(gomega.Equal(session.ID))
			gomega.Expect(app.Status).To(gomega.Equal(StatusPending))
		})

		ginkgo.It("allows one pending application per player", func() {
			submit("1001")

			_, err := service.Submit(ctx, SubmitApplicationDTO{
				NomRP: "Fortier", PrenomRP: "Alex", IDJoueur: "1001", Motivation: "encore",
			})
			gomega.Expect(err).To(gomega.MatchError(ErrPendingApplicationExists))
		})

		ginkgo.It("lets a rejected player apply again", func() {
			app := submit("1001")
			_, err := service.Advance(ctx, rh, app.ID, StatusRejected)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			submit("1001")
		})
	})

	ginkgo.Describe("Advance", func() {
		ginkgo.It("walks pending through interview to accepted", func() {
			app := submit("1001")

			app, err := service.Advance(ctx, rh, app.ID, StatusInterviewWaiting)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(app.Status).To(gomega.Equal(StatusInterviewWaiting))

			app, err = service.Advance(ctx, rh, app.ID, StatusAccepted)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(app.Status).To(gomega.Equal(StatusAccepted))
		})

		ginkgo.It("refuses skipping the interview", func() {
			app := submit("1001")

			_, err := service.Advance(ctx, rh, app.ID, StatusAccepted)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidTransition))
		})

		ginkgo.It("refuses leaving a terminal state", func() {
			app := submit("1001")
			_, err := service.Advance(ctx, rh, app.ID, StatusRejected)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Advance(ctx, rh, app.ID, StatusInterviewWaiting)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidTransition))
		})

		ginkgo.It("promotes the matching client account on acceptance", func() {
			seedUser(ctx, store, "u-1", "1001", auth.GradeClient)
			app := submit("1001")

			_, err := service.Advance(ctx, rh, app.ID, StatusInterviewWaiting)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Advance(ctx, rh, app.ID, StatusAccepted)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			row, ok := store.UserByID("u-1")
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(row.Grade).To(gomega.Equal(auth.GradeEmployee))
		})

		ginkgo.It("leaves staff grades alone on acceptance", func() {
			seedUser(ctx, store, "u-1", "1001", auth.GradeRH)
			app := submit("1001")

			_, err := service.Advance(ctx, rh, app.ID, StatusInterviewWaiting)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Advance(ctx, rh, app.ID, StatusAccepted)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			row, _ := store.UserByID("u-1")
			gomega.Expect(row.Grade).To(gomega.Equal(auth.GradeRH))
		})
	})
})

func seedUser(ctx context.Context, store *storage.Store, id, idPersonnel, grade string) {
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
