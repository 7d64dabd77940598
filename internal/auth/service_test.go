package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/acfortier/garage-backoffice/internal"
	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
	"github.com/acfortier/garage-backoffice/internal/core/events"
	"github.com/acfortier/garage-backoffice/internal/storage"
	"github.com/acfortier/garage-backoffice/pkg/logger"
)

// in-memory KV so the service runs against a real local-only store
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

var _ = ginkgo.Describe("AuthService", func() {
	var (
		ctx     context.Context
		kv      *memKV
		store   *storage.Store
		service *Service
	)

	seedUser := func(password string) datamodel.User {
		row := datamodel.User{
			ID:          "u1",
			IDPersonnel: "1001",
			Password:    password,
			Telephone:   "555-0001",
			Prenom:      "Jean",
			Nom:         "Dupont",
			Grade:       GradeClient,
			CreatedAt:   time.Now(),
		}
		gomega.Expect(store.CreateUser(ctx, row)).To(gomega.Succeed())
		return row
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		kv = newMemKV()
		bus := events.NewEventBus(logger.LoggerWrapper())
		store = storage.NewStore(nil, kv, bus, logger.LoggerWrapper())
		store.Load(ctx)

		tokens := NewJWTTokenGenerator(
			"test-access-secret-test-access-secret",
			"test-refresh-secret-test-refresh-secret",
			15*time.Minute, 24*time.Hour)
		service = NewService(store, tokens, "garage123", logger.LoggerWrapper())
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("returns tokens for valid credentials", func() {
			digest, err := HashPassword("secret")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			seedUser(digest)

			row, tokens, err := service.Login(ctx, LoginDTO{IDPersonnel: "1001", Password: "secret"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(row.ID).To(gomega.Equal("u1"))
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
		})

		ginkgo.It("rejects a wrong password", func() {
			digest, err := HashPassword("secret")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			seedUser(digest)

			_, _, err = service.Login(ctx, LoginDTO{IDPersonnel: "1001", Password: "wrong"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("rejects an unknown idPersonnel", func() {
			_, _, err := service.Login(ctx, LoginDTO{IDPersonnel: "9999", Password: "secret"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("transparently upgrades a stored plaintext credential", func() {
			seedUser("secret")

			row, _, err := service.Login(ctx, LoginDTO{IDPersonnel: "1001", Password: "secret"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(strings.HasPrefix(row.Password, "pbkdf2_sha256:")).To(gomega.BeTrue())

			// the upgrade is persisted, not just in the session
			stored, ok := store.UserByID("u1")
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(strings.HasPrefix(stored.Password, "pbkdf2_sha256:")).To(gomega.BeTrue())
			gomega.Expect(VerifyPassword("secret", stored.Password)).To(gomega.BeTrue())
		})

		ginkgo.It("caches the session so it survives a restart", func() {
			digest, err := HashPassword("secret")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			seedUser(digest)

			_, _, err = service.Login(ctx, LoginDTO{IDPersonnel: "1001", Password: "secret"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			restarted := NewService(store, NewJWTTokenGenerator("a-secret-a-secret-a-secret-a-secret", "b-secret-b-secret-b-secret-b-secret", 0, 0), "", logger.LoggerWrapper())
			restarted.RestoreSession()

			current, ok := restarted.CurrentUser()
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(current.ID).To(gomega.Equal("u1"))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("drops the session and the local cache", func() {
			digest, err := HashPassword("secret")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			seedUser(digest)

			_, _, err = service.Login(ctx, LoginDTO{IDPersonnel: "1001", Password: "secret"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			service.Logout()

			_, ok := service.CurrentUser()
			gomega.Expect(ok).To(gomega.BeFalse())
			_, ok = store.LoadCurrentUser()
			gomega.Expect(ok).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("picks up a grade change from the store", func() {
			digest, err := HashPassword("secret")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			row := seedUser(digest)

			_, tokens, err := service.Login(ctx, LoginDTO{IDPersonnel: "1001", Password: "secret"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			row.Grade = GradeEmployee
			gomega.Expect(store.UpdateUser(ctx, row)).To(gomega.Succeed())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(refreshed.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Grade).To(gomega.Equal(GradeEmployee))
		})

		ginkgo.It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})
	})

	ginkgo.Describe("employee gate", func() {
		ginkgo.It("unlocks with the configured shared password only", func() {
			gomega.Expect(service.UnlockEmployeeGate("wrong")).To(gomega.BeFalse())
			gomega.Expect(service.EmployeeGateUnlocked()).To(gomega.BeFalse())

			gomega.Expect(service.UnlockEmployeeGate("garage123")).To(gomega.BeTrue())
			gomega.Expect(service.EmployeeGateUnlocked()).To(gomega.BeTrue())
		})

		ginkgo.It("is disabled when no password is configured", func() {
			disabled := NewService(store, NewJWTTokenGenerator("a-secret-a-secret-a-secret-a-secret", "b-secret-b-secret-b-secret-b-secret", 0, 0), "", logger.LoggerWrapper())
			gomega.Expect(disabled.UnlockEmployeeGate("")).To(gomega.BeFalse())
			gomega.Expect(disabled.UnlockEmployeeGate("anything")).To(gomega.BeFalse())
		})
	})
})
