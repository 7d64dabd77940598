package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
	"github.com/acfortier/garage-backoffice/internal/core/events"
	"github.com/acfortier/garage-backoffice/internal/storage"
	"github.com/acfortier/garage-backoffice/pkg/logger"
)

var _ = ginkgo.Describe("AuthMiddleware", func() {
	var (
		ctx     context.Context
		tokens  *JWTTokenGenerator
		handler *Handler
	)

	const (
		accessSecret  = "test-access-secret-test-access-secret"
		refreshSecret = "test-refresh-secret-test-refresh-secret"
	)

	var seenActor *Actor

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor, ok := ActorFromContext(r.Context()); ok {
			seenActor = &actor
		}
		w.WriteHeader(http.StatusOK)
	})

	serve := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rr := httptest.NewRecorder()
		handler.AuthMiddleware(next).ServeHTTP(rr, req)
		return rr
	}

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		seenActor = nil

		bus := events.NewEventBus(logger.LoggerWrapper())
		store := storage.NewStore(nil, newMemKV(), bus, logger.LoggerWrapper())
		store.Load(ctx)

		gomega.Expect(store.CreateUser(ctx, datamodel.User{
			ID:          "u1",
			IDPersonnel: "1001",
			Password:    "password",
			Telephone:   "555-0001",
			Prenom:      "Jean",
			Nom:         "Dupont",
			Grade:       GradeClient,
			CreatedAt:   time.Now(),
		})).To(gomega.Succeed())

		tokens = NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 24*time.Hour)
		handler = NewHandler(NewService(store, tokens, "", logger.LoggerWrapper()))
	})

	ginkgo.It("rejects a missing bearer token with 401", func() {
		rr := serve("")
		gomega.Expect(rr.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(seenActor).To(gomega.BeNil())
	})

	ginkgo.It("rejects a malformed bearer token with 401", func() {
		rr := serve("Bearer not-a-jwt")
		gomega.Expect(rr.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(seenActor).To(gomega.BeNil())
	})

	ginkgo.It("rejects an expired token with 401", func() {
		stale := NewJWTTokenGenerator(accessSecret, refreshSecret, -time.Minute, 24*time.Hour)
		token, err := stale.GenerateAccessToken("u1", GradeClient)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		rr := serve("Bearer " + token)
		gomega.Expect(rr.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(seenActor).To(gomega.BeNil())
	})

	ginkgo.It("rejects a token for an unknown identity with 401", func() {
		token, err := tokens.GenerateAccessToken("ghost", GradeClient)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		rr := serve("Bearer " + token)
		gomega.Expect(rr.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("admits a valid token and exposes the actor", func() {
		token, err := tokens.GenerateAccessToken("u1", GradeClient)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		rr := serve("Bearer " + token)
		gomega.Expect(rr.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(seenActor).ToNot(gomega.BeNil())
		gomega.Expect(seenActor.UserID).To(gomega.Equal("u1"))
		gomega.Expect(seenActor.Grade).To(gomega.Equal(GradeClient))
	})
})
