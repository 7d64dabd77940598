package appointment

import (
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("CanTransition", func() {
	ginkgo.It("answers pending requests", func() {
		gomega.Expect(CanTransition(StatusPending, StatusAccepted)).To(gomega.BeTrue())
		gomega.Expect(CanTransition(StatusPending, StatusRejected)).To(gomega.BeTrue())
		gomega.Expect(CanTransition(StatusPending, StatusCancelled)).To(gomega.BeTrue())
		gomega.Expect(CanTransition(StatusPending, StatusCompleted)).To(gomega.BeFalse())
	})

	ginkgo.It("closes out accepted requests", func() {
		gomega.Expect(CanTransition(StatusAccepted, StatusCompleted)).To(gomega.BeTrue())
		gomega.Expect(CanTransition(StatusAccepted, StatusCancelled)).To(gomega.BeTrue())
		gomega.Expect(CanTransition(StatusAccepted, StatusRejected)).To(gomega.BeFalse())
	})

	ginkgo.It("treats completed, rejected and cancelled as terminal", func() {
		for _, from := range []string{StatusCompleted, StatusRejected, StatusCancelled} {
			for _, to := range []string{StatusPending, StatusAccepted, StatusCompleted, StatusRejected, StatusCancelled} {
				gomega.Expect(CanTransition(from, to)).To(gomega.BeFalse())
			}
		}
	})
})

var _ = ginkgo.Describe("row codec", func() {
	ginkgo.It("round-trips optional fields", func() {
		userID := "u-1"
		directionID := "dir-1"
		responder := "dir-1"
		respondedAt := time.Now().Round(time.Second)

		a := Appointment{
			ID:              "a-1",
			UserID:          &userID,
			IDPersonnel:     "1004",
			Nom:             "Roy",
			Prenom:          "Emma",
			Telephone:       "555-1004",
			DirectionUserID: &directionID,
			DateTime:        time.Now().Add(time.Hour).Round(time.Second),
			Reason:          "entretien",
			Status:          StatusCompleted,
			CreatedAt:       time.Now().Round(time.Second),
			RespondedBy:     &responder,
			RespondedAt:     &respondedAt,
		}

		gomega.Expect(FromRow(ToRow(a))).To(gomega.Equal(a))
	})

	ginkgo.It("keeps nil pointers nil", func() {
		a := Appointment{ID: "a-1", Status: StatusPending}
		back := FromRow(ToRow(a))
		gomega.Expect(back.UserID).To(gomega.BeNil())
		gomega.Expect(back.RespondedBy).To(gomega.BeNil())
		gomega.Expect(back.RespondedAt).To(gomega.BeNil())
	})
})
