package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
)

var _ = ginkgo.Describe("Role policy", func() {
	direction := Actor{UserID: "dir", Grade: GradeDirection}
	dev := Actor{UserID: "dev", Grade: GradeDev}
	rh := Actor{UserID: "rh", Grade: GradeRH}
	client := Actor{UserID: "cli", Grade: GradeClient}
	gate := Actor{EmployeeGate: true}

	ginkgo.Describe("CanAccessDashboard", func() {
		ginkgo.It("admits staff grades and the employee gate", func() {
			gomega.Expect(CanAccessDashboard(direction)).To(gomega.BeTrue())
			gomega.Expect(CanAccessDashboard(dev)).To(gomega.BeTrue())
			gomega.Expect(CanAccessDashboard(rh)).To(gomega.BeTrue())
			gomega.Expect(CanAccessDashboard(gate)).To(gomega.BeTrue())
			gomega.Expect(CanAccessDashboard(client)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("CanManageUsers", func() {
		ginkgo.It("excludes rh and the identity-less gate", func() {
			gomega.Expect(CanManageUsers(direction)).To(gomega.BeTrue())
			gomega.Expect(CanManageUsers(dev)).To(gomega.BeTrue())
			gomega.Expect(CanManageUsers(rh)).To(gomega.BeFalse())
			gomega.Expect(CanManageUsers(gate)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("CanAssignGrade", func() {
		ginkgo.It("reserves the dev grade for dev actors", func() {
			gomega.Expect(CanAssignGrade(direction, GradeDev)).To(gomega.BeFalse())
			gomega.Expect(CanAssignGrade(dev, GradeDev)).To(gomega.BeTrue())
			gomega.Expect(CanAssignGrade(direction, GradeRH)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("CanModifyUser", func() {
		ginkgo.It("makes dev records untouchable for non-dev actors", func() {
			devRow := datamodel.User{ID: "x", Grade: GradeDev}
			clientRow := datamodel.User{ID: "y", Grade: GradeClient}

			gomega.Expect(CanModifyUser(direction, devRow)).To(gomega.BeFalse())
			gomega.Expect(CanModifyUser(dev, devRow)).To(gomega.BeTrue())
			gomega.Expect(CanModifyUser(direction, clientRow)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("CanDeleteUser", func() {
		ginkgo.It("never allows self-deletion", func() {
			self := datamodel.User{ID: "dir", Grade: GradeDirection}
			gomega.Expect(CanDeleteUser(direction, self)).To(gomega.BeFalse())

			other := datamodel.User{ID: "z", Grade: GradeClient}
			gomega.Expect(CanDeleteUser(direction, other)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("CanSeeAppointment", func() {
		ginkgo.It("restricts rh to appointments addressed to them", func() {
			rhID := "rh"
			otherID := "someone-else"
			addressed := datamodel.Appointment{ID: "a1", DirectionUserID: &rhID}
			foreign := datamodel.Appointment{ID: "a2", DirectionUserID: &otherID}
			unaddressed := datamodel.Appointment{ID: "a3"}

			gomega.Expect(CanSeeAppointment(rh, addressed)).To(gomega.BeTrue())
			gomega.Expect(CanSeeAppointment(rh, foreign)).To(gomega.BeFalse())
			gomega.Expect(CanSeeAppointment(rh, unaddressed)).To(gomega.BeFalse())

			gomega.Expect(CanSeeAppointment(direction, foreign)).To(gomega.BeTrue())
			gomega.Expect(CanSeeAppointment(dev, foreign)).To(gomega.BeTrue())
			gomega.Expect(CanSeeAppointment(client, foreign)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("CanManageRecruitment", func() {
		ginkgo.It("includes rh as recruitment staff", func() {
			gomega.Expect(CanManageRecruitment(rh)).To(gomega.BeTrue())
			gomega.Expect(CanManageRecruitment(direction)).To(gomega.BeTrue())
			gomega.Expect(CanManageRecruitment(client)).To(gomega.BeFalse())
			gomega.Expect(CanManageRecruitment(gate)).To(gomega.BeFalse())
		})
	})
})
