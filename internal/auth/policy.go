package auth

import "github.com/acfortier/garage-backoffice/internal/core/datamodel"

// Role policy, enforced at the mutation boundary. Handlers may hide
// controls, but every rule here is re-checked in the services.

// CanAccessDashboard allows direction, dev and rh identities, plus the
// legacy employee gate.
func CanAccessDashboard(actor Actor) bool {
	if actor.EmployeeGate {
		return true
	}
	switch actor.Grade {
	case GradeDirection, GradeDev, GradeRH:
		return true
	}
	return false
}

// CanManageUsers excludes rh and the identity-less employee gate.
func CanManageUsers(actor Actor) bool {
	return actor.Grade == GradeDirection || actor.Grade == GradeDev
}

// CanAssignGrade: only a dev identity may hand out the dev grade.
func CanAssignGrade(actor Actor, grade string) bool {
	if grade == GradeDev {
		return actor.Grade == GradeDev
	}
	return CanManageUsers(actor)
}

// CanModifyUser: a dev user's record is only touchable by another dev.
func CanModifyUser(actor Actor, target datamodel.User) bool {
	if target.Grade == GradeDev {
		return actor.Grade == GradeDev
	}
	return CanManageUsers(actor)
}

func CanDeleteUser(actor Actor, target datamodel.User) bool {
	if actor.UserID == target.ID {
		return false
	}
	return CanModifyUser(actor, target)
}

func CanManageTeam(actor Actor) bool {
	return actor.Grade == GradeDirection || actor.Grade == GradeDev
}

func CanManagePartners(actor Actor) bool {
	return actor.Grade == GradeDirection || actor.Grade == GradeDev
}

func CanModerateReviews(actor Actor) bool {
	return actor.Grade == GradeDirection || actor.Grade == GradeDev
}

// CanManageRecruitment covers sessions and application processing; rh is
// recruitment staff.
func CanManageRecruitment(actor Actor) bool {
	switch actor.Grade {
	case GradeDirection, GradeDev, GradeRH:
		return true
	}
	return false
}

// CanSeeAppointment: rh identities only see appointments addressed to them.
func CanSeeAppointment(actor Actor, appt datamodel.Appointment) bool {
	switch actor.Grade {
	case GradeDirection, GradeDev:
		return true
	case GradeRH:
		return appt.DirectionUserID != nil && *appt.DirectionUserID == actor.UserID
	}
	return false
}

func CanRespondAppointment(actor Actor, appt datamodel.Appointment) bool {
	return CanSeeAppointment(actor, appt)
}
