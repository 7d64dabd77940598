// Package recruitment implements the season lifecycle and the application
// state machine of the garage's hiring workflow.
package recruitment

import (
	"time"

	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
)

const (
	StatusPending          = "pending"
	StatusInterviewWaiting = "interview_waiting"
	StatusAccepted         = "accepted"
	StatusRejected         = "rejected"
)

// CanAdvance encodes the application state machine: interviews come after
// the initial screening, rejection is reachable from both early states.
func CanAdvance(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusInterviewWaiting || to == StatusRejected
	case StatusInterviewWaiting:
		return to == StatusAccepted || to == StatusRejected
	}
	return false
}

type Session struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsActive  bool       `json:"isActive"`
}

type Application struct {
	ID         string    `json:"id"`
	NomRP      string    `json:"nomRP"`
	PrenomRP   string    `json:"prenomRP"`
	IDJoueur   string    `json:"idJoueur"`
	Motivation string    `json:"motivation"`
	Experience string    `json:"experience"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	SessionID  string    `json:"sessionId"`
}

func SessionFromRow(row datamodel.RecruitmentSession) Session {
	return Session{
		ID:        row.ID,
		Name:      row.Name,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		IsActive:  row.IsActive,
	}
}

func SessionToRow(s Session) datamodel.RecruitmentSession {
	return datamodel.RecruitmentSession{
		ID:        s.ID,
		Name:      s.Name,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		IsActive:  s.IsActive,
	}
}

func SessionsFromRows(rows []datamodel.RecruitmentSession) []Session {
	result := make([]Session, len(rows))
	for i, row := range rows {
		result[i] = SessionFromRow(row)
	}
	return result
}

func ApplicationFromRow(row datamodel.Application) Application {
	return Application{
		ID:         row.ID,
		NomRP:      row.NomRP,
		PrenomRP:   row.PrenomRP,
		IDJoueur:   row.IDJoueur,
		Motivation: row.Motivation,
		Experience: row.Experience,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
		SessionID:  row.SessionID,
	}
}

func ApplicationToRow(a Application) datamodel.Application {
	return datamodel.Application{
		ID:         a.ID,
		NomRP:      a.NomRP,
		PrenomRP:   a.PrenomRP,
		IDJoueur:   a.IDJoueur,
		Motivation: a.Motivation,
		Experience: a.Experience,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
		SessionID:  a.SessionID,
	}
}

func ApplicationsFromRows(rows []datamodel.Application) []Application {
	result := make([]Application, len(rows))
	for i, row := range rows {
		result[i] = ApplicationFromRow(row)
	}
	return result
}
