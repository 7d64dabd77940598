// Package appointment manages meeting requests clients address to a member
// of the direction, from booking through response and completion.
package appointment

import (
	"time"

	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
)

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// CanTransition encodes the appointment lifecycle. Rejection only answers a
// pending request; completion and cancellation apply to an accepted one, and
// the requester may also cancel while still pending.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusAccepted || to == StatusRejected || to == StatusCancelled
	case StatusAccepted:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

type Appointment struct {
	ID              string     `json:"id"`
	UserID          *string    `json:"userId"`
	IDPersonnel     string     `json:"idPersonnel"`
	Nom             string     `json:"nom"`
	Prenom          string     `json:"prenom"`
	Telephone       string     `json:"telephone"`
	DirectionUserID *string    `json:"directionUserId"`
	DateTime        time.Time  `json:"dateTime"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	RespondedBy     *string    `json:"respondedBy"`
	RespondedAt     *time.Time `json:"respondedAt"`
}

func FromRow(row datamodel.Appointment) Appointment {
	return Appointment{
		ID:              row.ID,
		UserID:          row.UserID,
		IDPersonnel:     row.IDPersonnel,
		Nom:             row.Nom,
		Prenom:          row.Prenom,
		Telephone:       row.Telephone,
		DirectionUserID: row.DirectionUserID,
		DateTime:        row.DateTime,
		Reason:          row.Reason,
		Status:          row.Status,
		CreatedAt:       row.CreatedAt,
		RespondedBy:     row.RespondedBy,
		RespondedAt:     row.RespondedAt,
	}
}

func ToRow(a Appointment) datamodel.Appointment {
	return datamodel.Appointment{
		ID:              a.ID,
		UserID:          a.UserID,
		IDPersonnel:     a.IDPersonnel,
		Nom:             a.Nom,
		Prenom:          a.Prenom,
		Telephone:       a.Telephone,
		DirectionUserID: a.DirectionUserID,
		DateTime:        a.DateTime,
		Reason:          a.Reason,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		RespondedBy:     a.RespondedBy,
		RespondedAt:     a.RespondedAt,
	}
}

func FromRows(rows []datamodel.Appointment) []Appointment {
	appointments := make([]Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, FromRow(row))
	}
	return appointments
}
