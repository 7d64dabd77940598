// Package review holds the client review moderation flow: clients leave one
// pending review at a time, direction or dev approves or rejects it.
package review

import (
	"time"

	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Review struct {
	ID          string     `json:"id"`
	UserID      *string    `json:"userId"`
	Nom         string     `json:"nom"`
	Prenom      string     `json:"prenom"`
	IDPersonnel string     `json:"idPersonnel"`
	Comment     string     `json:"comment"`
	Rating      int        `json:"rating"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ApprovedBy  *string    `json:"approvedBy"`
	ApprovedAt  *time.Time `json:"approvedAt"`
}

func FromRow(row datamodel.ClientReview) Review {
	return Review{
		ID:          row.ID,
		UserID:      row.UserID,
		Nom:         row.Nom,
		Prenom:      row.Prenom,
		IDPersonnel: row.IDPersonnel,
		Comment:     row.Comment,
		Rating:      row.Rating,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		ApprovedBy:  row.ApprovedBy,
		ApprovedAt:  row.ApprovedAt,
	}
}

func ToRow(r Review) datamodel.ClientReview {
	return datamodel.ClientReview{
		ID:          r.ID,
		UserID:      r.UserID,
		Nom:         r.Nom,
		Prenom:      r.Prenom,
		IDPersonnel: r.IDPersonnel,
		Comment:     r.Comment,
		Rating:      r.Rating,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		ApprovedBy:  r.ApprovedBy,
		ApprovedAt:  r.ApprovedAt,
	}
}

func FromRows(rows []datamodel.ClientReview) []Review {
	reviews := make([]Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, FromRow(row))
	}
	return reviews
}
