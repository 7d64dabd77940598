// Package team manages the staff roster shown on the public site. Members
// are created from existing direction or rh accounts and carry an explicit
// display rank.
package team

import (
	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
)

type Member struct {
	ID     string  `json:"id"`
	UserID *string `json:"userId"`
	Prenom string  `json:"prenom"`
	Nom    string  `json:"nom"`
	Role   string  `json:"role"`
	Photo  *string `json:"photo"`
	Order  int     `json:"order"`
}

func FromRow(row datamodel.TeamMember) Member {
	return Member{
		ID:     row.ID,
		UserID: row.UserID,
		Prenom: row.Prenom,
		Nom:    row.Nom,
		Role:   row.Role,
		Photo:  row.Photo,
		Order:  row.Order,
	}
}

func ToRow(m Member) datamodel.TeamMember {
	return datamodel.TeamMember{
		ID:     m.ID,
		UserID: m.UserID,
		Prenom: m.Prenom,
		Nom:    m.Nom,
		Role:   m.Role,
		Photo:  m.Photo,
		Order:  m.Order,
	}
}

func FromRows(rows []datamodel.TeamMember) []Member {
	members := make([]Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, FromRow(row))
	}
	return members
}
