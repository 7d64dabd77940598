// Package user implements registration and the policy-gated administration
// of garage accounts.
package user

import (
	"time"

	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
)

// User is the domain shape: camelCase fields, password never serialized.
type User struct {
	ID          string    `json:"id"`
	IDPersonnel string    `json:"idPersonnel"`
	Password    string    `json:"-"`
	Telephone   string    `json:"telephone"`
	Prenom      string    `json:"prenom"`
	Nom         string    `json:"nom"`
	Grade       string    `json:"grade"`
	PhotoURL    string    `json:"photoUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromRow(row datamodel.User) User {
	return User{
		ID:          row.ID,
		IDPersonnel: row.IDPersonnel,
		Password:    row.Password,
		Telephone:   row.Telephone,
		Prenom:      row.Prenom,
		Nom:         row.Nom,
		Grade:       row.Grade,
		PhotoURL:    row.PhotoURL,
		CreatedAt:   row.CreatedAt,
	}
}

func ToRow(u User) datamodel.User {
	return datamodel.User{
		ID:          u.ID,
		IDPersonnel: u.IDPersonnel,
		Password:    u.Password,
		Telephone:   u.Telephone,
		Prenom:      u.Prenom,
		Nom:         u.Nom,
		Grade:       u.Grade,
		PhotoURL:    u.PhotoURL,
		CreatedAt:   u.CreatedAt,
	}
}

func FromRows(rows []datamodel.User) []User {
	result := make([]User, len(rows))
	for i, row := range rows {
		result[i] = FromRow(row)
	}
	return result
}
