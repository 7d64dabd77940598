// Package partner manages the partner logos shown on the public site.
package partner

import (
	"time"

	"github.com/acfortier/garage-backoffice/internal/core/datamodel"
)

type Partner struct {
	ID        string    `json:"id"`
	Nom       string    `json:"nom"`
	LogoURL   string    `json:"logoUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromRow(row datamodel.Partner) Partner {
	return Partner{
		ID:        row.ID,
		Nom:       row.Nom,
		LogoURL:   row.LogoURL,
		CreatedAt: row.CreatedAt,
	}
}

func ToRow(p Partner) datamodel.Partner {
	return datamodel.Partner{
		ID:        p.ID,
		Nom:       p.Nom,
		LogoURL:   p.LogoURL,
		CreatedAt: p.CreatedAt,
	}
}

func FromRows(rows []datamodel.Partner) []Partner {
	partners := make([]Partner, 0, len(rows))
	for _, row := range rows {
		partners = append(partners, FromRow(row))
	}
	return partners
}
