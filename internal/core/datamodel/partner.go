package datamodel

import "time"

type Partner struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Nom       string    `json:"nom" gorm:"not null"`
	LogoURL   string    `json:"logo_url" gorm:"column:logo_url"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Partner) TableName() string {
	return "partners"
}
