package datamodel

import "time"

type ClientReview struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      *string    `json:"user_id" gorm:"column:user_id"`
	Nom         string     `json:"nom" gorm:"not null"`
	Prenom      string     `json:"prenom" gorm:"not null"`
	IDPersonnel string     `json:"id_personnel" gorm:"column:id_personnel"`
	Comment     string     `json:"comment" gorm:"not null"`
	Rating      int        `json:"rating" gorm:"not null"`
	Status      string     `json:"status" gorm:"not null;default:pending"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	ApprovedBy  *string    `json:"approved_by" gorm:"column:approved_by"`
	ApprovedAt  *time.Time `json:"approved_at" gorm:"column:approved_at"`
}

func (ClientReview) TableName() string {
	return "client_reviews"
}
