package datamodel

import "time"

type Appointment struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	UserID          *string    `json:"user_id" gorm:"column:user_id"`
	IDPersonnel     string     `json:"id_personnel" gorm:"column:id_personnel"`
	Nom             string     `json:"nom" gorm:"not null"`
	Prenom          string     `json:"prenom" gorm:"not null"`
	Telephone       string     `json:"telephone"`
	DirectionUserID *string    `json:"direction_user_id" gorm:"column:direction_user_id"`
	DateTime        time.Time  `json:"date_time" gorm:"column:date_time"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status" gorm:"not null;default:pending"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at"`
	RespondedBy     *string    `json:"responded_by" gorm:"column:responded_by"`
	RespondedAt     *time.Time `json:"responded_at" gorm:"column:responded_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}
