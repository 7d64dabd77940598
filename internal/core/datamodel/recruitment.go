package datamodel

import "time"

type RecruitmentSession struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"not null"`
	StartDate time.Time  `json:"start_date" gorm:"column:start_date"`
	EndDate   *time.Time `json:"end_date" gorm:"column:end_date"`
	IsActive  bool       `json:"is_active" gorm:"column:is_active"`
}

func (RecruitmentSession) TableName() string {
	return "recruitment_sessions"
}

type Application struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	NomRP      string    `json:"nom_rp" gorm:"column:nom_rp;not null"`
	PrenomRP   string    `json:"prenom_rp" gorm:"column:prenom_rp;not null"`
	IDJoueur   string    `json:"id_joueur" gorm:"column:id_joueur;not null"`
	Motivation string    `json:"motivation"`
	Experience string    `json:"experience"`
	Status     string    `json:"status" gorm:"not null;default:pending"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
	SessionID  string    `json:"session_id" gorm:"column:session_id"`
}

func (Application) TableName() string {
	return "applications"
}
