// Package datamodel holds the row shapes persisted to the remote relational
// store. Columns are snake_case, nullable columns are pointers; domain
// packages convert between these rows and their camelCase entities.
package datamodel

import "time"

type User struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	IDPersonnel string    `json:"id_personnel" gorm:"column:id_personnel;uniqueIndex:uq_users_id_personnel;not null"`
	Password    string    `json:"password" gorm:"not null"`
	Telephone   string    `json:"telephone" gorm:"uniqueIndex:uq_users_telephone;not null"`
	Prenom      string    `json:"prenom" gorm:"not null"`
	Nom         string    `json:"nom" gorm:"not null"`
	Grade       string    `json:"grade" gorm:"not null;default:client"`
	PhotoURL    string    `json:"photo_url" gorm:"column:photo_url"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}
