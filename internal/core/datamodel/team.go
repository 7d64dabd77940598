package datamodel

type TeamMember struct {
	ID     string  `json:"id" gorm:"primaryKey"`
	UserID *string `json:"user_id" gorm:"column:user_id"`
	Prenom string  `json:"prenom" gorm:"not null"`
	Nom    string  `json:"nom" gorm:"not null"`
	Role   string  `json:"role" gorm:"not null"`
	Photo  *string `json:"photo"`
	// display_order because "order" is reserved in SQL
	Order int `json:"display_order" gorm:"column:display_order"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
