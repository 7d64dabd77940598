package team

import "github.com/acfortier/garage-backoffice/internal"

type CreateMemberDTO struct {
	UserID string  `json:"userId"`
	Role   string  `json:"role"`
	Photo  *string `json:"photo"`
}

func (dto CreateMemberDTO) Validate() error {
	if dto.UserID == "" {
		return internal.NewValidationError("userId is required", internal.ErrCodeValidationFailed)
	}
	if dto.Role == "" {
		return internal.NewValidationError("role is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateMemberDTO struct {
	Role  *string `json:"role"`
	Photo *string `json:"photo"`
}

// MoveMemberDTO moves a member one rank up or down.
type MoveMemberDTO struct {
	Direction string `json:"direction"`
}

func (dto MoveMemberDTO) Validate() error {
	if dto.Direction != "up" && dto.Direction != "down" {
		return internal.NewValidationError("direction must be \"up\" or \"down\"", internal.ErrCodeValidationFailed)
	}
	return nil
}
