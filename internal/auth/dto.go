package auth

import "github.com/acfortier/garage-backoffice/internal"

type LoginDTO struct {
	IDPersonnel string `json:"idPersonnel"`
	Password    string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.IDPersonnel == "" || dto.Password == "" {
		return internal.NewValidationError("idPersonnel and password are required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type EmployeeGateDTO struct {
	Password string `json:"password"`
}
