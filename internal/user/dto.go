package user

import "github.com/acfortier/garage-backoffice/internal"

type RegisterDTO struct {
	IDPersonnel string `json:"idPersonnel"`
	Password    string `json:"password"`
	Telephone   string `json:"telephone"`
	Prenom      string `json:"prenom"`
	Nom         string `json:"nom"`
	PhotoURL    string `json:"photoUrl"`
}

func (dto RegisterDTO) Validate() error {
	if dto.IDPersonnel == "" {
		return internal.NewValidationError("idPersonnel is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Password) < 4 {
		return internal.NewValidationError("password must be at least 4 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Telephone == "" {
		return internal.NewValidationError("telephone is required", internal.ErrCodeValidationFailed)
	}
	if dto.Prenom == "" || dto.Nom == "" {
		return internal.NewValidationError("prenom and nom are required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// AdminUpdateDTO carries the fields an administrator may change. Pointer
// fields are applied only when present.
type AdminUpdateDTO struct {
	Telephone *string `json:"telephone"`
	Prenom    *string `json:"prenom"`
	Nom       *string `json:"nom"`
	Grade     *string `json:"grade"`
	PhotoURL  *string `json:"photoUrl"`
	Password  *string `json:"password"`
}
