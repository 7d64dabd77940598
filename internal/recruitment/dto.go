package recruitment

import "github.com/acfortier/garage-backoffice/internal"

type SubmitApplicationDTO struct {
	NomRP      string `json:"nomRP"`
	PrenomRP   string `json:"prenomRP"`
	IDJoueur   string `json:"idJoueur"`
	Motivation string `json:"motivation"`
	Experience string `json:"experience"`
}

func (dto SubmitApplicationDTO) Validate() error {
	if dto.NomRP == "" || dto.PrenomRP == "" {
		return internal.NewValidationError("nomRP and prenomRP are required", internal.ErrCodeValidationFailed)
	}
	if dto.IDJoueur == "" {
		return internal.NewValidationError("idJoueur is required", internal.ErrCodeValidationFailed)
	}
	if dto.Motivation == "" {
		return internal.NewValidationError("motivation is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreateSessionDTO struct {
	Name string `json:"name"`
}

func (dto CreateSessionDTO) Validate() error {
	if dto.Name == "" {
		return internal.NewValidationError("session name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AdvanceApplicationDTO struct {
	Status string `json:"status"`
}
