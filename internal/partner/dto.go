package partner

import "github.com/acfortier/garage-backoffice/internal"

type CreatePartnerDTO struct {
	Nom     string `json:"nom"`
	LogoURL string `json:"logoUrl"`
}

func (dto CreatePartnerDTO) Validate() error {
	if dto.Nom == "" {
		return internal.NewValidationError("nom is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdatePartnerDTO struct {
	Nom     *string `json:"nom"`
	LogoURL *string `json:"logoUrl"`
}
