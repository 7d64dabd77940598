package appointment

import (
	"time"

	"github.com/acfortier/garage-backoffice/internal"
)

type BookAppointmentDTO struct {
	DirectionUserID string    `json:"directionUserId"`
	DateTime        time.Time `json:"dateTime"`
	Reason          string    `json:"reason"`
}

func (dto BookAppointmentDTO) Validate() error {
	if dto.DirectionUserID == "" {
		return internal.NewValidationError("directionUserId is required", internal.ErrCodeValidationFailed)
	}
	if dto.DateTime.IsZero() {
		return internal.NewValidationError("dateTime is required", internal.ErrCodeValidationFailed)
	}
	if dto.Reason == "" {
		return internal.NewValidationError("reason is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type RespondAppointmentDTO struct {
	Status string `json:"status"`
}
