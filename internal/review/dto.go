package review

import "github.com/acfortier/garage-backoffice/internal"

const maxCommentLength = 250

type SubmitReviewDTO struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

func (dto SubmitReviewDTO) Validate() error {
	if dto.Comment == "" {
		return internal.NewValidationError("comment is required", internal.ErrCodeValidationFailed)
	}
	if len([]rune(dto.Comment)) > maxCommentLength {
		return internal.NewValidationError("comment exceeds 250 characters", internal.ErrCodeCommentTooLong)
	}
	if dto.Rating < 1 || dto.Rating > 5 {
		return internal.NewValidationError("rating must be between 1 and 5", internal.ErrCodeInvalidRating)
	}
	return nil
}
