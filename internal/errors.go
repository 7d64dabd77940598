package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRating    ErrorCode = "INVALID_RATING"
	ErrCodeCommentTooLong   ErrorCode = "COMMENT_TOO_LONG"
	ErrCodeInvalidGrade     ErrorCode = "INVALID_GRADE"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	// Uniqueness conflicts name the conflicting field so forms can point
	// at the right input.
	ErrCodeDuplicateIDPersonnel ErrorCode = "DUPLICATE_ID_PERSONNEL"
	ErrCodeDuplicateTelephone   ErrorCode = "DUPLICATE_TELEPHONE"
	ErrCodePendingExists        ErrorCode = "PENDING_ALREADY_EXISTS"

	ErrCodeProtected          ErrorCode = "PROTECTED"
	ErrCodeSelfDelete         ErrorCode = "SELF_DELETE"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeReviewNotFound      ErrorCode = "REVIEW_NOT_FOUND"
	ErrCodeAppointmentNotFound ErrorCode = "APPOINTMENT_NOT_FOUND"
	ErrCodeTeamMemberNotFound  ErrorCode = "TEAM_MEMBER_NOT_FOUND"
	ErrCodePartnerNotFound     ErrorCode = "PARTNER_NOT_FOUND"
)

// AppError is the discriminated result every refusable mutation returns.
// Callers branch on Code; handlers map StatusCode onto the wire.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Field      string      `json:"field,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewConflictError reports a uniqueness violation; field names the
// conflicting attribute ("id_personnel" or "telephone").
func NewConflictError(message string, code ErrorCode, field string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		Field:      field,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrDuplicateIDPersonnel = NewConflictError("id personnel already in use", ErrCodeDuplicateIDPersonnel, "id_personnel")
	ErrDuplicateTelephone   = NewConflictError("telephone already in use", ErrCodeDuplicateTelephone, "telephone")

	// ErrProtected is the generic role-policy denial. It is a result, not
	// an exception: services return it and keep running.
	ErrProtected  = NewForbiddenError("operation not allowed for this identity", ErrCodeProtected)
	ErrSelfDelete = NewForbiddenError("cannot delete the active identity", ErrCodeSelfDelete)

	ErrInvalidCredentials = NewUnauthorizedError("invalid id personnel or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)

	ErrUserNotFound        = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrApplicationNotFound = NewNotFoundError("application not found", ErrCodeApplicationNotFound)
	ErrSessionNotFound     = NewNotFoundError("recruitment session not found", ErrCodeSessionNotFound)
	ErrReviewNotFound      = NewNotFoundError("review not found", ErrCodeReviewNotFound)
	ErrAppointmentNotFound = NewNotFoundError("appointment not found", ErrCodeAppointmentNotFound)
	ErrTeamMemberNotFound  = NewNotFoundError("team member not found", ErrCodeTeamMemberNotFound)
	ErrPartnerNotFound     = NewNotFoundError("partner not found", ErrCodePartnerNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Field   string      `json:"field,omitempty"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Field:   e.Field,
		Details: e.Details,
	})
}
