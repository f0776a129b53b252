package app

import (
	"errors"
	"fmt"
	"net/http"

	"dailynotes/api/internal/ai"
	"dailynotes/api/internal/audio"
	"dailynotes/api/internal/auth"
	"dailynotes/api/internal/authpw"
	"dailynotes/api/internal/session"
	"dailynotes/api/internal/store"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func validationError(message string) *DomainError {
	return domainError(http.StatusBadRequest, "VALIDATION_ERROR", message, nil)
}

// mapError translates service errors into an HTTP status and error body.
// Anything unrecognised is a 500 with a generic message.
func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	case errors.Is(err, store.ErrInvalidWeekRange):
		return http.StatusBadRequest, "VALIDATION_ERROR", "weekEnd must not be before weekStart", nil
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken), errors.Is(err, session.ErrSessionNotFound):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	case errors.Is(err, authpw.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil
	case errors.Is(err, authpw.ErrEmailTaken):
		return http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil
	case errors.Is(err, authpw.ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil
	case errors.Is(err, ai.ErrDisabled):
		return http.StatusServiceUnavailable, "AI_UNAVAILABLE", "AI provider is not configured", nil
	case errors.Is(err, audio.ErrNoChannels), errors.Is(err, audio.ErrBadSampleRate), errors.Is(err, audio.ErrChannelMismatch),
		errors.Is(err, audio.ErrTooManyChannels), errors.Is(err, audio.ErrTooLong), errors.Is(err, errBadPCM):
		return http.StatusBadRequest, "INVALID_AUDIO", err.Error(), nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Internal server error", nil
}
