package dto

import (
	"errors"
	"net/http"

	"github.com/horockey/ibp/internal/model"
)

const (
	CodeUnauthorized      = "unauthorized"
	CodeAlreadyRegistered = "already_registered"
	CodeNotFound          = "not_found"
	CodeInvalidInput      = "invalid_input"
	CodeCapacityExceeded  = "capacity_exceeded"
	CodeInternal          = "internal"
)

type Error struct {
	Code    string           `json:"code"`
	Entity  model.EntityKind `json:"entity,omitempty"`
	Field   string           `json:"field,omitempty"`
	Max     int              `json:"max,omitempty"`
	Reason  string           `json:"reason,omitempty"`
	Message string           `json:"message"`
}

// NewError classifies err and picks the response status for it.
// Messages of internal errors are not exposed.
func NewError(err error) (int, Error) {
	var (
		unauthorized      model.UnauthorizedError
		alreadyRegistered model.AlreadyRegisteredError
		notFound          model.NotFoundError
		invalidInput      model.InvalidInputError
		capacityExceeded  model.CapacityExceededError
	)

	switch {
	case errors.As(err, &unauthorized):
		return http.StatusForbidden, Error{Code: CodeUnauthorized, Reason: unauthorized.Reason, Message: err.Error()}
	case errors.As(err, &alreadyRegistered):
		return http.StatusConflict, Error{Code: CodeAlreadyRegistered, Entity: alreadyRegistered.Entity, Message: err.Error()}
	case errors.As(err, &notFound):
		return http.StatusNotFound, Error{Code: CodeNotFound, Entity: notFound.Entity, Message: err.Error()}
	case errors.As(err, &invalidInput):
		return http.StatusBadRequest, Error{Code: CodeInvalidInput, Field: invalidInput.Field, Message: err.Error()}
	case errors.As(err, &capacityExceeded):
		return http.StatusUnprocessableEntity, Error{
			Code:    CodeCapacityExceeded,
			Field:   capacityExceeded.Field,
			Max:     capacityExceeded.Max,
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, Error{Code: CodeInternal, Message: http.StatusText(http.StatusInternalServerError)}
	}
}

// ErrorToModel restores the typed error described by e.
// Internal errors come back as plain errors carrying the message.
func ErrorToModel(e Error) error {
	switch e.Code {
	case CodeUnauthorized:
		return model.UnauthorizedError{Reason: e.Reason}
	case CodeAlreadyRegistered:
		return model.AlreadyRegisteredError{Entity: e.Entity}
	case CodeNotFound:
		return model.NotFoundError{Entity: e.Entity}
	case CodeInvalidInput:
		return model.InvalidInputError{Field: e.Field}
	case CodeCapacityExceeded:
		return model.CapacityExceededError{Field: e.Field, Max: e.Max}
	default:
		return errors.New(e.Message)
	}
}
