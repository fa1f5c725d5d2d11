package model

import (
	"fmt"
)

var (
	_ error = UnauthorizedError{}
	_ error = AlreadyRegisteredError{}
	_ error = NotFoundError{}
	_ error = InvalidInputError{}
	_ error = CapacityExceededError{}
)

var (
	ErrMemberAlreadyRegistered  = AlreadyRegisteredError{Entity: KindMember}
	ErrMonitorAlreadyRegistered = AlreadyRegisteredError{Entity: KindMonitor}

	ErrServiceNotFound       = NotFoundError{Entity: KindService}
	ErrMemberNotFound        = NotFoundError{Entity: KindMember}
	ErrMemberServiceNotFound = NotFoundError{Entity: KindMemberService}
	ErrMonitorNotFound       = NotFoundError{Entity: KindMonitor}

	ErrInvalidMemberName  = InvalidInputError{Field: "member name"}
	ErrInvalidAddress     = InvalidInputError{Field: "address"}
	ErrInvalidServiceKind = InvalidInputError{Field: "service kind"}

	ErrHealthChecksFull = CapacityExceededError{Field: "health checks", Max: MaxHealthChecks}

	ErrNotRoot        = UnauthorizedError{Reason: "administrative origin required"}
	ErrNotSigned      = UnauthorizedError{Reason: "signed origin required"}
	ErrForeignMonitor = UnauthorizedError{Reason: "monitors can only register themselves"}
	ErrMintDisabled   = UnauthorizedError{Reason: "mint is available in test mode only"}
)

type UnauthorizedError struct {
	Reason string
}

func (err UnauthorizedError) Error() string {
	return "unauthorized: " + err.Reason
}

type AlreadyRegisteredError struct {
	Entity EntityKind
}

func (err AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("%s already registered", err.Entity)
}

type NotFoundError struct {
	Entity EntityKind
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", err.Entity)
}

type InvalidInputError struct {
	Field string
}

func (err InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s", err.Field)
}

type CapacityExceededError struct {
	Field string
	Max   int
}

func (err CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded for %s: max %d", err.Field, err.Max)
}
