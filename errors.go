package ibp

import "github.com/horockey/ibp/internal/model"

type (
	UnauthorizedError      = model.UnauthorizedError
	AlreadyRegisteredError = model.AlreadyRegisteredError
	NotFoundError          = model.NotFoundError
	InvalidInputError      = model.InvalidInputError
	CapacityExceededError  = model.CapacityExceededError
)

var (
	ErrMemberAlreadyRegistered  = model.ErrMemberAlreadyRegistered
	ErrMonitorAlreadyRegistered = model.ErrMonitorAlreadyRegistered

	ErrServiceNotFound       = model.ErrServiceNotFound
	ErrMemberNotFound        = model.ErrMemberNotFound
	ErrMemberServiceNotFound = model.ErrMemberServiceNotFound
	ErrMonitorNotFound       = model.ErrMonitorNotFound

	ErrInvalidMemberName  = model.ErrInvalidMemberName
	ErrInvalidAddress     = model.ErrInvalidAddress
	ErrInvalidServiceKind = model.ErrInvalidServiceKind

	ErrHealthChecksFull = model.ErrHealthChecksFull

	ErrNotRoot        = model.ErrNotRoot
	ErrNotSigned      = model.ErrNotSigned
	ErrForeignMonitor = model.ErrForeignMonitor
	ErrMintDisabled   = model.ErrMintDisabled
)
