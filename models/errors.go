package models

import "errors"

// Domain sentinel errors. Controllers and the error middleware translate these
// into HTTP responses; the entities themselves never touch HTTP.
var (
	ErrInvalidDateRange    = errors.New("check-out must be after check-in")
	ErrRoomUnavailable     = errors.New("selected room is not available for the given dates")
	ErrMissingSeasonTarget = errors.New("rate season needs a room or a room type")
	ErrInvoiceLocked       = errors.New("invoice is locked")
	ErrNotImplemented      = errors.New("PDF generation not implemented")
)
