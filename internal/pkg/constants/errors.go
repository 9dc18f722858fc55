package constants

import (
	"net/http"
)

type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound        = NewCodedError("not found", http.StatusNotFound)
	ErrUnauthorized      = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrBadRequest        = NewCodedError("bad request", http.StatusBadRequest)
	ErrInvalidTimeRange  = NewCodedError("time_initial must not be after time_final", http.StatusBadRequest)
	ErrUnknownMapView    = NewCodedError("unknown map view", http.StatusBadRequest)
	ErrUnknownGraphView  = NewCodedError("unknown graph view", http.StatusBadRequest)
	ErrUnknownMarker     = NewCodedError("unknown resistance marker", http.StatusBadRequest)
	ErrTooManyGenotypes  = NewCodedError("too many genotypes selected", http.StatusBadRequest)
	ErrInvalidSample     = NewCodedError("invalid sample record", http.StatusUnprocessableEntity)
	ErrNoBackfillSources = NewCodedError("no backfill sources configured", http.StatusBadRequest)
)
