// Package apperr defines the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNoSelection       = errors.New("no papers selected")
	ErrSurveyUnavailable = errors.New("survey generation is not configured")
)
