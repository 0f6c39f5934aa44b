package service

import "errors"

// Sentinel errors surfaced to the HTTP layer. Authentication failures never
// distinguish an unknown username from a wrong password, and policy denials
// carry no detail about which rule failed.
var (
	ErrInvalidCredentials     = errors.New("invalid_credentials")
	ErrNotAuthenticated       = errors.New("not_authenticated")
	ErrSecondFactorNotEnabled = errors.New("second_factor_not_enabled")
	ErrInvalidSecondFactor    = errors.New("invalid_second_factor")
	ErrForbidden              = errors.New("forbidden")
	ErrCommentsClosed         = errors.New("comments_closed")
	ErrInvalidInput           = errors.New("invalid_input")
)
