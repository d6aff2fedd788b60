package crm

import "errors"

var (
	// ErrClientNotFound is returned when no client matches the lookup email
	ErrClientNotFound = errors.New("client not found")

	// ErrMissingClientID is returned when a lead is created without a client reference
	ErrMissingClientID = errors.New("lead requires a client id")
)
