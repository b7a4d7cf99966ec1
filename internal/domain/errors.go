package domain

import "errors"

// Error kinds for remote-store failures. Every AWS error is converted to one
// of these at the repository boundary; handlers and services match them with
// errors.Is.
var (
	ErrCredentialsMissing = errors.New("aws credentials missing or incomplete")
	ErrAuthFailure        = errors.New("aws authentication failed")
	ErrTableNotFound      = errors.New("catalog table not found")
	ErrCatalogUnavailable = errors.New("catalog store unavailable")
	ErrBlobNotFound       = errors.New("object not found in storage")
	ErrEmptyArchive       = errors.New("no selected photos could be archived")
)
