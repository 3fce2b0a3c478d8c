package errs

import "errors"

var (
	// ErrPackageNotFound is returned when the agent package artifact to
	// deploy is missing from the working directory.
	ErrPackageNotFound = errors.New("agent package file not found")

	ErrInvalidArgument = errors.New("invalid argument")
)
