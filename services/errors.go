package services

import "errors"

// ErrInvalidProfile marks a request whose profile is missing one of the
// three required phrase lists. It is raised before any embedding work and
// surfaces to the caller as a validation error.
var ErrInvalidProfile = errors.New("missing required fields: goals, physical_issues, or mental_issues")
