package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrInvalidInput = crerr.New("invalid input")
	ErrNotFound     = crerr.New("not found")
	ErrUnauthorized = crerr.New("unauthorized")

	// ErrUpstream marks a logical rejection reported inside the provider's
	// error envelope; ErrTransport marks everything below that (connection,
	// read, non-2xx status, undecodable payload).
	ErrUpstream              = crerr.New("upstream provider failure")
	ErrTransport             = crerr.New("provider transport failure")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)
