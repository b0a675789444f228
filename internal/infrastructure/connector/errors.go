package connector

import (
	"errors"
	"fmt"
)

var (
	// ErrUnmappedResource is returned when an entity kind has no REST path
	ErrUnmappedResource = errors.New("no resource registered for entity kind")

	// ErrInvalidPagination is returned when page or per_page is not positive
	ErrInvalidPagination = errors.New("invalid pagination")

	// ErrInvalidQuery is returned when two query keys collide once lower-cased
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnsupportedAuthType is returned for auth types other than wsse and hmac
	ErrUnsupportedAuthType = errors.New("unsupported authentication type")

	// ErrNotPersisted is returned when an operation needs a remote identifier the entity does not have yet
	ErrNotPersisted = errors.New("entity has no remote identifier")
)

// StatusError is returned by FindLinkedEntity when the service answers outside the success set
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %s %s: status=%d, body=%s", e.Method, e.URL, e.StatusCode, truncateString(e.Body, maxBodyLogLength))
}

// IsNotFound reports whether err is a StatusError with status 404
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == 404
}
