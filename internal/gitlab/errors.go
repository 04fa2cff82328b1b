package gitlab

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("gitlab: unauthorized")
	ErrNotFound     = errors.New("gitlab: not found")
)

// APIError is a non-2xx response from the GitLab API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gitlab api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("gitlab api error: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
