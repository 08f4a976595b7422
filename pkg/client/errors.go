package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// errorMessage extracts a readable message from an error body.
// The backend answers {"detail": "..."}; {"error": "..."} is also accepted.
func errorMessage(body []byte) string {
	var apiErr struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &apiErr) != nil {
		return string(body)
	}
	if apiErr.Error != "" {
		return apiErr.Error
	}
	if len(apiErr.Detail) > 0 {
		var detail string
		if json.Unmarshal(apiErr.Detail, &detail) == nil && detail != "" {
			return detail
		}
		// Validation errors come back as a list of objects.
		return string(apiErr.Detail)
	}
	return string(body)
}
