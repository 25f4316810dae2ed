package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NetworkError means the backend could not be reached at all
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServiceError is a non-2xx response. Detail carries the backend's
// {"detail": "..."} message when present.
type ServiceError struct {
	StatusCode int
	Body       string
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

func newServiceError(status int, body []byte) *ServiceError {
	svcErr := &ServiceError{StatusCode: status, Body: strings.TrimSpace(string(body))}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			svcErr.Detail = detail
		} else {
			// validation failures carry a structured detail list
			svcErr.Detail = string(payload.Detail)
		}
	}
	return svcErr
}
