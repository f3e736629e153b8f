package cosmic

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	minErrorStatusCode = 400
	maxErrorBodyBytes  = 4096
)

// APIError is a non-2xx response from the Cosmic API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cosmic API error (%d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("cosmic API error: %d %s", e.StatusCode, e.Status)
}

// IsNotFound reports whether err is the API's "no objects found" response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// parseAPIError turns an error response into an *APIError. It returns nil for
// status codes below 400.
func parseAPIError(resp *http.Response) error {
	if resp.StatusCode < minErrorStatusCode {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("failed to read error response body: %v", err),
		}
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(apiErr.Body)
	}
	return apiErr
}
