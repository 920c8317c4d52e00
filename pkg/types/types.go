// Package types holds the HTTP response envelopes shared by handlers and clients.
package types

import (
	"net/http"
	"strings"
)

// Response is a generic wrapper for Huma responses
// Usage: Response[HealthBody] instead of HealthOutput
type Response[T any] struct {
	Body T
}

// OK is embedded in every successful JSON body.
type OK struct {
	Success bool `json:"success" example:"true" doc:"Always true for successful responses"`
}

// Success returns an OK marker set to true.
func Success() OK {
	return OK{Success: true}
}

// EmptyResponse represents a simple success response with a message
type EmptyResponse struct {
	OK
	Message string `json:"message" doc:"Success message" example:"Operation completed successfully"`
}

// Message builds an EmptyResponse.
func Message(msg string) EmptyResponse {
	return EmptyResponse{OK: Success(), Message: msg}
}

// ErrorResponse is the JSON body of every failed request. It implements
// huma.StatusError so it can replace huma.NewError.
type ErrorResponse struct {
	status     int
	Success    bool   `json:"success" example:"false"`
	Message    string `json:"error" doc:"Human-readable error message"`
	Details    string `json:"details,omitempty" doc:"Underlying cause, when available"`
	RetryAfter int    `json:"retryAfter,omitempty" doc:"Seconds to wait before retrying"`
	Remaining  *int   `json:"attemptsRemaining,omitempty" doc:"Verification attempts left"`
}

// NewError has the signature of huma.NewError.
func NewError(status int, msg string, errs ...error) *ErrorResponse {
	var details []string
	for _, err := range errs {
		if err != nil {
			details = append(details, err.Error())
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &ErrorResponse{
		status:  status,
		Success: false,
		Message: msg,
		Details: strings.Join(details, "; "),
	}
}

func (e *ErrorResponse) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// GetStatus returns the HTTP status code.
func (e *ErrorResponse) GetStatus() int {
	return e.status
}
