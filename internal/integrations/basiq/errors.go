package basiq

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuth        = errors.New("basiq token exchange failed")
	ErrMissingLink = errors.New("no auth link URL in response")
)

// RequestError is returned when the aggregator answers with a non-2xx status.
type RequestError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Payload    json.RawMessage
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message())
}

// Message extracts a readable message from the remote error payload.
func (e *RequestError) Message() string {
	var body struct {
		Message string `json:"message"`
		Data    []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"data"`
	}
	if err := json.Unmarshal(e.Payload, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if len(body.Data) > 0 {
			if body.Data[0].Detail != "" {
				return body.Data[0].Detail
			}
			if body.Data[0].Title != "" {
				return body.Data[0].Title
			}
		}
	}
	if raw := strings.TrimSpace(string(e.Payload)); raw != "" {
		return raw
	}
	return "Request failed"
}
