package client

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
)

// ErrLoginRequired is returned before any request is sent when an
// operation needs a token and none is stored.
var ErrLoginRequired = errors.New("login required")

// Error is a failed API call. Message is what a user should see.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status of err, or 0 when it did not come from
// a response.
func StatusOf(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Status
	}
	return 0
}

// messageFromBody prefers msg, then error.message, then fallback.
func messageFromBody(body []byte, fallback string) string {
	var er apitypes.ErrorResponse
	if len(body) > 0 && json.Unmarshal(body, &er) == nil {
		if m := strings.TrimSpace(er.Msg); m != "" {
			return m
		}
		if m := strings.TrimSpace(er.Error.Message); m != "" {
			return m
		}
	}
	return fallback
}
