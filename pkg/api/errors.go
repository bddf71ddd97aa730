package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// genericDetail is used when the server's error body carries no reason.
const genericDetail = "Request failed"

// AuthError is a rejection from the remote API: bad credentials, duplicate
// account, validation failure. Detail carries the server's reason verbatim.
type AuthError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return e.Detail
}

// errorBody is the JSON error shape returned by the remote API.
type errorBody struct {
	Detail string `json:"detail"`
}

// decodeError turns a non-2xx response into an *AuthError, falling back to
// a generic detail when the body carries none.
func decodeError(resp *http.Response) error {
	var body errorBody
	detail := genericDetail
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		detail = body.Detail
	}
	return &AuthError{Status: resp.StatusCode, Detail: detail}
}

// AsAuthError unwraps err to an *AuthError if one is present.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// String formats the error with its HTTP status for logs; Error stays
// verbatim so forms can display the server's reason inline.
func (e *AuthError) String() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
}
