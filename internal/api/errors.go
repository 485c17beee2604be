package api

import (
	"net/http"

	"github.com/go-chi/render"

	"conduit/internal/engine"
)

// ErrResponse is the renderer for all error payloads.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	ErrorText  string `json:"error,omitempty"` // application-level error message
}

// Render implements render.Renderer.
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// ErrInvalidRequest maps a malformed request body to 422.
func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

// ErrUnauthorized is returned when a protected route has no verified
// caller identity.
var ErrUnauthorized = &ErrResponse{
	HTTPStatusCode: http.StatusUnauthorized,
	StatusText:     "Unauthorized.",
}

// ErrDomain maps an engine error to its HTTP shape. Unexpected errors
// (no domain code) become 500 without leaking the underlying message.
func ErrDomain(err error) render.Renderer {
	switch engine.CodeOf(err) {
	case engine.CodeNotFound:
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusNotFound,
			StatusText: "Resource not found.", ErrorText: err.Error()}
	case engine.CodeForbidden:
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusForbidden,
			StatusText: "Forbidden.", ErrorText: err.Error()}
	case engine.CodeConflict:
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusConflict,
			StatusText: "Conflict.", ErrorText: err.Error()}
	case engine.CodeValidation:
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusUnprocessableEntity,
			StatusText: "Invalid request.", ErrorText: err.Error()}
	default:
		return &ErrResponse{Err: err, HTTPStatusCode: http.StatusInternalServerError,
			StatusText: "Internal error."}
	}
}
