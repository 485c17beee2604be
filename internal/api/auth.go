package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// Authenticator resolves a verified user identity from a request.
// Credential verification itself is an external concern; implementations
// wrap whatever token scheme the deployment uses.
type Authenticator interface {
	// Authenticate returns the caller's user id, or 0 if the request
	// carries no valid identity.
	Authenticate(r *http.Request) int64
}

// DevAuth reads the user id directly from "Authorization: Token <id>".
// A development stand-in for a real token verifier - it performs no
// verification whatsoever and must never be deployed.
type DevAuth struct{}

// Authenticate implements Authenticator.
func (DevAuth) Authenticate(r *http.Request) int64 {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Token ")
	if !ok {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

type ctxKey int8

const ctxKeyUserID ctxKey = iota

// withUser stores the viewer id (0 = anonymous) on every request, and
// requireUser gates protected routes.
func (s *Server) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := s.auth.Authenticate(r)
		ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userFrom(r) == 0 {
			s.render(w, r, ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// userFrom returns the viewer id from the request context, 0 if anonymous.
func userFrom(r *http.Request) int64 {
	id, _ := r.Context().Value(ctxKeyUserID).(int64)
	return id
}
