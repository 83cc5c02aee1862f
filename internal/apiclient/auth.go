package apiclient

import "net/http"

// Authenticator applies credentials to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request)
}

// BearerAuth sends "Authorization: Bearer <token>".
type BearerAuth struct {
	Token string
}

// Apply implements Authenticator.
func (a BearerAuth) Apply(req *http.Request) {
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}
}

// NoAuth leaves the request untouched.
type NoAuth struct{}

// Apply implements Authenticator.
func (NoAuth) Apply(*http.Request) {}
