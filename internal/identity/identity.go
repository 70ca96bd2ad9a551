// Package identity resolves the user on whose behalf the sync engine
// operates. Authentication itself happens elsewhere; this package only
// answers "who is the current user" from whatever credential the host
// application holds.
package identity

import "errors"

// ErrNotAuthenticated is returned when no user can be resolved.
var ErrNotAuthenticated = errors.New("not authenticated")

// Provider resolves the current user ID.
type Provider interface {
	CurrentUserID() (string, error)
}

// Static is a Provider with a fixed user ID, for single-user
// deployments and tests.
type Static struct {
	UserID string
}

// CurrentUserID implements Provider.
func (s Static) CurrentUserID() (string, error) {
	if s.UserID == "" {
		return "", ErrNotAuthenticated
	}
	return s.UserID, nil
}
