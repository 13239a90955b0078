package adapter

import "context"

// IdentityListener is notified with the new user id (ok=false when signed out).
type IdentityListener func(userID string, ok bool)

// IdentityProvider is the source of the current user's stable identifier.
type IdentityProvider interface {
	// CurrentUserID returns the signed-in user's id, or ok=false when nobody is signed in.
	CurrentUserID(ctx context.Context) (userID string, ok bool)

	// OnIdentityChange registers a listener and returns a function that removes it.
	OnIdentityChange(listener IdentityListener) (unsubscribe func())
}
