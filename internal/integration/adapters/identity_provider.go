package adapters

import (
	"context"
	"sync"

	"github.com/ecovekt/backend/internal/application/adapter"
)

type userIDContextKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext returns the user id stored by WithUserID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey{}).(string)
	return userID, ok && userID != ""
}

// contextIdentity implements adapter.IdentityProvider for request-scoped
// identities. The identity of a request never changes, so listeners are
// never called.
type contextIdentity struct{}

// NewContextIdentityProvider returns a provider reading the user id set on the
// request context by the auth middleware.
func NewContextIdentityProvider() adapter.IdentityProvider {
	return contextIdentity{}
}

// CurrentUserID returns the user id carried by ctx.
func (contextIdentity) CurrentUserID(ctx context.Context) (string, bool) {
	return UserIDFromContext(ctx)
}

// OnIdentityChange is a no-op for request-scoped identities.
func (contextIdentity) OnIdentityChange(adapter.IdentityListener) func() {
	return func() {}
}

// TokenIdentityProvider implements adapter.IdentityProvider on top of a stored
// access token. Replacing the token notifies the registered listeners.
type TokenIdentityProvider struct {
	mu        sync.RWMutex
	userID    string
	listeners map[int]adapter.IdentityListener
	nextID    int
}

// NewTokenIdentityProvider creates a provider for token. An empty or
// unreadable token means nobody is signed in.
func NewTokenIdentityProvider(token string) *TokenIdentityProvider {
	p := &TokenIdentityProvider{
		listeners: make(map[int]adapter.IdentityListener),
	}
	p.userID = userIDFromToken(token)
	return p
}

// CurrentUserID returns the id carried by the current token.
func (p *TokenIdentityProvider) CurrentUserID(context.Context) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.userID, p.userID != ""
}

// OnIdentityChange registers listener for identity changes.
func (p *TokenIdentityProvider) OnIdentityChange(listener adapter.IdentityListener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// SetToken replaces the token. Listeners are called only when the user id changes.
func (p *TokenIdentityProvider) SetToken(token string) {
	userID := userIDFromToken(token)

	p.mu.Lock()
	if userID == p.userID {
		p.mu.Unlock()
		return
	}
	p.userID = userID
	listeners := make([]adapter.IdentityListener, 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(userID, userID != "")
	}
}

func userIDFromToken(token string) string {
	if token == "" {
		return ""
	}
	claims, err := ParseUnverifiedClaims(token)
	if err != nil {
		return ""
	}
	return claims.UserID
}
