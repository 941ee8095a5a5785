package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hackdesk/hackdesk-api/pkg/session"
)

// AuthAPI covers credential exchange and identity lookup.
type AuthAPI struct {
	client *Client
}

// Registration is the payload for account creation.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Phone     string `json:"phone"`
	Role      string `json:"role,omitempty"`
}

type authPayload struct {
	Token string           `json:"token"`
	User  session.Identity `json:"user"`
}

// Login exchanges credentials for a bearer token and stores the resulting
// session.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (session.Identity, error) {
	payload := map[string]string{"email": email, "password": password}
	return a.establish(ctx, "/auth/login", payload)
}

// Register creates an account and stores the resulting session.
func (a *AuthAPI) Register(ctx context.Context, registration Registration) (session.Identity, error) {
	return a.establish(ctx, "/auth/register", registration)
}

func (a *AuthAPI) establish(ctx context.Context, path string, payload interface{}) (session.Identity, error) {
	var auth authPayload
	if err := a.client.do(ctx, http.MethodPost, path, payload, &auth); err != nil {
		return session.Identity{}, err
	}
	if auth.Token == "" {
		return session.Identity{}, &Error{Kind: KindTransportFailure, Message: "credential missing from response"}
	}
	if err := a.client.store.SetAuth(auth.Token, auth.User); err != nil {
		return session.Identity{}, fmt.Errorf("failed to store session: %w", err)
	}

	identity, _ := a.client.store.Identity()
	return identity, nil
}

// Logout invalidates the session server-side and always clears it locally.
// A rejected credential counts as success since the session is gone either
// way.
func (a *AuthAPI) Logout(ctx context.Context) error {
	if !a.client.store.Authenticated() {
		return a.client.store.ClearAuth()
	}

	err := a.client.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindAuthDenied {
		err = nil
	}

	if clearErr := a.client.store.ClearAuth(); clearErr != nil {
		return clearErr
	}
	return err
}

// CurrentUser fetches the identity behind the stored credential.
func (a *AuthAPI) CurrentUser(ctx context.Context) (session.Identity, error) {
	if err := a.client.requireAuth(); err != nil {
		return session.Identity{}, err
	}

	var identity session.Identity
	if err := a.client.do(ctx, http.MethodGet, "/auth/user", nil, &identity); err != nil {
		return session.Identity{}, err
	}
	return identity, nil
}
