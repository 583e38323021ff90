package auth

import (
	"context"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

// User is the signed-in identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Anonymous is the user before login and after logout.
var Anonymous = User{}

// LoggedIn reports whether u is a real user.
func (u User) LoggedIn() bool {
	return u.ID != ""
}

// Credentials identify a user at login.
type Credentials struct {
	Email    string `json:"email" sanitize:"email"`
	Password string `json:"-"`
}

// Authenticator checks credentials against an upstream service. The returned
// Observable emits the user once and completes, or fails with
// ErrInvalidCredentials or a transport error.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) stream.Observable[User]
}

// AuthenticatorFunc adapts a blocking function to Authenticator. The function
// runs on its own goroutine and its context is cancelled on unsubscribe.
type AuthenticatorFunc func(ctx context.Context, creds Credentials) (User, error)

// Authenticate implements Authenticator.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, creds Credentials) stream.Observable[User] {
	return stream.FromFunc(ctx, func(ctx context.Context) (User, error) {
		return f(ctx, creds)
	})
}
