package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/sanitizer"
	"github.com/pinakinmistry/reactive-patterns-using-rxjs/core/stream"
)

type account struct {
	user User
	hash []byte
}

// MemoryAuthenticator keeps bcrypt password hashes in memory.
type MemoryAuthenticator struct {
	mu       sync.RWMutex
	accounts map[string]account
	cost     int
}

// NewMemoryAuthenticator returns an empty authenticator hashing with cost.
// A cost of zero means bcrypt.DefaultCost.
func NewMemoryAuthenticator(cost int) *MemoryAuthenticator {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &MemoryAuthenticator{
		accounts: make(map[string]account),
		cost:     cost,
	}
}

// Register adds a user.
func (m *MemoryAuthenticator) Register(name string, creds Credentials) (User, error) {
	if err := sanitizer.SanitizeStruct(&creds); err != nil {
		return User{}, err
	}
	if creds.Email == "" || creds.Password == "" {
		return User{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), m.cost)
	if err != nil {
		return User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[creds.Email]; ok {
		return User{}, ErrUserExists
	}

	u := User{ID: uuid.NewString(), Email: creds.Email, Name: strings.TrimSpace(name)}
	m.accounts[creds.Email] = account{user: u, hash: hash}
	return u, nil
}

// Authenticate implements Authenticator.
func (m *MemoryAuthenticator) Authenticate(ctx context.Context, creds Credentials) stream.Observable[User] {
	return AuthenticatorFunc(m.check).Authenticate(ctx, creds)
}

func (m *MemoryAuthenticator) check(_ context.Context, creds Credentials) (User, error) {
	m.mu.RLock()
	acc, ok := m.accounts[creds.Email]
	m.mu.RUnlock()

	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return acc.user, nil
}
