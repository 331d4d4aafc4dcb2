// Package users tracks registered accounts: identity, confirmation
// status, and who vouched for them. It knows nothing about trading —
// Portfolio creation is lazy and keyed by the same account id, independent
// of registration.
package users

import (
	"fmt"
	"time"

	"ircbook/internal/common"
)

// User is one registered account.
type User struct {
	Name      string
	Confirmed bool
	Born      time.Time
	Promoter  string // who confirmed this user, empty until confirmed
	Nick      string
}

func (u User) String() string {
	status := "unconfirmed"
	if u.Confirmed {
		status = "confirmed by " + u.Promoter
	}
	return fmt.Sprintf("%s (%s)", u.Name, status)
}

// Registry is every registered user, keyed by account id.
type Registry struct {
	users map[string]*User
}

func New() *Registry {
	return &Registry{users: make(map[string]*User)}
}

// Register creates a new user for accountID. Re-registering an existing
// account is a no-op error, not a panic — registration commands arrive
// from an untrusted caller.
func (r *Registry) Register(accountID, nick string) (*User, error) {
	if _, ok := r.users[accountID]; ok {
		return nil, fmt.Errorf("%w: user %q", common.ErrAlreadyExists, accountID)
	}
	u := &User{Name: accountID, Born: time.Now(), Nick: nick}
	r.users[accountID] = u
	return u, nil
}

// Get returns the named user.
func (r *Registry) Get(accountID string) (*User, error) {
	u, ok := r.users[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: user %q", common.ErrNotFound, accountID)
	}
	return u, nil
}

// Confirm marks a user confirmed, recording who did it. Confirming an
// already-confirmed user is rejected rather than silently overwriting the
// original promoter.
func (r *Registry) Confirm(accountID, by string) (*User, error) {
	u, err := r.Get(accountID)
	if err != nil {
		return nil, err
	}
	if u.Confirmed {
		return nil, fmt.Errorf("%w: user %q already confirmed by %s", common.ErrAlreadyExists, u.Name, u.Promoter)
	}
	u.Confirmed = true
	u.Promoter = by
	return u, nil
}

// All returns every registered user.
func (r *Registry) All() []*User {
	out := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out
}
