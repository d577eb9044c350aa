// Package auth is the mock login/signup flow of the dashboard.
//
// Users are a JSON array under the "users" key of an injected Store and the
// signed-in user is kept under "session". There is exactly one session per
// store; this is a demo, not an identity system.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	usersKey   = "users"
	sessionKey = "session"

	DemoEmail    = "demo@example.com"
	DemoPassword = "password"
	DemoName     = "Demo User"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidInput       = errors.New("name, email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is what callers see; the password hash never leaves the package.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type storedUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

type Service struct {
	store Store
	cost  int
	// serializes read-modify-write of the users array
	mu sync.Mutex
}

// NewService returns a service hashing passwords with the given bcrypt cost.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewService(store Store, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{store: store, cost: cost}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return User{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return User{}, err
	}
	if email == DemoEmail {
		return User{}, ErrUserExists
	}
	for _, u := range users {
		if u.Email == email {
			return User{}, ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u := storedUser{
		User:         User{ID: uuid.NewString(), Name: name, Email: email},
		PasswordHash: string(hash),
	}
	users = append(users, u)
	if err := s.saveUsers(ctx, users); err != nil {
		return User{}, err
	}
	slog.InfoContext(ctx, "User registered", "user_id", u.ID)
	return u.User, nil
}

// Login checks the credentials and, on success, stores the session.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	var user User
	if email == DemoEmail && password == DemoPassword {
		user = DemoUser()
	} else {
		s.mu.Lock()
		users, err := s.loadUsers(ctx)
		s.mu.Unlock()
		if err != nil {
			return User{}, err
		}
		found := false
		for _, u := range users {
			if u.Email != email {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
				user, found = u.User, true
			}
			break
		}
		if !found {
			return User{}, ErrInvalidCredentials
		}
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return User{}, fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, sessionKey, string(raw)); err != nil {
		return User{}, fmt.Errorf("store session: %w", err)
	}
	return user, nil
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx, sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the signed-in user; ok is false when nobody is.
func (s *Service) Current(ctx context.Context) (User, bool, error) {
	raw, ok, err := s.store.Get(ctx, sessionKey)
	if err != nil {
		return User{}, false, fmt.Errorf("load session: %w", err)
	}
	if !ok || raw == "" {
		return User{}, false, nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, false, fmt.Errorf("decode session: %w", err)
	}
	return u, true, nil
}

func DemoUser() User {
	return User{ID: "demo", Name: DemoName, Email: DemoEmail}
}

func (s *Service) loadUsers(ctx context.Context) ([]storedUser, error) {
	raw, ok, err := s.store.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var users []storedUser
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *Service) saveUsers(ctx context.Context, users []storedUser) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.store.Set(ctx, usersKey, string(raw)); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
