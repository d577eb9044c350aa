package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	return NewService(store, bcrypt.MinCost), store
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	u, err := svc.Register(ctx, "Ada", "Ada@Example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEmpty(t, u.ID)

	raw, ok, err := store.Get(ctx, usersKey)
	require.NoError(t, err)
	require.True(t, ok)
	var stored []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 1)
	assert.NotEqual(t, "s3cret", stored[0]["passwordHash"])

	_, err = svc.Register(ctx, "Other", "ADA@example.com ", "x")
	assert.ErrorIs(t, err, ErrUserExists)

	got, err := svc.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	cur, ok, err := svc.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u, cur)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for _, in := range [][3]string{
		{"", "a@b.c", "pw"},
		{"A", " ", "pw"},
		{"A", "a@b.c", ""},
	} {
		_, err := svc.Register(ctx, in[0], in[1], in[2])
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	_, err := svc.Register(ctx, "Demo", DemoEmail, "pw")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, err := svc.Register(ctx, "Ada", "ada@example.com", "right")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, DemoEmail, "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, ok, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDemoLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, DemoName, u.Name)

	require.NoError(t, svc.Logout(ctx))
	_, ok, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingStore struct{ *MemoryStore }

func (failingStore) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestStoreErrorsPropagate(t *testing.T) {
	svc := NewService(failingStore{NewMemoryStore()}, bcrypt.MinCost)
	_, err := svc.Register(context.Background(), "A", "a@b.c", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save users")
}
