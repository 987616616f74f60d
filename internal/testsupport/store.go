package testsupport

import (
	"context"
	"testing"

	"mediadock/internal/config"
	"mediadock/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewUser creates an active user and returns it together with a fresh token key.
func NewUser(t testing.TB, st *store.Store, username string) (*store.User, string) {
	t.Helper()

	ctx := context.Background()
	user, err := st.CreateUser(ctx, username)
	if err != nil {
		t.Fatalf("store.CreateUser: %v", err)
	}
	token, err := st.CreateToken(ctx, username)
	if err != nil {
		t.Fatalf("store.CreateToken: %v", err)
	}
	return user, token.Key
}
