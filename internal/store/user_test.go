package store

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/shoplist/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreateHashesPassword(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if u.PasswordHash == "s3cret" {
		t.Fatal("password stored in clear text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")); err != nil {
		t.Errorf("hash does not match password: %v", err)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("alice@example.com", "a"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("alice@example.com", "b"); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestUserGetMissing(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.GetByID(999)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for missing user, got %+v", u)
	}
	ok, err := us.Exists(999)
	if err != nil || ok {
		t.Errorf("Exists(999) = %v, %v; want false, nil", ok, err)
	}
}

func TestEnsureDefaultIsIdempotent(t *testing.T) {
	us := setupUserTestDB(t)

	first, created, err := us.EnsureDefault("user@example.com", "password123")
	if err != nil {
		t.Fatalf("ensure default: %v", err)
	}
	if !created || first.ID != 1 {
		t.Errorf("first = %+v created=%v, want id 1 created", first, created)
	}

	second, created, err := us.EnsureDefault("user@example.com", "other")
	if err != nil {
		t.Fatalf("ensure default again: %v", err)
	}
	if created || second.ID != first.ID {
		t.Errorf("second = %+v created=%v, want existing user", second, created)
	}
}
