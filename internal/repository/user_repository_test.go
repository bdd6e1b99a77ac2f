package repository_test

import (
	"testing"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/model"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/repository"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/testutil"
)

// TestUserRepository_ListUsers tests user enumeration.
//
// WHY: Every run starts by listing users; an empty table must be a
// successful no-op, not an error.
func TestUserRepository_ListUsers(t *testing.T) {
	t.Run("returns empty slice when no users exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		repo := repository.NewUserRepository(db)
		users, err := repo.ListUsers()
		if err != nil {
			t.Fatalf("ListUsers() returned unexpected error: %v", err)
		}
		if len(users) != 0 {
			t.Errorf("Expected empty slice, got %d users", len(users))
		}
	})

	t.Run("returns all users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		alice := testutil.CreateUser(t, db, "Alice")
		bob := testutil.CreateUser(t, db, "Bob")

		repo := repository.NewUserRepository(db)
		users, err := repo.ListUsers()
		if err != nil {
			t.Fatalf("ListUsers() returned unexpected error: %v", err)
		}

		if len(users) != 2 {
			t.Fatalf("Expected 2 users, got %d", len(users))
		}

		found := map[string]bool{}
		for _, u := range users {
			found[u.ID] = true
		}
		if !found[alice.ID] || !found[bob.ID] {
			t.Errorf("Missing users in results: %+v", users)
		}
	})
}

// TestUserRepository_CreateUser tests user insertion.
func TestUserRepository_CreateUser(t *testing.T) {
	db := testutil.SetupTestDB(t)

	repo := repository.NewUserRepository(db)
	if err := repo.CreateUser(model.User{ID: "u-1", Name: "Alice"}); err != nil {
		t.Fatalf("CreateUser() returned unexpected error: %v", err)
	}

	users, err := repo.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers() returned unexpected error: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Alice" {
		t.Errorf("Unexpected users: %+v", users)
	}
}
