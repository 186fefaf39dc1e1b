package user

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/scsmith60/messhall/internal/db"
	"github.com/scsmith60/messhall/internal/model"
)

func newTestRepo(t testing.TB) *DBUserRepository {
	t.Helper()

	db.SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	testDB := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err := testDB.InitDB(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })

	return NewDBUserRepository(testDB)
}

func TestUserUpsertAndGet(t *testing.T) {
	repo := newTestRepo(t)

	u := &model.User{ID: "user-1", Username: "chef_kay", Email: "kay@example.com"}
	if err := repo.Upsert(u); err != nil {
		t.Fatalf("Failed to upsert user: %v", err)
	}

	loaded, err := repo.Get("user-1")
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if loaded.Username != "chef_kay" || loaded.Email != "kay@example.com" {
		t.Errorf("Expected stored fields back, got %+v", loaded)
	}

	t.Run("Repeated webhook delivery updates in place", func(t *testing.T) {
		u.Username = "chef_kay_v2"
		if err := repo.Upsert(u); err != nil {
			t.Fatalf("Failed to re-upsert user: %v", err)
		}

		loaded, err := repo.Get("user-1")
		if err != nil {
			t.Fatalf("Failed to get user: %v", err)
		}
		if loaded.Username != "chef_kay_v2" {
			t.Errorf("Expected updated username, got %q", loaded.Username)
		}
	})
}

func TestUserGetMissing(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserDelete(t *testing.T) {
	repo := newTestRepo(t)

	u := &model.User{ID: "user-1", Username: "chef_kay"}
	if err := repo.Upsert(u); err != nil {
		t.Fatalf("Failed to upsert user: %v", err)
	}

	if err := repo.Delete("user-1"); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}
	if _, err := repo.Get("user-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected user gone, got %v", err)
	}

	// Deleting a missing user is not an error.
	if err := repo.Delete("user-1"); err != nil {
		t.Errorf("Expected repeat delete to be a no-op, got %v", err)
	}
}
