package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const failedToInitDB = "Failed to initialize database: %v"

const select1 = `SELECT 1`
const insertUserUsername = `INSERT INTO users (id, username) VALUES (?, ?)`

const testEmail = "test@example.com"

func newTestDB(t testing.TB) *SQLite {
	t.Helper()

	logger := zerolog.New(os.Stdout).Level(zerolog.ErrorLevel)
	SetLogger(logger)

	db := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSetLogger(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	SetLogger(logger)

	// Verify logger is set (we can't easily compare loggers directly)
	// This test mainly ensures the function doesn't panic
}

func TestNewSQLite(t *testing.T) {
	db := NewSQLite("./messhall.db")

	if db == nil {
		t.Fatal("Expected non-nil SQLite instance")
	}

	if db.conn != nil {
		t.Error("Expected connection to be nil initially")
	}

	if db.path != "./messhall.db" {
		t.Errorf("Expected path to be retained, got %q", db.path)
	}
}

func TestSQLiteBasicOperations(t *testing.T) {
	db := newTestDB(t)

	t.Run("InitDB creates tables", func(t *testing.T) {
		err := db.InitDB()
		if err != nil {
			t.Fatalf(failedToInitDB, err)
		}

		// Verify connection is established
		if db.Get() == nil {
			t.Error("Expected database connection to be established")
		}

		// Test that we can ping the database
		if err := db.Get().Ping(); err != nil {
			t.Errorf("Failed to ping database: %v", err)
		}
	})

	t.Run("Verify tables are created", func(t *testing.T) {
		// Check that expected tables exist
		tables := []string{
			"users", "recipes", "recipe_steps", "recipe_ingredients",
			"comments", "notifications", "sponsored_slots",
		}

		for _, table := range tables {
			query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
			rows, err := db.Query(query, table)
			if err != nil {
				t.Errorf("Failed to query for table %s: %v", table, err)
				continue
			}

			if !rows.Next() {
				t.Errorf("Expected table %s to exist", table)
			}
			rows.Close()
		}
	})

	t.Run("Verify table schemas", func(t *testing.T) {
		// Test users table schema
		rows, err := db.Query("PRAGMA table_info(users)")
		if err != nil {
			t.Fatalf("Failed to get users table info: %v", err)
		}
		defer rows.Close()

		userColumns := make(map[string]bool)
		for rows.Next() {
			var cid int
			var name, dataType string
			var notNull, pk int
			var defaultValue sql.NullString

			err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk)
			if err != nil {
				t.Errorf("Failed to scan column info: %v", err)
				continue
			}
			userColumns[name] = true
		}

		expectedUserColumns := []string{"id", "username", "email", "created_at"}
		for _, col := range expectedUserColumns {
			if !userColumns[col] {
				t.Errorf("Expected users table to have column %s", col)
			}
		}

		// Test recipes table schema
		rows, err = db.Query("PRAGMA table_info(recipes)")
		if err != nil {
			t.Fatalf("Failed to get recipes table info: %v", err)
		}
		defer rows.Close()

		recipeColumns := make(map[string]bool)
		for rows.Next() {
			var cid int
			var name, dataType string
			var notNull, pk int
			var defaultValue sql.NullString

			err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk)
			if err != nil {
				t.Errorf("Failed to scan column info: %v", err)
				continue
			}
			recipeColumns[name] = true
		}

		expectedRecipeColumns := []string{
			"id", "user_id", "title", "body", "body_hash", "source_url", "image_url",
			"servings", "prep_minutes", "cook_minutes", "private", "modified_at", "created_at",
		}
		for _, col := range expectedRecipeColumns {
			if !recipeColumns[col] {
				t.Errorf("Expected recipes table to have column %s", col)
			}
		}
	})

	t.Run("Foreign keys are enabled", func(t *testing.T) {
		rows, err := db.Query("PRAGMA foreign_keys")
		if err != nil {
			t.Fatalf("Failed to check foreign keys: %v", err)
		}
		defer rows.Close()

		if !rows.Next() {
			t.Fatal("Expected foreign keys pragma result")
		}

		var foreignKeysEnabled int
		err = rows.Scan(&foreignKeysEnabled)
		if err != nil {
			t.Fatalf("Failed to scan foreign keys result: %v", err)
		}

		if foreignKeysEnabled != 1 {
			t.Error("Expected foreign keys to be enabled")
		}
	})
}

func TestSQLiteQueryAndExec(t *testing.T) {
	db := newTestDB(t)

	err := db.InitDB()
	if err != nil {
		t.Fatalf(failedToInitDB, err)
	}

	t.Run("Exec inserts data", func(t *testing.T) {
		// Insert test user with unique ID
		userID := "test-user-exec-" + t.Name()
		username := "testuser-exec-" + t.Name()
		result, err := db.Exec("INSERT INTO users (id, username, email) VALUES (?, ?, ?)",
			userID, username, testEmail)
		if err != nil {
			t.Fatalf("Failed to insert user: %v", err)
		}

		// Check rows affected
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			t.Errorf("Failed to get rows affected: %v", err)
		}
		if rowsAffected != 1 {
			t.Errorf("Expected 1 row affected, got %d", rowsAffected)
		}
	})

	t.Run("Query retrieves data", func(t *testing.T) {
		// Insert unique user for this test
		userID := "test-user-query-" + t.Name()
		username := "testuser-query-" + t.Name()
		_, err := db.Exec("INSERT INTO users (id, username, email) VALUES (?, ?, ?)",
			userID, username, testEmail)
		if err != nil {
			t.Fatalf("Failed to insert user for query test: %v", err)
		}

		// Query the inserted user
		rows, err := db.Query("SELECT id, username, email FROM users WHERE id = ?", userID)
		if err != nil {
			t.Fatalf("Failed to query user: %v", err)
		}
		defer rows.Close()

		if !rows.Next() {
			t.Fatal("Expected to find inserted user")
		}

		var id, queriedUsername, email string
		err = rows.Scan(&id, &queriedUsername, &email)
		if err != nil {
			t.Fatalf("Failed to scan user data: %v", err)
		}

		if id != userID {
			t.Errorf("Expected id %q, got %s", userID, id)
		}
		if queriedUsername != username {
			t.Errorf("Expected username %q, got %s", username, queriedUsername)
		}
		if email != testEmail {
			t.Errorf("Expected email 'test@example.com', got %s", email)
		}
	})

	t.Run("QueryRow retrieves single row", func(t *testing.T) {
		userID := "test-user-queryrow-" + t.Name()
		_, err := db.Exec(insertUserUsername, userID, "row-"+t.Name())
		if err != nil {
			t.Fatalf("Failed to insert user for queryrow test: %v", err)
		}

		var username string
		err = db.QueryRow("SELECT username FROM users WHERE id = ?", userID).Scan(&username)
		if err != nil {
			t.Fatalf("Failed to scan QueryRow result: %v", err)
		}
		if username != "row-"+t.Name() {
			t.Errorf("Expected username %q, got %q", "row-"+t.Name(), username)
		}
	})

	t.Run("Insert and query recipes", func(t *testing.T) {
		// Insert test recipe with unique ID
		recipeID := "test-recipe-" + t.Name()
		userID := "test-user-for-recipe-" + t.Name()

		// First insert a user for the recipe
		_, err := db.Exec(insertUserUsername, userID, "user-"+t.Name())
		if err != nil {
			t.Fatalf("Failed to insert user for recipe test: %v", err)
		}

		// Insert test recipe
		_, err = db.Exec(`INSERT INTO recipes (id, user_id, title, body, body_hash, servings)
			VALUES (?, ?, ?, ?, ?, ?)`,
			recipeID, userID, "Test Pancakes", []byte("Whisk and fry."), "hash123", 4)
		if err != nil {
			t.Fatalf("Failed to insert recipe: %v", err)
		}

		// Query the recipe
		rows, err := db.Query("SELECT id, title, body, servings FROM recipes WHERE id = ?", recipeID)
		if err != nil {
			t.Fatalf("Failed to query recipe: %v", err)
		}
		defer rows.Close()

		if !rows.Next() {
			t.Fatal("Expected to find inserted recipe")
		}

		var id, title string
		var body []byte
		var servings int
		err = rows.Scan(&id, &title, &body, &servings)
		if err != nil {
			t.Fatalf("Failed to scan recipe data: %v", err)
		}

		if id != recipeID {
			t.Errorf("Expected id %q, got %s", recipeID, id)
		}
		if title != "Test Pancakes" {
			t.Errorf("Expected title 'Test Pancakes', got %s", title)
		}
		if string(body) != "Whisk and fry." {
			t.Errorf("Expected body 'Whisk and fry.', got %s", string(body))
		}
		if servings != 4 {
			t.Errorf("Expected 4 servings, got %d", servings)
		}
	})

	t.Run("Cascade delete removes child rows", func(t *testing.T) {
		recipeID := "test-cascade-" + t.Name()

		_, err := db.Exec(`INSERT INTO recipes (id, user_id, title) VALUES (?, ?, ?)`,
			recipeID, "owner-"+t.Name(), "Cascade Test")
		if err != nil {
			t.Fatalf("Failed to insert recipe: %v", err)
		}

		_, err = db.Exec(`INSERT INTO recipe_steps (recipe_id, position, body) VALUES (?, ?, ?)`,
			recipeID, 0, "Mix everything")
		if err != nil {
			t.Fatalf("Failed to insert step: %v", err)
		}
		_, err = db.Exec(`INSERT INTO recipe_ingredients (recipe_id, position, body) VALUES (?, ?, ?)`,
			recipeID, 0, "2 cups flour")
		if err != nil {
			t.Fatalf("Failed to insert ingredient: %v", err)
		}

		if _, err := db.Exec("DELETE FROM recipes WHERE id = ?", recipeID); err != nil {
			t.Fatalf("Failed to delete recipe: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM recipe_steps WHERE recipe_id = ?", recipeID).Scan(&count); err != nil {
			t.Fatalf("Failed to count steps: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected steps to cascade delete, found %d", count)
		}

		if err := db.QueryRow("SELECT COUNT(*) FROM recipe_ingredients WHERE recipe_id = ?", recipeID).Scan(&count); err != nil {
			t.Fatalf("Failed to count ingredients: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected ingredients to cascade delete, found %d", count)
		}
	})
}

func TestSQLiteErrorHandling(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.ErrorLevel)
	SetLogger(logger)

	t.Run("Query on uninitialized database", func(t *testing.T) {
		db := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
		defer db.Close()

		// Don't call InitDB() - connection will be nil
		// This should panic or error, but let's handle it gracefully
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when querying uninitialized database")
			}
		}()

		db.Query(select1) // This will panic due to nil connection
	})

	t.Run("Exec on uninitialized database", func(t *testing.T) {
		db := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
		defer db.Close()

		// Don't call InitDB() - connection will be nil
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when executing on uninitialized database")
			}
		}()

		db.Exec(select1) // This will panic due to nil connection
	})

	t.Run("Invalid SQL query", func(t *testing.T) {
		db := newTestDB(t)

		err := db.InitDB()
		if err != nil {
			t.Fatalf(failedToInitDB, err)
		}

		_, err = db.Query("INVALID SQL SYNTAX")
		if err == nil {
			t.Error("Expected error for invalid SQL")
		}
	})

	t.Run("Invalid SQL exec", func(t *testing.T) {
		db := newTestDB(t)

		err := db.InitDB()
		if err != nil {
			t.Fatalf(failedToInitDB, err)
		}

		_, err = db.Exec("INVALID SQL SYNTAX")
		if err == nil {
			t.Error("Expected error for invalid SQL")
		}
	})

	t.Run("Constraint violation", func(t *testing.T) {
		db := newTestDB(t)

		err := db.InitDB()
		if err != nil {
			t.Fatalf(failedToInitDB, err)
		}

		// Insert user with unique username for this test
		testUsername := "constraint-test-" + t.Name()
		_, err = db.Exec(insertUserUsername, "user1-"+t.Name(), testUsername)
		if err != nil {
			t.Fatalf("Failed to insert first user: %v", err)
		}

		// Try to insert another user with same username (should violate UNIQUE constraint)
		_, err = db.Exec(insertUserUsername, "user2-"+t.Name(), testUsername)
		if err == nil {
			t.Error("Expected constraint violation error for duplicate username")
		}
		if !strings.Contains(err.Error(), "UNIQUE") && !strings.Contains(err.Error(), "constraint") {
			t.Errorf("Expected UNIQUE constraint error, got: %v", err)
		}
	})
}

func TestSQLiteClose(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.ErrorLevel)
	SetLogger(logger)

	t.Run("Close initialized database", func(t *testing.T) {
		db := NewSQLite(filepath.Join(t.TempDir(), "test.db"))

		err := db.InitDB()
		if err != nil {
			t.Fatalf(failedToInitDB, err)
		}

		err = db.Close()
		if err != nil {
			t.Errorf("Failed to close database: %v", err)
		}

		// Verify connection is closed by trying to ping
		if db.Get() != nil {
			err = db.Get().Ping()
			if err == nil {
				t.Error("Expected connection to be closed")
			}
		}
	})

	t.Run("Close uninitialized database", func(t *testing.T) {
		db := NewSQLite(filepath.Join(t.TempDir(), "test.db"))

		// Don't call InitDB()
		err := db.Close()
		if err != nil {
			t.Errorf("Expected no error closing uninitialized database, got: %v", err)
		}
	})

	t.Run("Close database twice", func(t *testing.T) {
		db := NewSQLite(filepath.Join(t.TempDir(), "test.db"))

		err := db.InitDB()
		if err != nil {
			t.Fatalf(failedToInitDB, err)
		}

		err = db.Close()
		if err != nil {
			t.Errorf("Failed to close database first time: %v", err)
		}

		err = db.Close()
		if err != nil {
			t.Errorf("Failed to close database second time: %v", err)
		}
	})
}

func TestSQLiteGet(t *testing.T) {
	db := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	defer db.Close()

	t.Run("Get before init returns nil", func(t *testing.T) {
		conn := db.Get()
		if conn != nil {
			t.Error("Expected nil connection before initialization")
		}
	})

	t.Run("Get after init returns connection", func(t *testing.T) {
		err := db.InitDB()
		if err != nil {
			t.Fatalf(failedToInitDB, err)
		}

		conn := db.Get()
		if conn == nil {
			t.Error("Expected non-nil connection after initialization")
		}

		// Verify it's a working connection
		err = conn.Ping()
		if err != nil {
			t.Errorf("Connection ping failed: %v", err)
		}
	})
}

func TestDBInterface(t *testing.T) {
	// Verify both backends implement the DB interface
	var _ DB = (*SQLite)(nil)
	var _ DB = (*Postgres)(nil)

	// Test interface methods work
	db := newTestDB(t)

	// Test interface method calls
	err := db.InitDB()
	if err != nil {
		t.Fatalf("Interface InitDB failed: %v", err)
	}

	if db.Get() == nil {
		t.Error("Interface Get returned nil")
	}

	_, err = db.Query(select1)
	if err != nil {
		t.Errorf("Interface Query failed: %v", err)
	}

	_, err = db.Exec(select1)
	if err != nil {
		t.Errorf("Interface Exec failed: %v", err)
	}

	err = db.Close()
	if err != nil {
		t.Errorf("Interface Close failed: %v", err)
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			"no placeholders",
			"SELECT id FROM recipes",
			"SELECT id FROM recipes",
		},
		{
			"single placeholder",
			"SELECT id FROM recipes WHERE id = ?",
			"SELECT id FROM recipes WHERE id = $1",
		},
		{
			"multiple placeholders",
			"INSERT INTO recipe_steps (recipe_id, position, body) VALUES (?, ?, ?)",
			"INSERT INTO recipe_steps (recipe_id, position, body) VALUES ($1, $2, $3)",
		},
		{
			"more than nine placeholders",
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rebind(tt.query); got != tt.want {
				t.Errorf("rebind(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func BenchmarkSQLiteOperations(b *testing.B) {
	db := newTestDB(b)

	err := db.InitDB()
	if err != nil {
		b.Fatalf(failedToInitDB, err)
	}

	b.Run("Insert", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, err := db.Exec(insertUserUsername,
				b.Name()+"-user-"+strconvItoa(i), "user"+strconvItoa(i))
			if err != nil {
				b.Errorf("Failed to insert user: %v", err)
			}
		}
	})

	b.Run("Query", func(b *testing.B) {
		// Pre-populate some data
		for i := 0; i < 100; i++ {
			db.Exec("INSERT OR IGNORE INTO users (id, username) VALUES (?, ?)",
				"bench-user-"+strconvItoa(i), "benchuser"+strconvItoa(i))
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			rows, err := db.Query("SELECT id, username FROM users LIMIT 10")
			if err != nil {
				b.Errorf("Failed to query users: %v", err)
				continue
			}

			// Process results
			for rows.Next() {
				var id, username string
				rows.Scan(&id, &username)
			}
			rows.Close()
		}
	})
}

func strconvItoa(i int) string {
	// Tiny helper so the benchmark doesn't import strconv for one call site.
	digits := "0123456789"
	if i == 0 {
		return "0"
	}
	var out []byte
	for i > 0 {
		out = append([]byte{digits[i%10]}, out...)
		i /= 10
	}
	return string(out)
}
