package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/scsmith60/messhall/internal/db"
)

// parseFuzzyTime attempts to parse a timestamp string using multiple formats.
func parseFuzzyTime(timeStr string) (time.Time, error) {
	timeFormats := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05-07:00",
		time.RFC3339,
		"2006-01-02 15:04:05", // Added for cases without timezone info
	}

	var parsedTime time.Time
	var err error
	for _, format := range timeFormats {
		parsedTime, err = time.Parse(format, timeStr)
		if err == nil {
			return parsedTime.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse time '%s' with any known format", timeStr)
}

// updateTimestamp updates a single timestamp in the database.
func updateTimestamp(db *sql.DB, id, column string, newTime time.Time) error {
	_, err := db.Exec(fmt.Sprintf("UPDATE recipes SET %s = ? WHERE id = ?", column), newTime, id)
	return err
}

func main() {
	dbPath := flag.String("db", "./messhall.db", "Path to the SQLite database")
	flag.Parse()

	log.Println("Starting timestamp migration...")

	// Initialize database connection
	database := db.NewSQLite(*dbPath)
	if err := database.InitDB(); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.Close()

	sqlDB := database.Get()

	// Fetch all recipe timestamps
	rows, err := sqlDB.Query("SELECT id, created_at, modified_at FROM recipes")
	if err != nil {
		log.Fatalf("Failed to query recipes: %v", err)
	}
	defer rows.Close()

	type RecipeTime struct {
		ID         string
		CreatedAt  string
		ModifiedAt string
	}

	var recipes []RecipeTime
	for rows.Next() {
		var r RecipeTime
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.ModifiedAt); err != nil {
			log.Printf("Failed to scan row: %v", err)
			continue
		}
		recipes = append(recipes, r)
	}

	if err := rows.Err(); err != nil {
		log.Fatalf("Error during row iteration: %v", err)
	}

	log.Printf("Found %d recipes to process.", len(recipes))

	// Process each recipe
	for _, r := range recipes {
		// Process created_at
		createdAt, err := parseFuzzyTime(r.CreatedAt)
		if err != nil {
			log.Printf("ID %s: Could not parse created_at '%s': %v", r.ID, r.CreatedAt, err)
		} else {
			if err := updateTimestamp(sqlDB, r.ID, "created_at", createdAt); err != nil {
				log.Printf("ID %s: Failed to update created_at: %v", r.ID, err)
			}
		}

		// Process modified_at
		modifiedAt, err := parseFuzzyTime(r.ModifiedAt)
		if err != nil {
			log.Printf("ID %s: Could not parse modified_at '%s': %v", r.ID, r.ModifiedAt, err)
		} else {
			if err := updateTimestamp(sqlDB, r.ID, "modified_at", modifiedAt); err != nil {
				log.Printf("ID %s: Failed to update modified_at: %v", r.ID, err)
			}
		}
	}

	log.Println("Timestamp migration complete.")
}
