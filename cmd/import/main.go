// Command import bulk-loads a directory of recipe markdown documents
// into the database for a single owner.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/scsmith60/messhall/internal/db"
	"github.com/scsmith60/messhall/internal/importer"
	"github.com/scsmith60/messhall/internal/model"
	"github.com/scsmith60/messhall/internal/repository"
)

func main() {
	// Define command-line flags
	path := flag.String("path", "", "Path to the directory containing .md files")
	ownerID := flag.String("owner-id", "", "Owner user ID for the recipes")
	dbPath := flag.String("db", "./messhall.db", "Path to the SQLite database")
	flag.Parse()

	// Validate required flags
	if *path == "" || *ownerID == "" {
		log.Fatal("Both --path and --owner-id flags are required")
	}

	// Initialize the SQLite database and ensure tables exist
	database := db.NewSQLite(*dbPath)
	if err := database.InitDB(); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.Close()

	repo := repository.NewDBRecipeRepository(database)

	// Read all files from the specified directory
	files, err := os.ReadDir(*path)
	if err != nil {
		log.Fatalf("Error reading directory %s: %v", *path, err)
	}

	// Process each .md file
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}
		if err := processFile(*path, file.Name(), repo, model.UserID(*ownerID)); err != nil {
			log.Printf("Error processing file %s: %v", file.Name(), err)
			continue
		}
		log.Printf("Successfully imported recipe from file: %s", file.Name())
	}
}

// processFile imports a single .md file into the database.
func processFile(dirPath, name string, repo repository.RecipeRepository, owner model.UserID) error {
	content, err := os.ReadFile(filepath.Join(dirPath, name))
	if err != nil {
		return err
	}

	recipe, err := importer.Import(content, owner)
	if err != nil {
		return err
	}

	// Import leaves the ID to the caller; take a fresh one with the
	// repository's timestamps.
	fresh := repo.NewRecipe()
	recipe.ID = fresh.ID
	recipe.CreatedDate = fresh.CreatedDate
	recipe.ModifiedDate = fresh.ModifiedDate

	return repo.SaveRecipe(recipe)
}
