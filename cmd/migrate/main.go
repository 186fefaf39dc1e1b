// Command migrate applies the embedded goose migrations to a Postgres
// database, for deployments that run migrations out of band.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/scsmith60/messhall/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	dsn := flag.String("dsn", os.Getenv("MESSHALL_DATABASE_DSN"), "Postgres connection string")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("A DSN is required: pass --dsn or set MESSHALL_DATABASE_DSN")
	}

	database := db.NewPostgres(*dsn)
	if err := database.InitDB(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	defer database.Close()

	log.Println("Migrations applied")
}
