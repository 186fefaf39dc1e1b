package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/scsmith60/messhall/internal/db/migrations"
)

// Postgres backs the DB interface with a hosted Postgres instance.
// Schema setup runs through the embedded goose migrations rather than
// inline DDL so production databases can be upgraded in place.
type Postgres struct {
	dsn  string
	conn *sql.DB
}

func NewPostgres(dsn string) *Postgres {
	return &Postgres{
		dsn:  dsn,
		conn: nil,
	}
}

func (p *Postgres) InitDB() error {
	var err error
	p.conn, err = sql.Open("pgx", p.dsn)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}

	if err := p.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	dbLogger.Info().Msg("Database initialized")
	return nil
}

func (p *Postgres) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, p.conn, ".")
}

func (p *Postgres) Get() *sql.DB {
	return p.conn
}

func (p *Postgres) Close() error {
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (p *Postgres) Rebind(query string) string {
	return rebind(query)
}

func (p *Postgres) Query(query string, args ...interface{}) (*sql.Rows, error) {
	query = rebind(query)
	dbLogger.Debug().Str("query", query).Msg("Query")
	return p.conn.Query(query, args...)
}

func (p *Postgres) QueryRow(query string, args ...interface{}) *sql.Row {
	query = rebind(query)
	dbLogger.Debug().Str("query", query).Msg("QueryRow")
	return p.conn.QueryRow(query, args...)
}

func (p *Postgres) Exec(query string, args ...interface{}) (sql.Result, error) {
	query = rebind(query)
	dbLogger.Debug().Str("query", query).Msg("Exec")
	return p.conn.Exec(query, args...)
}

// rebind rewrites ?-style placeholders to the $N form pgx expects. The
// repositories write their queries once against the SQLite syntax; none
// of them embed a literal question mark inside a string.
func rebind(query string) string {
	if !strings.ContainsRune(query, '?') {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
