package repository

import (
	"context"
	"embed"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// schemaFS holds one schema file per supported driver.
// EnsureSchema applies it statement by statement so both drivers accept it.
//
//go:embed schema/*.sql
var schemaFS embed.FS

// Querier is satisfied by *sqlx.DB, *sqlx.Tx and wrappers such as the test query counter.
// Every repository function takes one so it can run inside or outside a transaction.
type Querier interface {
	sqlx.ExtContext
}

// DB wraps the sqlx connection pools for either SQLite or PostgreSQL.
// Transactions run on db; reads outside a transaction use read. With SQLite
// db is the single writer connection and read is a separate pool, so an open
// transaction does not block readers. With PostgreSQL both are the same pool.
type DB struct {
	db     *sqlx.DB
	read   *sqlx.DB
	driver string
}

// Open connects to the database for the given driver ("sqlite" or "postgres")
func Open(driver, dataSource string) (*DB, error) {
	switch driver {
	case "sqlite":
		return openSQLite(dataSource)
	case "postgres":
		return openPostgres(dataSource)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openSQLite(dbPath string) (*DB, error) {
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

	writer, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so keep a single connection
	writer.SetMaxOpenConns(1)
	writer.SetMaxIdleConns(1)
	writer.SetConnMaxLifetime(time.Hour)

	if err := writer.Ping(); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL lets readers run while the writer holds a transaction
	reader, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to open read pool: %w", err)
	}
	reader.SetMaxOpenConns(4)
	reader.SetMaxIdleConns(4)
	reader.SetConnMaxLifetime(time.Hour)

	if err := reader.Ping(); err != nil {
		reader.Close()
		writer.Close()
		return nil, fmt.Errorf("failed to ping read pool: %w", err)
	}

	log.Printf("Connected to SQLite database: %s", dbPath)
	return &DB{db: writer, read: reader, driver: "sqlite"}, nil
}

func openPostgres(databaseURL string) (*DB, error) {
	conn, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Connected to PostgreSQL database")
	return &DB{db: conn, read: conn, driver: "postgres"}, nil
}

// Close closes the database connections
func (d *DB) Close() error {
	err := d.db.Close()
	if d.read != d.db {
		if rerr := d.read.Close(); err == nil {
			err = rerr
		}
	}
	return err
}

// Driver returns "sqlite" or "postgres"
func (d *DB) Driver() string {
	return d.driver
}

// Querier returns the pool for statements that run outside a transaction.
// It stays usable while another request holds a transaction.
func (d *DB) Querier() Querier {
	return d.read
}

// Ping checks database connectivity
func (d *DB) Ping(ctx context.Context) error {
	return d.read.PingContext(ctx)
}

// InTx runs fn inside a transaction. The transaction is committed when fn returns nil
// and rolled back otherwise; fn's error is returned unchanged.
func (d *DB) InTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// EnsureSchema creates tables if they don't exist
func (d *DB) EnsureSchema(ctx context.Context) error {
	schema, err := schemaFS.ReadFile("schema/" + d.driver + ".sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	for _, stmt := range strings.Split(string(schema), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	log.Printf("Database schema ensured (%s)", d.driver)
	return nil
}

// placeholders returns "(?, ?, ...), (?, ?, ...)" for rows of width cols
func placeholders(rows, cols int) string {
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", cols), ", ") + ")"
	all := make([]string, rows)
	for i := range all {
		all[i] = row
	}
	return strings.Join(all, ", ")
}
