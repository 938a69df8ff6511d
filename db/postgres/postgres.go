package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDB opens the books database. The pool is kept small: one office
// backend talks to a serverless Postgres that caps connections.
type PostgresDB struct {
	Conn   *sql.DB
	Ctx    context.Context
	Cancel context.CancelFunc
	URL    string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// Attempts bounds the pings made while the database wakes up.
	Attempts int
}

func NewPostgresDB(url string) *PostgresDB {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	return &PostgresDB{
		Ctx:             ctx,
		Cancel:          cancel,
		URL:             url,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
		Attempts:        3,
	}
}

func (p *PostgresDB) Connect() error {
	conn, err := sql.Open("postgres", p.URL)
	if err != nil {
		return err
	}
	conn.SetMaxOpenConns(p.MaxOpenConns)
	conn.SetMaxIdleConns(p.MaxIdleConns)
	conn.SetConnMaxLifetime(p.ConnMaxLifetime)

	attempts := max(p.Attempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = conn.PingContext(p.Ctx); lastErr == nil {
			p.Conn = conn
			return nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-time.After(time.Duration(attempt) * time.Second):
		case <-p.Ctx.Done():
			_ = conn.Close()
			return fmt.Errorf("postgres ping: %w", p.Ctx.Err())
		}
	}
	_ = conn.Close()
	return fmt.Errorf("postgres unreachable after %d attempts: %w", attempts, lastErr)
}

func (p *PostgresDB) Disconnect() error {
	p.Cancel()
	if p.Conn != nil {
		return p.Conn.Close()
	}
	return nil
}

func (p *PostgresDB) GetContext() context.Context {
	return p.Ctx
}
