// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists screen runs and their matched articles in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-screen/pkg/types"
)

const defaultDBFile = "pubmed-screen.db"

// Store manages the run history SQLite database.
type Store struct {
	db      *sql.DB
	maxRuns int
}

// NewStore opens or creates the history database at cfg.DBPath and creates
// the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBFile
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxRuns := cfg.MaxRuns
	if maxRuns <= 0 {
		maxRuns = 20
	}

	s := &Store{db: db, maxRuns: maxRuns}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			max_results INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			pmid TEXT NOT NULL,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			authors TEXT NOT NULL,
			affiliations TEXT NOT NULL,
			emails TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_run_id ON articles(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save records one screen run and its matched articles in a single
// transaction and returns the new run ID.
func (s *Store) Save(ctx context.Context, query string, maxResults int, articles []types.Article) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (query, max_results, created_at) VALUES (?, ?, ?)`,
		query, maxResults, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (run_id, pmid, title, date, authors, affiliations, emails)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range articles {
		authorsJSON, _ := json.Marshal(a.Authors)
		affilJSON, _ := json.Marshal(a.Affiliations)
		emailsJSON, _ := json.Marshal(a.Emails)
		if _, err := stmt.ExecContext(ctx,
			runID, a.PMID, a.Title, a.Date,
			string(authorsJSON), string(affilJSON), string(emailsJSON),
		); err != nil {
			return 0, fmt.Errorf("inserting article %s: %w", a.PMID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunSummary describes one stored screen run.
type RunSummary struct {
	ID         int64     `json:"id"`
	Query      string    `json:"query"`
	MaxResults int       `json:"max_results"`
	CreatedAt  time.Time `json:"created_at"`
	Articles   int       `json:"articles"`
}

// Runs lists stored runs, newest first. Zero limit uses the store default.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = s.maxRuns
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.query, r.max_results, r.created_at, COUNT(a.rowid)
		 FROM runs r
		 LEFT JOIN articles a ON a.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r         RunSummary
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Query, &r.MaxResults, &createdAt, &r.Articles); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Articles returns the stored articles for a run in insertion order.
func (s *Store) Articles(ctx context.Context, runID int64) ([]types.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pmid, title, date, authors, affiliations, emails
		 FROM articles WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		var (
			a                                  types.Article
			authorsJSON, affilJSON, emailsJSON string
		)
		if err := rows.Scan(&a.PMID, &a.Title, &a.Date, &authorsJSON, &affilJSON, &emailsJSON); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		json.Unmarshal([]byte(authorsJSON), &a.Authors)
		json.Unmarshal([]byte(affilJSON), &a.Affiliations)
		json.Unmarshal([]byte(emailsJSON), &a.Emails)
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
