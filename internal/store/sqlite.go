// Package store persists company profiles, company priorities, and analysis
// history for the comparison service. The pipeline itself owns no durable
// state; everything here is collaborator data fetched before a run or
// recorded after one.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type CompanyProfile struct {
	ID           string    `db:"company_id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description,omitempty"`
	Industry     string    `db:"industry" json:"industry,omitempty"`
	BusinessType string    `db:"business_type" json:"business_type,omitempty"`
	CreatedAt    time.Time `db:"-" json:"created_at"`
	UpdatedAt    time.Time `db:"-" json:"updated_at"`
}

type CompanyPriority struct {
	Name        string `db:"name" json:"priority_name"`
	Description string `db:"description" json:"priority_description"`
}

type Analysis struct {
	AnalysisID     string    `db:"analysis_id" json:"analysis_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	CompanyName    string    `db:"company_name" json:"company_name"`
	SellerFilename string    `db:"seller_filename" json:"seller_filename"`
	BuyerFilename  string    `db:"buyer_filename" json:"buyer_filename"`
	Summary        string    `db:"summary" json:"summary"`
	DroppedChunks  int       `db:"dropped_chunks" json:"dropped_chunks"`
	CreatedAt      time.Time `db:"-" json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS company_profiles (
	company_id    TEXT PRIMARY KEY,
	name          TEXT NOT NULL UNIQUE,
	description   TEXT NOT NULL DEFAULT '',
	industry      TEXT NOT NULL DEFAULT '',
	business_type TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS company_priorities (
	company_id  TEXT NOT NULL,
	position    INTEGER NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (company_id, position)
);

CREATE TABLE IF NOT EXISTS analysis_history (
	analysis_id     TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL DEFAULT '',
	company_name    TEXT NOT NULL DEFAULT '',
	seller_filename TEXT NOT NULL DEFAULT '',
	buyer_filename  TEXT NOT NULL DEFAULT '',
	summary         TEXT NOT NULL DEFAULT '',
	dropped_chunks  INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_user ON analysis_history (user_id, created_at DESC);
`

// SQLiteStore is a write-through SQLite store. Safe for concurrent use; the
// single connection serializes writers.
type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// --- company profiles ---

func (s *SQLiteStore) CreateCompany(ctx context.Context, c CompanyProfile) (CompanyProfile, error) {
	if strings.TrimSpace(c.Name) == "" {
		return CompanyProfile{}, fmt.Errorf("company name is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO company_profiles (company_id, name, description, industry, business_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.Industry, c.BusinessType,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return CompanyProfile{}, fmt.Errorf("insert company: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) GetCompany(ctx context.Context, id string) (CompanyProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT company_id, name, description, industry, business_type, created_at, updated_at
		 FROM company_profiles WHERE company_id = ?`, id)
	return scanCompany(row)
}

func (s *SQLiteStore) GetCompanyByName(ctx context.Context, name string) (CompanyProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT company_id, name, description, industry, business_type, created_at, updated_at
		 FROM company_profiles WHERE name = ?`, name)
	return scanCompany(row)
}

func (s *SQLiteStore) ListCompanies(ctx context.Context) ([]CompanyProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company_id, name, description, industry, business_type, created_at, updated_at
		 FROM company_profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CompanyProfile
	for rows.Next() {
		c, err := scanCompanyRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateCompany(ctx context.Context, c CompanyProfile) (CompanyProfile, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE company_profiles SET name = ?, description = ?, industry = ?, business_type = ?, updated_at = ?
		 WHERE company_id = ?`,
		c.Name, c.Description, c.Industry, c.BusinessType, now.Format(time.RFC3339Nano), c.ID)
	if err != nil {
		return CompanyProfile{}, fmt.Errorf("update company: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return CompanyProfile{}, ErrNotFound
	}
	return s.GetCompany(ctx, c.ID)
}

func (s *SQLiteStore) DeleteCompany(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM company_profiles WHERE company_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM company_priorities WHERE company_id = ?`, id)
	return err
}

// --- company priorities ---

// ReplacePriorities swaps the full ordered priority list for a company.
func (s *SQLiteStore) ReplacePriorities(ctx context.Context, companyID string, priorities []CompanyPriority) error {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM company_priorities WHERE company_id = ?`, companyID); err != nil {
		return err
	}
	for i, p := range priorities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO company_priorities (company_id, position, name, description) VALUES (?, ?, ?, ?)`,
			companyID, i, p.Name, p.Description); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListPriorities returns the ordered priorities for a company. An unknown
// company id yields an empty list, not an error: callers degrade to a
// priority-free prompt.
func (s *SQLiteStore) ListPriorities(ctx context.Context, companyID string) ([]CompanyPriority, error) {
	var out []CompanyPriority
	err := s.db.SelectContext(ctx, &out,
		`SELECT name, description FROM company_priorities WHERE company_id = ? ORDER BY position`, companyID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// --- analysis history ---

func (s *SQLiteStore) CreateAnalysis(ctx context.Context, a Analysis) (Analysis, error) {
	if a.AnalysisID == "" {
		a.AnalysisID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_history (analysis_id, user_id, company_name, seller_filename, buyer_filename, summary, dropped_chunks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.AnalysisID, a.UserID, a.CompanyName, a.SellerFilename, a.BuyerFilename, a.Summary, a.DroppedChunks,
		a.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Analysis{}, fmt.Errorf("insert analysis: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, analysisID string) (Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT analysis_id, user_id, company_name, seller_filename, buyer_filename, summary, dropped_chunks, created_at
		 FROM analysis_history WHERE analysis_id = ?`, analysisID)
	var a Analysis
	var createdAt string
	err := row.Scan(&a.AnalysisID, &a.UserID, &a.CompanyName, &a.SellerFilename, &a.BuyerFilename, &a.Summary, &a.DroppedChunks, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	if err != nil {
		return Analysis{}, err
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return a, nil
}

func (s *SQLiteStore) ListAnalysesByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT analysis_id, user_id, company_name, seller_filename, buyer_filename, summary, dropped_chunks, created_at
		 FROM analysis_history WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Analysis
	for rows.Next() {
		var a Analysis
		var createdAt string
		if err := rows.Scan(&a.AnalysisID, &a.UserID, &a.CompanyName, &a.SellerFilename, &a.BuyerFilename, &a.Summary, &a.DroppedChunks, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- scan helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row *sql.Row) (CompanyProfile, error) {
	c, err := scanCompanyRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CompanyProfile{}, ErrNotFound
	}
	return c, err
}

func scanCompanyRows(row rowScanner) (CompanyProfile, error) {
	var c CompanyProfile
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Industry, &c.BusinessType, &createdAt, &updatedAt); err != nil {
		return CompanyProfile{}, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return c, nil
}
