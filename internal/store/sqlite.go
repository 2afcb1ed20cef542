package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/ranking"
)

// SQLite keeps every pass plus one row per ranked opportunity.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and creates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}
	return &SQLite{db: db}, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS passes (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			league TEXT NOT NULL,
			catalog_version TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			payload TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS opportunities (
			pass_id TEXT NOT NULL,
			rank INTEGER NOT NULL,
			recipe_id TEXT NOT NULL,
			roi_percent REAL NOT NULL,
			net_profit REAL NOT NULL,
			payload TEXT NOT NULL,
			PRIMARY KEY (pass_id, rank),
			FOREIGN KEY (pass_id) REFERENCES passes(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_passes_league ON passes(league, seq);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) SavePass(ctx context.Context, p ranking.Pass) error {
	if p.ID == "" {
		return crafterr.InvalidArgument("pass id is required")
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return crafterr.Wrap(err, "encode pass")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return crafterr.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO passes (id, league, catalog_version, started_at, payload) VALUES (?, ?, ?, ?, ?)`,
		p.ID, leagueKey(p.League), p.CatalogVersion, p.StartedAt, string(payload)); err != nil {
		return crafterr.Wrapf(err, "insert pass %s", p.ID)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO opportunities (pass_id, rank, recipe_id, roi_percent, net_profit, payload) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return crafterr.Wrap(err, "prepare opportunity insert")
	}
	defer stmt.Close()
	for i, o := range p.Opportunities {
		b, err := json.Marshal(o)
		if err != nil {
			return crafterr.Wrap(err, "encode opportunity")
		}
		if _, err := stmt.ExecContext(ctx, p.ID, i+1, o.RecipeID, o.ROIPercent, o.NetProfit, string(b)); err != nil {
			return crafterr.Wrapf(err, "insert opportunity %s", o.RecipeID)
		}
	}
	if err := tx.Commit(); err != nil {
		return crafterr.Wrap(err, "commit")
	}
	return nil
}

func (s *SQLite) GetPass(ctx context.Context, id string) (ranking.Pass, error) {
	return s.scanPass(ctx, `SELECT payload FROM passes WHERE id = ?`, id)
}

func (s *SQLite) LatestPass(ctx context.Context, league string) (ranking.Pass, error) {
	p, err := s.scanPass(ctx, `SELECT payload FROM passes WHERE league = ? ORDER BY seq DESC LIMIT 1`, leagueKey(league))
	if crafterr.IsNotFound(err) {
		return ranking.Pass{}, crafterr.NotFoundf("no pass for league %q", league)
	}
	return p, err
}

func (s *SQLite) TopOpportunities(ctx context.Context, league string, limit int) ([]ranking.Opportunity, error) {
	p, err := s.LatestPass(ctx, league)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM opportunities WHERE pass_id = ? ORDER BY rank LIMIT ?`, p.ID, limit)
	if err != nil {
		return nil, crafterr.Wrap(err, "query opportunities")
	}
	defer rows.Close()

	var out []ranking.Opportunity
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, crafterr.Wrap(err, "scan opportunity")
		}
		var o ranking.Opportunity
		if err := json.Unmarshal([]byte(payload), &o); err != nil {
			return nil, crafterr.Wrap(err, "decode opportunity")
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, crafterr.Wrap(err, "iterate opportunities")
	}
	return out, nil
}

func (s *SQLite) History(ctx context.Context, league string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM passes WHERE league = ? ORDER BY seq DESC`, leagueKey(league))
	if err != nil {
		return nil, crafterr.Wrap(err, "query history")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, crafterr.Wrap(err, "scan history")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, crafterr.Wrap(err, "iterate history")
	}
	return ids, nil
}

func (s *SQLite) scanPass(ctx context.Context, query string, arg any) (ranking.Pass, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ranking.Pass{}, crafterr.NotFoundf("pass %v not found", arg)
		}
		return ranking.Pass{}, crafterr.Wrap(err, "query pass")
	}
	var p ranking.Pass
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return ranking.Pass{}, crafterr.Wrap(err, "decode pass")
	}
	return p, nil
}

func (s *SQLite) Close() error { return s.db.Close() }
