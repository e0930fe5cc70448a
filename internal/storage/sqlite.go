package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendy/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists snapshots and persona icons in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ SnapshotStore = (*SQLiteStore)(nil)
	_ IconStore     = (*SQLiteStore)(nil)
)

// timeLayout is fixed-width so lexicographic ordering of the stored column
// matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save upserts the snapshot: an existing id is replaced, never duplicated.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	transactions, err := json.Marshal(snap.Transactions)
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}
	totals, err := json.Marshal(snap.Totals)
	if err != nil {
		return fmt.Errorf("marshal totals: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, created_at, persona, transactions, totals)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			created_at = excluded.created_at,
			persona = excluded.persona,
			transactions = excluded.transactions,
			totals = excluded.totals`,
		snap.ID, snap.CreatedAt.UTC().Format(timeLayout), string(snap.Persona), string(transactions), string(totals))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved to SQLite",
		"id", snap.ID,
		"persona", snap.Persona,
		"transaction_count", len(snap.Transactions))

	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, persona, transactions, totals
		FROM snapshots WHERE id = ?`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot %s: %w", id, err)
	}
	return snap, nil
}

// List returns all snapshots, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, persona, transactions, totals
		FROM snapshots ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SaveIcon(ctx context.Context, icon PersonaIcon) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO persona_icons (category, prompt, image, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (category) DO UPDATE SET
			prompt = excluded.prompt,
			image = excluded.image,
			generated_at = excluded.generated_at`,
		string(icon.Category), icon.Prompt, icon.Image, icon.GeneratedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save icon for %s: %w", icon.Category, err)
	}
	return nil
}

func (s *SQLiteStore) GetIcon(ctx context.Context, category core.Category) (PersonaIcon, error) {
	var icon PersonaIcon
	var cat, generatedAt string
	row := s.db.QueryRowContext(ctx, `
		SELECT category, prompt, image, generated_at
		FROM persona_icons WHERE category = ?`, string(category))
	err := row.Scan(&cat, &icon.Prompt, &icon.Image, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return PersonaIcon{}, ErrNotFound
	}
	if err != nil {
		return PersonaIcon{}, fmt.Errorf("get icon for %s: %w", category, err)
	}
	icon.Category = core.Category(cat)
	if icon.GeneratedAt, err = time.Parse(timeLayout, generatedAt); err != nil {
		return PersonaIcon{}, fmt.Errorf("parse generated_at: %w", err)
	}
	return icon, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var snap Snapshot
	var createdAt, persona, transactions, totals string
	if err := row.Scan(&snap.ID, &createdAt, &persona, &transactions, &totals); err != nil {
		return Snapshot{}, err
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse created_at: %w", err)
	}
	snap.CreatedAt = ts
	snap.Persona = core.Category(persona)
	if err := json.Unmarshal([]byte(transactions), &snap.Transactions); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal transactions: %w", err)
	}
	if err := json.Unmarshal([]byte(totals), &snap.Totals); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal totals: %w", err)
	}
	return snap, nil
}
