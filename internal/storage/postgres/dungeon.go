package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neondnd/isekai/internal/game/dungeon"
	"github.com/neondnd/isekai/internal/game/snapshot"
)

// ErrDungeonNotFound is returned when a dungeon lookup yields no results.
var ErrDungeonNotFound = errors.New("dungeon not found")

// DungeonRecord is a stored dungeon level row. The full grid lives in a
// JSONB snapshot; theme and level number are lifted into columns.
type DungeonRecord struct {
	ID        int64
	Theme     string
	LevelNum  int
	CreatedAt time.Time
	Level     *dungeon.Level
}

// DungeonRepository provides dungeon level persistence operations.
type DungeonRepository struct {
	db *pgxpool.Pool
}

// NewDungeonRepository creates a DungeonRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewDungeonRepository(db *pgxpool.Pool) *DungeonRepository {
	return &DungeonRepository{db: db}
}

// Save inserts a generated level and returns the stored record.
//
// Precondition: level must be non-nil.
// Postcondition: Returns the created record with ID and CreatedAt set.
func (r *DungeonRepository) Save(ctx context.Context, level *dungeon.Level) (DungeonRecord, error) {
	state, err := json.Marshal(level.ToMap())
	if err != nil {
		return DungeonRecord{}, fmt.Errorf("encoding dungeon state: %w", err)
	}

	rec := DungeonRecord{Theme: level.Theme, LevelNum: level.LevelNum, Level: level}
	err = r.db.QueryRow(ctx, `
		INSERT INTO dungeons (theme, level_num, state)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		level.Theme, level.LevelNum, state,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return DungeonRecord{}, fmt.Errorf("inserting dungeon: %w", err)
	}
	return rec, nil
}

// GetByID retrieves a dungeon level by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the record with Level rebuilt from its snapshot,
// or ErrDungeonNotFound.
func (r *DungeonRepository) GetByID(ctx context.Context, id int64) (DungeonRecord, error) {
	var (
		rec   DungeonRecord
		state []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, theme, level_num, state, created_at
		FROM dungeons WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Theme, &rec.LevelNum, &state, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DungeonRecord{}, ErrDungeonNotFound
		}
		return DungeonRecord{}, fmt.Errorf("querying dungeon: %w", err)
	}

	var m snapshot.Map
	if err := json.Unmarshal(state, &m); err != nil {
		return DungeonRecord{}, fmt.Errorf("decoding dungeon state: %w", err)
	}
	level, err := dungeon.FromMap(m)
	if err != nil {
		return DungeonRecord{}, fmt.Errorf("rebuilding dungeon: %w", err)
	}
	rec.Level = level
	return rec, nil
}

// List returns all stored dungeons ordered by creation time. Snapshots are
// not decoded; Level is nil on the returned records.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *DungeonRepository) List(ctx context.Context) ([]DungeonRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, theme, level_num, created_at
		FROM dungeons ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing dungeons: %w", err)
	}
	defer rows.Close()

	recs := make([]DungeonRecord, 0)
	for rows.Next() {
		var rec DungeonRecord
		if err := rows.Scan(&rec.ID, &rec.Theme, &rec.LevelNum, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning dungeon row: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Delete removes a dungeon by ID.
//
// Postcondition: Returns nil on success, ErrDungeonNotFound if no row deleted.
func (r *DungeonRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dungeons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting dungeon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDungeonNotFound
	}
	return nil
}
