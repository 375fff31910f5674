package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neondnd/isekai/internal/game/character"
	"github.com/neondnd/isekai/internal/game/snapshot"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character whose name is already used.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRecord is a stored character row. The full character state lives
// in a JSONB snapshot; name, class, and level are lifted into columns for
// lookups and listings.
type CharacterRecord struct {
	ID        int64
	Name      string
	Class     string
	Level     int
	CreatedAt time.Time
	UpdatedAt time.Time
	Character *character.Character
}

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character snapshot and returns the stored record.
//
// Precondition: ch must be non-nil with a non-empty name.
// Postcondition: Returns the created record with ID and timestamps set,
// or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, ch *character.Character) (CharacterRecord, error) {
	state, err := json.Marshal(ch.ToMap())
	if err != nil {
		return CharacterRecord{}, fmt.Errorf("encoding character state: %w", err)
	}

	rec := CharacterRecord{Name: ch.Name, Class: ch.Class, Level: ch.Level, Character: ch}
	err = r.db.QueryRow(ctx, `
		INSERT INTO characters (name, class, level, state)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		ch.Name, ch.Class, ch.Level, state,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return CharacterRecord{}, ErrCharacterNameTaken
		}
		return CharacterRecord{}, fmt.Errorf("inserting character: %w", err)
	}
	return rec, nil
}

// GetByID retrieves a character by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the record with Character rebuilt from its snapshot,
// or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (CharacterRecord, error) {
	var (
		rec   CharacterRecord
		state []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, class, level, state, created_at, updated_at
		FROM characters WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Name, &rec.Class, &rec.Level, &state, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CharacterRecord{}, ErrCharacterNotFound
		}
		return CharacterRecord{}, fmt.Errorf("querying character: %w", err)
	}

	ch, err := decodeCharacterState(state)
	if err != nil {
		return CharacterRecord{}, err
	}
	rec.Character = ch
	return rec, nil
}

// GetByName retrieves a character by its unique name.
//
// Precondition: name must be non-empty.
// Postcondition: Returns the record or ErrCharacterNotFound.
func (r *CharacterRepository) GetByName(ctx context.Context, name string) (CharacterRecord, error) {
	var (
		rec   CharacterRecord
		state []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, class, level, state, created_at, updated_at
		FROM characters WHERE name = $1`,
		name,
	).Scan(&rec.ID, &rec.Name, &rec.Class, &rec.Level, &state, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CharacterRecord{}, ErrCharacterNotFound
		}
		return CharacterRecord{}, fmt.Errorf("querying character: %w", err)
	}

	ch, err := decodeCharacterState(state)
	if err != nil {
		return CharacterRecord{}, err
	}
	rec.Character = ch
	return rec, nil
}

// List returns all stored characters ordered by creation time. Snapshots are
// not decoded; Character is nil on the returned records.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]CharacterRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, class, level, created_at, updated_at
		FROM characters ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	recs := make([]CharacterRecord, 0)
	for rows.Next() {
		var rec CharacterRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Class, &rec.Level, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// SaveState persists a character's current snapshot after a session.
//
// Precondition: id must be > 0; ch must be non-nil.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveState(ctx context.Context, id int64, ch *character.Character) error {
	state, err := json.Marshal(ch.ToMap())
	if err != nil {
		return fmt.Errorf("encoding character state: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET level = $2, state = $3, updated_at = NOW()
		WHERE id = $1`,
		id, ch.Level, state,
	)
	if err != nil {
		return fmt.Errorf("saving character state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character by ID.
//
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

func decodeCharacterState(state []byte) (*character.Character, error) {
	var m snapshot.Map
	if err := json.Unmarshal(state, &m); err != nil {
		return nil, fmt.Errorf("decoding character state: %w", err)
	}
	return character.FromMap(m), nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
