package interaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder persists twin interactions through a pgx pool.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder wraps an existing pool; the schema is managed by the
// repository migrations.
func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

// Record inserts the exchange.
func (r *PostgresRecorder) Record(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO twin_interactions (id, profile_id, lobby_id, visitor_message, twin_response, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.ProfileID, rec.LobbyID, rec.VisitorMessage, rec.TwinResponse, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert twin interaction: %w", err)
	}
	return nil
}

// Recent returns up to limit records for the profile, newest first.
func (r *PostgresRecorder) Recent(ctx context.Context, profileID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, profile_id, lobby_id, visitor_message, twin_response, created_at
		 FROM twin_interactions
		 WHERE profile_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("query twin interactions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.ProfileID, &rec.LobbyID, &rec.VisitorMessage, &rec.TwinResponse, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan twin interaction: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate twin interactions: %w", err)
	}
	return out, nil
}
