package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SequenceRepository backs code generation with a counter table so the
// next sequence for a prefix never depends on re-parsing issued codes.
type SequenceRepository struct {
	DB *pgxpool.Pool
}

func NewSequenceRepository(db *pgxpool.Pool) *SequenceRepository {
	return &SequenceRepository{DB: db}
}

// Next atomically increments and returns the counter for a prefix.
// A missing prefix starts at 1.
func (r *SequenceRepository) Next(ctx context.Context, prefix string) (int, error) {
	var seq int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO code_sequences(prefix, last_seq)
         VALUES($1, 1)
         ON CONFLICT (prefix) DO UPDATE
         SET last_seq = code_sequences.last_seq + 1, updated_at = CURRENT_TIMESTAMP
         RETURNING last_seq`, prefix,
	).Scan(&seq)
	return seq, err
}

// Seed moves a prefix counter forward to lastSeq if it is absent or
// behind. Used once at startup to adopt codes issued before the counter
// table existed.
func (r *SequenceRepository) Seed(ctx context.Context, prefix string, lastSeq int) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO code_sequences(prefix, last_seq)
         VALUES($1, $2)
         ON CONFLICT (prefix) DO UPDATE
         SET last_seq = GREATEST(code_sequences.last_seq, EXCLUDED.last_seq),
             updated_at = CURRENT_TIMESTAMP`, prefix, lastSeq)
	return err
}
