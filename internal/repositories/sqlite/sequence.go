package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"gst-invoice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// SequenceRepository allocates document numbers per prefix and calendar day
type SequenceRepository struct {
	*BaseRepository[struct{}]
}

// NewSequenceRepository creates a new SQLite sequence repository
func NewSequenceRepository(db *sql.DB, logger *logrus.Logger) repositories.SequenceRepository {
	return &SequenceRepository{
		BaseRepository: NewBaseRepository[struct{}](db, "document_sequences", logger),
	}
}

func sequenceDay(date time.Time) string {
	return date.Format("2006-01-02")
}

// Next increments and returns the sequence for prefix on date. The upsert
// and read run in one transaction so concurrent callers get distinct values.
func (r *SequenceRepository) Next(ctx context.Context, prefix string, date time.Time) (int, error) {
	if strings.TrimSpace(prefix) == "" {
		return 0, repositories.NewRepositoryError("next", "document_sequence", "", repositories.ErrInvalidID)
	}

	var value int
	err := r.inTx(ctx, "next", func(ctx context.Context) error {
		_, err := r.executeExec(ctx, "next", `
			INSERT INTO document_sequences (prefix, sequence_date, last_value)
			VALUES (?, ?, 1)
			ON CONFLICT (prefix, sequence_date) DO UPDATE SET last_value = last_value + 1`,
			prefix, sequenceDay(date))
		if err != nil {
			return err
		}

		row := r.executeQueryRow(ctx, "next", `
			SELECT last_value FROM document_sequences WHERE prefix = ? AND sequence_date = ?`,
			prefix, sequenceDay(date))
		if err := row.Scan(&value); err != nil {
			return repositories.NewRepositoryError("next", "document_sequence", prefix, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Current returns the last allocated value, zero when none has been drawn
func (r *SequenceRepository) Current(ctx context.Context, prefix string, date time.Time) (int, error) {
	var value int
	row := r.executeQueryRow(ctx, "current", `
		SELECT last_value FROM document_sequences WHERE prefix = ? AND sequence_date = ?`,
		prefix, sequenceDay(date))
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, repositories.NewRepositoryError("current", "document_sequence", prefix, err)
	}
	return value, nil
}
