package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/habitvault/habitvault/internal/core/domain"
)

var _ domain.HabitLogRepository = (*PostgresLogRepository)(nil)

type PostgresLogRepository struct {
	db *sqlx.DB
}

func NewPostgresLogRepository(db *sqlx.DB) *PostgresLogRepository {
	return &PostgresLogRepository{db: db}
}

// Upsert relies on the (habit_id, log_date) primary key: a second mark for
// the same date overwrites the first.
func (r *PostgresLogRepository) Upsert(ctx context.Context, entry *domain.LogEntry) error {
	query := `
		INSERT INTO habit_logs (habit_id, log_date, status, updated_at)
		VALUES (:habit_id, :log_date, :status, :updated_at)
		ON CONFLICT (habit_id, log_date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.ErrHabitNotFound
		}
		return fmt.Errorf("failed to upsert log entry: %w", err)
	}
	return nil
}

func (r *PostgresLogRepository) GetLog(ctx context.Context, habitID string) (domain.HabitLog, error) {
	var entries []domain.LogEntry
	query := `SELECT habit_id, log_date, status, updated_at FROM habit_logs WHERE habit_id = $1`

	if err := r.db.SelectContext(ctx, &entries, query, habitID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return toHabitLog(entries), nil
}

func (r *PostgresLogRepository) GetLogRange(ctx context.Context, habitID string, from, to domain.CalendarDate) (domain.HabitLog, error) {
	var entries []domain.LogEntry
	query := `
		SELECT habit_id, log_date, status, updated_at FROM habit_logs
		WHERE habit_id = $1 AND log_date >= $2 AND log_date <= $3`

	if err := r.db.SelectContext(ctx, &entries, query, habitID, from, to); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return toHabitLog(entries), nil
}

func (r *PostgresLogRepository) ListByHabitIDs(ctx context.Context, habitIDs []string) (map[string]domain.HabitLog, error) {
	out := make(map[string]domain.HabitLog, len(habitIDs))
	if len(habitIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(
		`SELECT habit_id, log_date, status, updated_at FROM habit_logs WHERE habit_id IN (?)`,
		habitIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var entries []domain.LogEntry
	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	for _, e := range entries {
		log, ok := out[e.HabitID]
		if !ok {
			log = make(domain.HabitLog)
			out[e.HabitID] = log
		}
		log[e.Date] = e.Status
	}
	return out, nil
}

func (r *PostgresLogRepository) DeleteByHabitID(ctx context.Context, habitID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM habit_logs WHERE habit_id = $1`, habitID); err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	return nil
}

func toHabitLog(entries []domain.LogEntry) domain.HabitLog {
	log := make(domain.HabitLog, len(entries))
	for _, e := range entries {
		log[e.Date] = e.Status
	}
	return log
}
