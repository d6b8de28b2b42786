package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/habitvault/habitvault/internal/core/domain"
)

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

// habitRow is the storage shape of a habit; the rule is split into its
// frequency and a JSON weekday list.
type habitRow struct {
	ID         string              `db:"id"`
	UserID     string              `db:"user_id"`
	Name       string              `db:"name"`
	Frequency  string              `db:"frequency"`
	CustomDays string              `db:"custom_days"`
	StartDate  domain.CalendarDate `db:"start_date"`
	CreatedAt  time.Time           `db:"created_at"`
	UpdatedAt  time.Time           `db:"updated_at"`
}

const habitColumns = `id, user_id, name, frequency, custom_days, start_date, created_at, updated_at`

func toHabitRow(h *domain.Habit) (*habitRow, error) {
	days := make([]domain.Weekday, 0, 7)
	days = append(days, domain.CustomDays(h.Rule)...)

	daysJSON, err := json.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal custom days: %w", err)
	}

	return &habitRow{
		ID:         h.ID,
		UserID:     h.UserID,
		Name:       h.Name,
		Frequency:  string(h.Rule.Frequency()),
		CustomDays: string(daysJSON),
		StartDate:  h.StartDate,
		CreatedAt:  h.CreatedAt,
		UpdatedAt:  h.UpdatedAt,
	}, nil
}

func (row *habitRow) toDomain() (*domain.Habit, error) {
	var days []string
	if len(row.CustomDays) > 0 {
		if err := json.Unmarshal([]byte(row.CustomDays), &days); err != nil {
			return nil, fmt.Errorf("failed to unmarshal custom days: %w", err)
		}
	}

	rule, err := domain.NewRecurrenceRule(row.Frequency, days)
	if err != nil {
		return nil, fmt.Errorf("corrupted rule for habit %s: %w", row.ID, err)
	}

	return &domain.Habit{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Rule:      rule,
		StartDate: row.StartDate,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	row, err := toHabitRow(h)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO habits (` + habitColumns + `)
		VALUES (:id, :user_id, :name, :frequency, :custom_days, :start_date, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.ErrHabitInvalidUserID
		}
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var row habitRow
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return row.toDomain()
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	var rows []habitRow
	query := `
		SELECT ` + habitColumns + ` FROM habits
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	habits := make([]*domain.Habit, 0, len(rows))
	for i := range rows {
		h, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	row, err := toHabitRow(h)
	if err != nil {
		return err
	}

	query := `
		UPDATE habits SET
			name = :name,
			frequency = :frequency,
			custom_days = :custom_days,
			start_date = :start_date,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireOneRow(result, domain.ErrHabitNotFound)
}

// Delete removes the habit; its log rows go with it through ON DELETE CASCADE.
func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireOneRow(result, domain.ErrHabitNotFound)
}

func requireOneRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
