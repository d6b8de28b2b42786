package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/habitvault/habitvault/internal/core/domain"
)

var _ domain.PreferencesRepository = (*PostgresPreferencesRepository)(nil)

type PostgresPreferencesRepository struct {
	db *sqlx.DB
}

func NewPostgresPreferencesRepository(db *sqlx.DB) *PostgresPreferencesRepository {
	return &PostgresPreferencesRepository{db: db}
}

func (r *PostgresPreferencesRepository) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	var prefs domain.Preferences
	query := `
		SELECT user_id, dark_mode, last_time_range, show_motivational_quote, updated_at
		FROM preferences WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &prefs, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("repository: get preferences failed: %w", err)
	}
	return &prefs, nil
}

func (r *PostgresPreferencesRepository) Save(ctx context.Context, prefs *domain.Preferences) error {
	query := `
		INSERT INTO preferences (user_id, dark_mode, last_time_range, show_motivational_quote, updated_at)
		VALUES (:user_id, :dark_mode, :last_time_range, :show_motivational_quote, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			dark_mode = EXCLUDED.dark_mode,
			last_time_range = EXCLUDED.last_time_range,
			show_motivational_quote = EXCLUDED.show_motivational_quote,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, prefs); err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: save preferences failed: %w", err)
	}
	return nil
}
