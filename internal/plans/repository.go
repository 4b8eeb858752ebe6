package plans

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StoredPlan is a persisted week plan.
type StoredPlan struct {
	ID        int64
	UserID    string
	PlanData  []byte // Raw JSON of the week plan
	CreatedAt time.Time
}

// Repository is a database-backed repository for generated week plans.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a new week plan for a user.
func (r *Repository) Save(ctx context.Context, userID string, planData []byte) error {
	const query = `
        INSERT INTO meal_plans (user_id, plan_data, created_at)
        VALUES (?, ?, ?)
    `
	if _, err := r.db.ExecContext(ctx, query, userID, planData, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return nil
}

// ListRecent retrieves the N most recent plans for a user, newest first.
func (r *Repository) ListRecent(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	const query = `
        SELECT id, user_id, plan_data, created_at
        FROM meal_plans
        WHERE user_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var p StoredPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.PlanData, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Cleanup removes plans older than the given number of days.
func (r *Repository) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := r.db.ExecContext(ctx, `DELETE FROM meal_plans WHERE created_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old meal plans: %w", err)
	}
	return res.RowsAffected()
}
