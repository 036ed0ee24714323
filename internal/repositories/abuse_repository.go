package repositories

import (
	"context"
	"database/sql"

	"cleanlyBack/internal/models"
)

type AbuseRepository struct {
	DB *sql.DB
}

// Record stores an abuse event and flags the pro for recompute.
func (r *AbuseRepository) Record(ctx context.Context, event models.AbuseEvent) (models.AbuseEvent, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.AbuseEvent{}, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO abuse_events (pro_id, job_id, type, note, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, event.ProID, event.JobID, event.Type, event.Note)
	if err != nil {
		return models.AbuseEvent{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.AbuseEvent{}, err
	}
	event.ID = int(id)

	if _, err := tx.ExecContext(ctx,
		`UPDATE pros SET health_dirty = 1 WHERE id = ?`, event.ProID); err != nil {
		return models.AbuseEvent{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.AbuseEvent{}, err
	}
	return event, nil
}

func (r *AbuseRepository) CountByType(ctx context.Context, proID int, eventType string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM abuse_events WHERE pro_id = ? AND type = ?`,
		proID, eventType).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AbuseRepository) ListByPro(ctx context.Context, proID int) ([]models.AbuseEvent, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, pro_id, job_id, type, note, created_at
		FROM abuse_events
		WHERE pro_id = ?
		ORDER BY created_at DESC
	`, proID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.AbuseEvent
	for rows.Next() {
		var e models.AbuseEvent
		if err := rows.Scan(&e.ID, &e.ProID, &e.JobID, &e.Type, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
