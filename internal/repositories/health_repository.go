package repositories

import (
	"context"
	"database/sql"

	"cleanlyBack/internal/models"
)

type HealthRepository struct {
	DB *sql.DB
}

// Get returns the pro's latest health record, nil when none was ever
// computed.
func (r *HealthRepository) Get(ctx context.Context, proID int) (*models.HealthRecord, error) {
	var rec models.HealthRecord
	var badges string
	err := r.DB.QueryRowContext(ctx, `
		SELECT pro_id, no_show_rate, cancel_rate, avg_response_mins, in_app_ratio,
		       rating_avg, rating_count, score, badges, computed_at
		FROM health_records
		WHERE pro_id = ?
	`, proID).Scan(
		&rec.ProID, &rec.NoShowRate, &rec.CancelRate, &rec.AvgResponseMins,
		&rec.InAppRatio, &rec.RatingAvg, &rec.RatingCount, &rec.Score,
		&badges, &rec.ComputedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.Badges = splitList(badges)
	return &rec, nil
}

// Upsert replaces the derived record and mirrors the badge set onto the
// pro row so discovery reads a single table.
func (r *HealthRepository) Upsert(ctx context.Context, rec models.HealthRecord) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	badges := joinList(rec.Badges)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO health_records (pro_id, no_show_rate, cancel_rate, avg_response_mins,
		                            in_app_ratio, rating_avg, rating_count, score, badges, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			no_show_rate = VALUES(no_show_rate),
			cancel_rate = VALUES(cancel_rate),
			avg_response_mins = VALUES(avg_response_mins),
			in_app_ratio = VALUES(in_app_ratio),
			rating_avg = VALUES(rating_avg),
			rating_count = VALUES(rating_count),
			score = VALUES(score),
			badges = VALUES(badges),
			computed_at = VALUES(computed_at)
	`, rec.ProID, rec.NoShowRate, rec.CancelRate, rec.AvgResponseMins,
		rec.InAppRatio, rec.RatingAvg, rec.RatingCount, rec.Score,
		badges, rec.ComputedAt)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE pros SET badges = ?, health_dirty = 0, updated_at = NOW() WHERE id = ?
	`, badges, rec.ProID); err != nil {
		return err
	}
	return tx.Commit()
}

// ListDirty returns pros flagged for recompute, oldest first.
func (r *HealthRepository) ListDirty(ctx context.Context, limit int) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id FROM pros WHERE health_dirty = 1 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
