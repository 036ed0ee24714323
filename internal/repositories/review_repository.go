package repositories

import (
	"context"
	"database/sql"

	"cleanlyBack/internal/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

// Create stores one review per customer per job and flags the pro for
// the next health recompute.
func (r *ReviewRepository) Create(ctx context.Context, review models.Review) (models.Review, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Review{}, err
	}
	defer tx.Rollback()

	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE job_id = ? AND customer_id = ?`,
		review.JobID, review.CustomerID).Scan(&existing)
	if err != nil {
		return models.Review{}, err
	}
	if existing > 0 {
		return models.Review{}, models.ErrAlreadyReviewed
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO reviews (customer_id, pro_id, job_id, rating, review, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
	`, review.CustomerID, review.ProID, review.JobID, review.Rating, review.Review)
	if err != nil {
		return models.Review{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Review{}, err
	}
	review.ID = int(id)

	if _, err := tx.ExecContext(ctx,
		`UPDATE pros SET health_dirty = 1 WHERE id = ?`, review.ProID); err != nil {
		return models.Review{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// Stats aggregates the pro's rating average and count.
func (r *ReviewRepository) Stats(ctx context.Context, proID int) (float64, int, error) {
	var avg sql.NullFloat64
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(*) FROM reviews WHERE pro_id = ?`, proID).
		Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}

func (r *ReviewRepository) ListByPro(ctx context.Context, proID int) ([]models.Review, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, customer_id, pro_id, job_id, rating, review, created_at, updated_at
		FROM reviews
		WHERE pro_id = ?
		ORDER BY created_at DESC
	`, proID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.CustomerID, &rv.ProID, &rv.JobID,
			&rv.Rating, &rv.Review, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
