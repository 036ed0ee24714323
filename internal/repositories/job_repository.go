package repositories

import (
	"context"
	"database/sql"

	"cleanlyBack/internal/models"
)

type JobRepository struct {
	DB *sql.DB
}

func (r *JobRepository) Create(ctx context.Context, job models.Job) (models.Job, error) {
	query := `
		INSERT INTO jobs (customer_id, services, latitude, longitude, preferred_date, duration_hours, budget, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`
	result, err := r.DB.ExecContext(ctx, query,
		job.CustomerID, joinList(job.Services), job.Latitude, job.Longitude,
		job.PreferredDate, job.DurationHours, job.Budget, models.JobStatusOpen,
	)
	if err != nil {
		return models.Job{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Job{}, err
	}
	job.ID = int(id)
	job.Status = models.JobStatusOpen
	return job, nil
}

func (r *JobRepository) Get(ctx context.Context, id int) (models.Job, error) {
	query := `
		SELECT id, customer_id, services, latitude, longitude, preferred_date,
		       duration_hours, budget, status, assigned_pro_id, created_at, updated_at
		FROM jobs WHERE id = ?
	`
	var job models.Job
	var services string
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.CustomerID, &services, &job.Latitude, &job.Longitude,
		&job.PreferredDate, &job.DurationHours, &job.Budget, &job.Status,
		&job.AssignedProID, &job.CreatedAt, &job.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Job{}, models.ErrJobNotFound
	}
	if err != nil {
		return models.Job{}, err
	}
	job.Services = splitList(services)
	return job, nil
}

// CountForPro counts jobs the pro was assigned, the denominator for the
// health rates.
func (r *JobRepository) CountForPro(ctx context.Context, proID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM jobs j
		JOIN leads l ON l.job_id = j.id AND l.status = ?
		WHERE l.pro_id = ?
	`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, models.LeadStatusAccepted, proID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrJobNotFound
	}
	return nil
}
