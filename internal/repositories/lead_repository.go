package repositories

import (
	"context"
	"database/sql"
	"time"

	"cleanlyBack/internal/models"
)

type LeadRepository struct {
	DB *sql.DB
}

const leadColumns = `id, job_id, pro_id, status, score, distance_km, eta_minutes, reasons, created_at, expires_at`

func scanLead(scanner interface{ Scan(...interface{}) error }) (models.Lead, error) {
	var lead models.Lead
	var reasons string
	err := scanner.Scan(
		&lead.ID, &lead.JobID, &lead.ProID, &lead.Status, &lead.Score,
		&lead.DistanceKm, &lead.EtaMinutes, &reasons, &lead.CreatedAt, &lead.ExpiresAt,
	)
	if err != nil {
		return models.Lead{}, err
	}
	lead.Reasons = splitList(reasons)
	return lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead models.Lead) (models.Lead, error) {
	query := `
		INSERT INTO leads (job_id, pro_id, status, score, distance_km, eta_minutes, reasons, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.DB.ExecContext(ctx, query,
		lead.JobID, lead.ProID, lead.Status, lead.Score, lead.DistanceKm,
		lead.EtaMinutes, joinList(lead.Reasons), lead.CreatedAt, lead.ExpiresAt,
	)
	if err != nil {
		return models.Lead{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Lead{}, err
	}
	lead.ID = int(id)
	return lead, nil
}

func (r *LeadRepository) Get(ctx context.Context, id int) (models.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return models.Lead{}, models.ErrLeadNotFound
	}
	return lead, err
}

// Accept marks the lead accepted and the job assigned in one
// transaction. The conditional updates keep two pros from winning the
// same job: whoever loses the race sees zero affected rows.
func (r *LeadRepository) Accept(ctx context.Context, leadID, proID int, now time.Time) (models.Lead, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Lead{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ? FOR UPDATE`, leadID)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return models.Lead{}, models.ErrLeadNotFound
	}
	if err != nil {
		return models.Lead{}, err
	}
	if lead.ProID != proID {
		return models.Lead{}, models.ErrPermissionDenied
	}
	if lead.Status != models.LeadStatusPending {
		return models.Lead{}, models.ErrFailedPrecondition
	}
	if now.After(lead.ExpiresAt) {
		return models.Lead{}, models.ErrDeadlineExceeded
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE jobs SET status = ?, assigned_pro_id = ?, updated_at = NOW() WHERE id = ? AND status = ?`,
		models.JobStatusAssigned, proID, lead.JobID, models.JobStatusOpen)
	if err != nil {
		return models.Lead{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Lead{}, err
	}
	if affected == 0 {
		return models.Lead{}, models.ErrFailedPrecondition
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE leads SET status = ? WHERE id = ?`,
		models.LeadStatusAccepted, leadID); err != nil {
		return models.Lead{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Lead{}, err
	}
	lead.Status = models.LeadStatusAccepted
	return lead, nil
}

func (r *LeadRepository) Decline(ctx context.Context, leadID, proID int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = ? WHERE id = ? AND pro_id = ? AND status = ?`,
		models.LeadStatusDeclined, leadID, proID, models.LeadStatusPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrFailedPrecondition
	}
	return nil
}

func (r *LeadRepository) ListByJob(ctx context.Context, jobID int) ([]models.Lead, error) {
	return r.list(ctx, `SELECT `+leadColumns+` FROM leads WHERE job_id = ? ORDER BY score DESC, id`, jobID)
}

func (r *LeadRepository) ListPendingByPro(ctx context.Context, proID int, now time.Time) ([]models.Lead, error) {
	return r.list(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE pro_id = ? AND status = ? AND expires_at > ? ORDER BY created_at DESC`,
		proID, models.LeadStatusPending, now)
}

func (r *LeadRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
