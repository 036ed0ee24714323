package repositories

import (
	"context"
	"database/sql"
	"time"

	"cleanlyBack/internal/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r *PaymentRepository) Get(ctx context.Context, id int) (models.Payment, error) {
	var p models.Payment
	query := `
		SELECT id, job_id, customer_id, pro_id, amount, refunded_amount,
		       currency, status, provider_ref, captured_at, created_at
		FROM payments
		WHERE id = ?
	`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.JobID, &p.CustomerID, &p.ProID, &p.Amount, &p.RefundedAmount,
		&p.Currency, &p.Status, &p.ProviderRef, &p.CapturedAt, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	if err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

func (r *PaymentRepository) GetByJob(ctx context.Context, jobID int) (models.Payment, error) {
	var p models.Payment
	query := `
		SELECT id, job_id, customer_id, pro_id, amount, refunded_amount,
		       currency, status, provider_ref, captured_at, created_at
		FROM payments
		WHERE job_id = ?
		ORDER BY id DESC
		LIMIT 1
	`
	err := r.DB.QueryRowContext(ctx, query, jobID).Scan(
		&p.ID, &p.JobID, &p.CustomerID, &p.ProID, &p.Amount, &p.RefundedAmount,
		&p.Currency, &p.Status, &p.ProviderRef, &p.CapturedAt, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	if err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

// MarkCaptured records a provider capture notification. Only pending
// payments move; replayed notifications are no-ops.
func (r *PaymentRepository) MarkCaptured(ctx context.Context, providerRef string, capturedAt time.Time) (models.Payment, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE payments
		SET status = ?, captured_at = ?
		WHERE provider_ref = ? AND status = ?
	`, models.PaymentStatusCaptured, capturedAt, providerRef, models.PaymentStatusPending)
	if err != nil {
		return models.Payment{}, err
	}
	if _, err := result.RowsAffected(); err != nil {
		return models.Payment{}, err
	}

	var p models.Payment
	err = r.DB.QueryRowContext(ctx, `
		SELECT id, job_id, customer_id, pro_id, amount, refunded_amount,
		       currency, status, provider_ref, captured_at, created_at
		FROM payments
		WHERE provider_ref = ?
	`, providerRef).Scan(
		&p.ID, &p.JobID, &p.CustomerID, &p.ProID, &p.Amount, &p.RefundedAmount,
		&p.Currency, &p.Status, &p.ProviderRef, &p.CapturedAt, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Payment{}, models.ErrPaymentNotFound
	}
	if err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

func (r *PaymentRepository) RefundsForDispute(ctx context.Context, disputeID int) ([]models.RefundEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, payment_id, dispute_id, amount, refund_ref, created_at
		FROM refund_ledger
		WHERE dispute_id = ?
		ORDER BY id
	`, disputeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.RefundEntry
	for rows.Next() {
		var e models.RefundEntry
		if err := rows.Scan(&e.ID, &e.PaymentID, &e.DisputeID, &e.Amount, &e.RefundRef, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
