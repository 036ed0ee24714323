package repositories

import (
	"context"
	"database/sql"
	"time"

	"cleanlyBack/internal/disputes"
	"cleanlyBack/internal/models"
)

type DisputeRepository struct {
	DB *sql.DB
}

const disputeColumns = `
	id, job_id, payment_id, customer_id, pro_id, status, reason, description,
	requested_amount, awarded_amount, pro_deadline, decision_deadline,
	resolved_at, created_at
`

func scanDispute(scanner interface{ Scan(...interface{}) error }) (models.Dispute, error) {
	var d models.Dispute
	err := scanner.Scan(
		&d.ID, &d.JobID, &d.PaymentID, &d.CustomerID, &d.ProID, &d.Status,
		&d.Reason, &d.Description, &d.RequestedAmount, &d.AwardedAmount,
		&d.ProDeadline, &d.DecisionDeadline, &d.ResolvedAt, &d.CreatedAt,
	)
	return d, err
}

func (r *DisputeRepository) Create(ctx context.Context, d models.Dispute, audit models.AuditEntry) (models.Dispute, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Dispute{}, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO disputes (job_id, payment_id, customer_id, pro_id, status, reason,
		                      description, requested_amount, pro_deadline, decision_deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.ExecContext(ctx, query,
		d.JobID, d.PaymentID, d.CustomerID, d.ProID, d.Status, d.Reason,
		d.Description, d.RequestedAmount, d.ProDeadline, d.DecisionDeadline, d.CreatedAt,
	)
	if err != nil {
		return models.Dispute{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Dispute{}, err
	}
	d.ID = int(id)

	if err := insertAudit(ctx, tx, d.ID, audit); err != nil {
		return models.Dispute{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Dispute{}, err
	}
	d.Audit = append(d.Audit, audit)
	return d, nil
}

func (r *DisputeRepository) Get(ctx context.Context, id int) (models.Dispute, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+disputeColumns+` FROM disputes WHERE id = ?`, id)
	d, err := scanDispute(row)
	if err == sql.ErrNoRows {
		return models.Dispute{}, models.ErrDisputeNotFound
	}
	if err != nil {
		return models.Dispute{}, err
	}

	if d.Evidence, d.ProResponses, err = r.evidenceFor(ctx, id); err != nil {
		return models.Dispute{}, err
	}
	if d.Audit, err = r.auditFor(ctx, id); err != nil {
		return models.Dispute{}, err
	}
	return d, nil
}

// FindActiveByJob returns the job's pending dispute, if any.
func (r *DisputeRepository) FindActiveByJob(ctx context.Context, jobID int) (*models.Dispute, error) {
	query := `
		SELECT ` + disputeColumns + `
		FROM disputes
		WHERE job_id = ? AND status IN (` + placeholders(len(models.PendingDisputeStatuses)) + `)
		LIMIT 1
	`
	args := []interface{}{jobID}
	for _, s := range models.PendingDisputeStatuses {
		args = append(args, s)
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	d, err := scanDispute(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// AppendEvidence stores one evidence item and its audit entries, moving
// the dispute into review in the same transaction when requested.
func (r *DisputeRepository) AppendEvidence(ctx context.Context, disputeID int, item models.EvidenceItem, markUnderReview bool, audit []models.AuditEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO dispute_evidence (dispute_id, author_id, from_pro, kind, text, file_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		disputeID, item.AuthorID, item.FromPro, item.Kind, item.Text, item.FileURL, item.CreatedAt); err != nil {
		return err
	}

	if markUnderReview {
		args := []interface{}{models.DisputeStatusUnderReview, disputeID}
		for _, s := range models.PendingDisputeStatuses {
			args = append(args, s)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE disputes SET status = ? WHERE id = ? AND status IN (`+placeholders(len(models.PendingDisputeStatuses))+`)`,
			args...); err != nil {
			return err
		}
	}

	for _, a := range audit {
		if err := insertAudit(ctx, tx, disputeID, a); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ResolveCommit writes the resolution, the payment bookkeeping and the
// refund ledger row in one transaction. The status predicate makes the
// pending check atomic with the write: a dispute resolved or expired by
// a concurrent writer no longer matches.
func (r *DisputeRepository) ResolveCommit(ctx context.Context, res disputes.Resolution) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	args := []interface{}{res.Status, res.AwardedAmount, res.ResolvedAt, res.DisputeID}
	for _, s := range models.PendingDisputeStatuses {
		args = append(args, s)
	}
	result, err := tx.ExecContext(ctx, `
		UPDATE disputes
		SET status = ?, awarded_amount = ?, resolved_at = ?
		WHERE id = ? AND status IN (`+placeholders(len(models.PendingDisputeStatuses))+`)
	`, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrFailedPrecondition
	}

	if res.RefundAmount > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE payments
			SET status = ?, refunded_amount = refunded_amount + ?
			WHERE id = ?
		`, res.PaymentStatus, res.RefundAmount, res.PaymentID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO refund_ledger (payment_id, dispute_id, amount, refund_ref, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, res.PaymentID, res.DisputeID, res.RefundAmount, res.RefundRef, res.ResolvedAt); err != nil {
			return err
		}
	}

	if err := insertAudit(ctx, tx, res.DisputeID, res.Audit); err != nil {
		return err
	}
	return tx.Commit()
}

// TransitionStatus is a conditional status move used by the sweeper.
// Returns false when the dispute no longer matches the expected set.
func (r *DisputeRepository) TransitionStatus(ctx context.Context, disputeID int, from []string, to string, audit models.AuditEntry) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	args := []interface{}{to, disputeID}
	for _, s := range from {
		args = append(args, s)
	}
	result, err := tx.ExecContext(ctx,
		`UPDATE disputes SET status = ? WHERE id = ? AND status IN (`+placeholders(len(from))+`)`,
		args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if err := insertAudit(ctx, tx, disputeID, audit); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *DisputeRepository) ListOpenPastProDeadline(ctx context.Context, now time.Time, limit int) ([]models.Dispute, error) {
	return r.list(ctx, `
		SELECT `+disputeColumns+`
		FROM disputes
		WHERE status = ? AND pro_deadline < ?
		ORDER BY pro_deadline
		LIMIT ?
	`, models.DisputeStatusOpen, now, limit)
}

func (r *DisputeRepository) ListPendingPastDecisionDeadline(ctx context.Context, now time.Time, limit int) ([]models.Dispute, error) {
	query := `
		SELECT ` + disputeColumns + `
		FROM disputes
		WHERE status IN (` + placeholders(len(models.PendingDisputeStatuses)) + `) AND decision_deadline < ?
		ORDER BY decision_deadline
		LIMIT ?
	`
	args := make([]interface{}, 0, len(models.PendingDisputeStatuses)+2)
	for _, s := range models.PendingDisputeStatuses {
		args = append(args, s)
	}
	args = append(args, now, limit)
	return r.list(ctx, query, args...)
}

func (r *DisputeRepository) ListUnderReviewDeadlineWithin(ctx context.Context, from, to time.Time, limit int) ([]models.Dispute, error) {
	return r.list(ctx, `
		SELECT `+disputeColumns+`
		FROM disputes
		WHERE status = ? AND decision_deadline > ? AND decision_deadline < ?
		ORDER BY decision_deadline
		LIMIT ?
	`, models.DisputeStatusUnderReview, from, to, limit)
}

func (r *DisputeRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Dispute, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DisputeRepository) evidenceFor(ctx context.Context, disputeID int) (customer, pro []models.EvidenceItem, err error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, dispute_id, author_id, from_pro, kind, text, file_url, created_at
		FROM dispute_evidence
		WHERE dispute_id = ?
		ORDER BY created_at, id
	`, disputeID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.EvidenceItem
		if err := rows.Scan(&item.ID, &item.DisputeID, &item.AuthorID, &item.FromPro,
			&item.Kind, &item.Text, &item.FileURL, &item.CreatedAt); err != nil {
			return nil, nil, err
		}
		if item.FromPro {
			pro = append(pro, item)
		} else {
			customer = append(customer, item)
		}
	}
	return customer, pro, rows.Err()
}

func (r *DisputeRepository) auditFor(ctx context.Context, disputeID int) ([]models.AuditEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, dispute_id, actor, action, note, created_at
		FROM dispute_audit
		WHERE dispute_id = ?
		ORDER BY created_at, id
	`, disputeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var a models.AuditEntry
		if err := rows.Scan(&a.ID, &a.DisputeID, &a.Actor, &a.Action, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

func insertAudit(ctx context.Context, tx *sql.Tx, disputeID int, a models.AuditEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO dispute_audit (dispute_id, actor, action, note, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, disputeID, a.Actor, a.Action, a.Note, a.CreatedAt)
	return err
}
