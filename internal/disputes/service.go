package disputes

import (
	"context"
	"fmt"
	"math"
	"time"

	"cleanlyBack/internal/models"
)

// Logger is the minimal logger interface required by the dispute service.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// DisputeStore persists disputes. ResolveCommit must be atomic with the
// payment bookkeeping: the status check and every write happen in one
// transaction so a concurrent evidence-add or second resolve loses.
type DisputeStore interface {
	Create(ctx context.Context, d models.Dispute, audit models.AuditEntry) (models.Dispute, error)
	Get(ctx context.Context, id int) (models.Dispute, error)
	FindActiveByJob(ctx context.Context, jobID int) (*models.Dispute, error)
	AppendEvidence(ctx context.Context, disputeID int, item models.EvidenceItem, markUnderReview bool, audit []models.AuditEntry) error
	ResolveCommit(ctx context.Context, res Resolution) error
}

// Resolution carries everything ResolveCommit writes in one transaction.
type Resolution struct {
	DisputeID     int
	PaymentID     int
	Status        string
	AwardedAmount float64
	RefundAmount  float64
	RefundRef     string
	PaymentStatus string // empty when no payment update is needed
	ResolvedAt    time.Time
	Audit         models.AuditEntry
}

// JobStore provides the disputed job.
type JobStore interface {
	Get(ctx context.Context, id int) (models.Job, error)
}

// PaymentStore provides the disputed payment.
type PaymentStore interface {
	Get(ctx context.Context, id int) (models.Payment, error)
}

// Gateway issues refunds with the external payment provider.
type Gateway interface {
	CreateRefund(ctx context.Context, paymentRef string, amountMinor int64, reason string, meta map[string]string) (string, error)
}

// AdminSource asserts the admin role of an actor.
type AdminSource interface {
	IsAdmin(ctx context.Context, userID int) (bool, error)
}

// Pusher delivers a push notification; failures are non-fatal.
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// TokenSource resolves device tokens for a user.
type TokenSource interface {
	DeviceTokens(ctx context.Context, userID int) ([]string, error)
}

// ChatStore posts system messages into the job's chat thread.
type ChatStore interface {
	ThreadForJob(ctx context.Context, jobID int) (models.Chat, error)
	InsertSystemMessage(ctx context.Context, chatID int, text string) (models.Message, error)
}

// Broadcaster fans dispute chat events out to connected clients. Optional.
type Broadcaster interface {
	BroadcastMessage(msg models.Message)
}

// Service drives the dispute lifecycle.
type Service struct {
	Disputes DisputeStore
	Jobs     JobStore
	Payments PaymentStore
	Gateway  Gateway
	Admins   AdminSource
	Pusher   Pusher
	Tokens   TokenSource
	Chats    ChatStore
	Hub      Broadcaster
	Logger   Logger
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Open creates a dispute against a captured payment. Only the job's
// customer may open one, within 24 hours of capture, and only while no
// other dispute on the job is still pending.
func (s *Service) Open(ctx context.Context, customerID, jobID, paymentID int, reason, description string, requestedAmount float64) (models.Dispute, error) {
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return models.Dispute{}, err
	}
	if job.CustomerID != customerID {
		return models.Dispute{}, models.ErrPermissionDenied
	}

	payment, err := s.Payments.Get(ctx, paymentID)
	if err != nil {
		return models.Dispute{}, err
	}
	if payment.JobID != jobID {
		return models.Dispute{}, models.ErrInvalidArgument
	}

	switch payment.Status {
	case models.PaymentStatusCaptured, models.PaymentStatusReleased, models.PaymentStatusPartiallyRefunded:
	default:
		return models.Dispute{}, models.ErrFailedPrecondition
	}
	if payment.CapturedAt == nil {
		return models.Dispute{}, models.ErrFailedPrecondition
	}

	now := s.now()
	if now.After(payment.CapturedAt.Add(models.DisputeOpenWindow)) {
		return models.Dispute{}, models.ErrDeadlineExceeded
	}

	if requestedAmount <= 0 || requestedAmount > payment.Amount {
		return models.Dispute{}, models.ErrInvalidArgument
	}

	active, err := s.Disputes.FindActiveByJob(ctx, jobID)
	if err != nil {
		return models.Dispute{}, err
	}
	if active != nil {
		return models.Dispute{}, models.ErrAlreadyExists
	}

	dispute := models.Dispute{
		JobID:            jobID,
		PaymentID:        paymentID,
		CustomerID:       customerID,
		ProID:            payment.ProID,
		Status:           models.DisputeStatusOpen,
		Reason:           reason,
		Description:      description,
		RequestedAmount:  requestedAmount,
		ProDeadline:      now.Add(models.DisputeProResponseTerm),
		DecisionDeadline: now.Add(models.DisputeDecisionTerm),
		CreatedAt:        now,
	}
	audit := models.AuditEntry{
		Actor:     fmt.Sprintf("customer:%d", customerID),
		Action:    "opened",
		Note:      reason,
		CreatedAt: now,
	}
	dispute, err = s.Disputes.Create(ctx, dispute, audit)
	if err != nil {
		return models.Dispute{}, err
	}

	s.pushTo(ctx, dispute.ProID, "Dispute opened",
		"A customer opened a dispute on one of your jobs. Respond within 24 hours.",
		map[string]string{"dispute_id": fmt.Sprint(dispute.ID)})
	s.postSystemMessage(ctx, jobID, "A dispute was opened for this job. Both sides can submit evidence.")

	return dispute, nil
}

// AddEvidence appends an evidence item from either party. The first pro
// submission moves the dispute into review.
func (s *Service) AddEvidence(ctx context.Context, actorID, disputeID int, kind, text, fileURL string) (models.Dispute, error) {
	dispute, err := s.Disputes.Get(ctx, disputeID)
	if err != nil {
		return models.Dispute{}, err
	}
	if actorID != dispute.CustomerID && actorID != dispute.ProID {
		return models.Dispute{}, models.ErrPermissionDenied
	}
	if !models.DisputeIsPending(dispute.Status) {
		return models.Dispute{}, models.ErrFailedPrecondition
	}

	switch kind {
	case models.EvidenceText, models.EvidenceImage, models.EvidenceAudio:
	default:
		return models.Dispute{}, models.ErrInvalidArgument
	}
	if text == "" && fileURL == "" {
		return models.Dispute{}, models.ErrInvalidArgument
	}

	now := s.now()
	fromPro := actorID == dispute.ProID
	item := models.EvidenceItem{
		DisputeID: disputeID,
		AuthorID:  actorID,
		FromPro:   fromPro,
		Kind:      kind,
		Text:      text,
		FileURL:   fileURL,
		CreatedAt: now,
	}

	role := "customer"
	if fromPro {
		role = "pro"
	}
	audit := []models.AuditEntry{{
		Actor:     fmt.Sprintf("%s:%d", role, actorID),
		Action:    "evidence_added",
		Note:      kind,
		CreatedAt: now,
	}}

	markUnderReview := fromPro && dispute.Status != models.DisputeStatusUnderReview
	if markUnderReview {
		audit = append(audit, models.AuditEntry{
			Actor:     "system",
			Action:    "status_changed",
			Note:      "pro responded, dispute moved to review",
			CreatedAt: now,
		})
	}

	if err := s.Disputes.AppendEvidence(ctx, disputeID, item, markUnderReview, audit); err != nil {
		return models.Dispute{}, err
	}
	return s.Disputes.Get(ctx, disputeID)
}

// Resolve closes a pending dispute with an admin decision. A nonzero
// refund is issued with the gateway before anything is committed; a
// gateway failure leaves the dispute pending and safe to retry.
func (s *Service) Resolve(ctx context.Context, adminID, disputeID int, decision string, amount float64, note string) (models.Dispute, error) {
	isAdmin, err := s.Admins.IsAdmin(ctx, adminID)
	if err != nil {
		return models.Dispute{}, err
	}
	if !isAdmin {
		return models.Dispute{}, models.ErrPermissionDenied
	}

	dispute, err := s.Disputes.Get(ctx, disputeID)
	if err != nil {
		return models.Dispute{}, err
	}
	if !models.DisputeIsPending(dispute.Status) {
		return models.Dispute{}, models.ErrFailedPrecondition
	}

	status, ok := decisionStatus[decision]
	if !ok {
		return models.Dispute{}, models.ErrInvalidArgument
	}
	if !Allowed(dispute.Status, status) {
		return models.Dispute{}, models.ErrFailedPrecondition
	}

	payment, err := s.Payments.Get(ctx, dispute.PaymentID)
	if err != nil {
		return models.Dispute{}, err
	}

	var refund float64
	switch decision {
	case models.DecisionRefundFull:
		refund = payment.Amount
	case models.DecisionRefundPartial:
		if amount <= 0 || amount > payment.Amount {
			return models.Dispute{}, models.ErrInvalidArgument
		}
		refund = amount
	}

	now := s.now()
	res := Resolution{
		DisputeID:     disputeID,
		PaymentID:     payment.ID,
		Status:        status,
		AwardedAmount: refund,
		RefundAmount:  refund,
		ResolvedAt:    now,
		Audit: models.AuditEntry{
			Actor:     fmt.Sprintf("admin:%d", adminID),
			Action:    "resolved",
			Note:      fmt.Sprintf("%s: %s", decision, note),
			CreatedAt: now,
		},
	}

	if refund > 0 {
		amountMinor := int64(math.Round(refund * 100))
		refundRef, err := s.Gateway.CreateRefund(ctx, payment.ProviderRef, amountMinor, dispute.Reason, map[string]string{
			"dispute_id": fmt.Sprint(disputeID),
			"job_id":     fmt.Sprint(dispute.JobID),
		})
		if err != nil {
			s.Logger.Errorf("disputes: refund for dispute %d failed: %v", disputeID, err)
			return models.Dispute{}, fmt.Errorf("%w: refund not issued", models.ErrInternal)
		}
		res.RefundRef = refundRef
		res.PaymentStatus = models.PaymentStatusPartiallyRefunded
		if payment.RefundedAmount+refund >= payment.Amount {
			res.PaymentStatus = models.PaymentStatusRefunded
		}
	}

	if err := s.Disputes.ResolveCommit(ctx, res); err != nil {
		return models.Dispute{}, err
	}

	s.notifyResolution(ctx, dispute, decision, refund)

	return s.Disputes.Get(ctx, disputeID)
}

func (s *Service) notifyResolution(ctx context.Context, dispute models.Dispute, decision string, refund float64) {
	var customerBody, proBody string
	switch decision {
	case models.DecisionRefundFull:
		customerBody = "Your dispute was resolved with a full refund."
		proBody = "The dispute was resolved in the customer's favor; the payment was refunded."
	case models.DecisionRefundPartial:
		customerBody = fmt.Sprintf("Your dispute was resolved with a partial refund of %.2f.", refund)
		proBody = fmt.Sprintf("The dispute was resolved with a partial refund of %.2f to the customer.", refund)
	case models.DecisionNoRefund:
		customerBody = "Your dispute was reviewed and closed without a refund."
		proBody = "The dispute on your job was closed without a refund."
	default:
		customerBody = "Your dispute was cancelled."
		proBody = "The dispute on your job was cancelled."
	}

	data := map[string]string{"dispute_id": fmt.Sprint(dispute.ID)}
	s.pushTo(ctx, dispute.CustomerID, "Dispute resolved", customerBody, data)
	s.pushTo(ctx, dispute.ProID, "Dispute resolved", proBody, data)
	s.postSystemMessage(ctx, dispute.JobID, "The dispute for this job has been resolved.")
}

// pushTo is best-effort; failures are logged and dropped.
func (s *Service) pushTo(ctx context.Context, userID int, title, body string, data map[string]string) {
	if s.Pusher == nil || s.Tokens == nil {
		return
	}
	tokens, err := s.Tokens.DeviceTokens(ctx, userID)
	if err != nil {
		s.Logger.Errorf("disputes: tokens for user %d: %v", userID, err)
		return
	}
	for _, token := range tokens {
		if err := s.Pusher.Send(ctx, token, title, body, data); err != nil {
			s.Logger.Errorf("disputes: push to user %d: %v", userID, err)
		}
	}
}

// postSystemMessage is best-effort; failures are logged and dropped.
func (s *Service) postSystemMessage(ctx context.Context, jobID int, text string) {
	if s.Chats == nil {
		return
	}
	chat, err := s.Chats.ThreadForJob(ctx, jobID)
	if err != nil {
		s.Logger.Errorf("disputes: chat thread for job %d: %v", jobID, err)
		return
	}
	msg, err := s.Chats.InsertSystemMessage(ctx, chat.ID, text)
	if err != nil {
		s.Logger.Errorf("disputes: system message for job %d: %v", jobID, err)
		return
	}
	if s.Hub != nil {
		s.Hub.BroadcastMessage(msg)
	}
}
