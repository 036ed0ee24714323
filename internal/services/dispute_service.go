package services

import (
	"context"

	"cleanlyBack/internal/disputes"
	"cleanlyBack/internal/models"
	"cleanlyBack/internal/repositories"
)

type DisputeService struct {
	Lifecycle    *disputes.Service
	DisputesRepo *repositories.DisputeRepository
	PaymentsRepo *repositories.PaymentRepository
}

func (s *DisputeService) OpenDispute(ctx context.Context, customerID, jobID, paymentID int, reason, description string, requestedAmount float64) (models.Dispute, error) {
	return s.Lifecycle.Open(ctx, customerID, jobID, paymentID, reason, description, requestedAmount)
}

func (s *DisputeService) AddEvidence(ctx context.Context, actorID, disputeID int, kind, text, fileURL string) (models.Dispute, error) {
	return s.Lifecycle.AddEvidence(ctx, actorID, disputeID, kind, text, fileURL)
}

func (s *DisputeService) ResolveDispute(ctx context.Context, adminID, disputeID int, decision string, amount float64, note string) (models.Dispute, error) {
	return s.Lifecycle.Resolve(ctx, adminID, disputeID, decision, amount, note)
}

func (s *DisputeService) GetDispute(ctx context.Context, id int) (models.Dispute, error) {
	return s.DisputesRepo.Get(ctx, id)
}

func (s *DisputeService) GetDisputeRefunds(ctx context.Context, disputeID int) ([]models.RefundEntry, error) {
	return s.PaymentsRepo.RefundsForDispute(ctx, disputeID)
}
