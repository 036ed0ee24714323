package services

import (
	"context"
	"time"

	"cleanlyBack/internal/models"
	"cleanlyBack/internal/repositories"
)

type LeadService struct {
	LeadsRepo *repositories.LeadRepository
}

func (s *LeadService) GetLead(ctx context.Context, id int) (models.Lead, error) {
	return s.LeadsRepo.Get(ctx, id)
}

func (s *LeadService) AcceptLead(ctx context.Context, leadID, proID int) (models.Lead, error) {
	return s.LeadsRepo.Accept(ctx, leadID, proID, time.Now())
}

func (s *LeadService) DeclineLead(ctx context.Context, leadID, proID int) error {
	return s.LeadsRepo.Decline(ctx, leadID, proID)
}

func (s *LeadService) ListLeadsByJob(ctx context.Context, jobID int) ([]models.Lead, error) {
	return s.LeadsRepo.ListByJob(ctx, jobID)
}

func (s *LeadService) ListPendingLeads(ctx context.Context, proID int) ([]models.Lead, error) {
	return s.LeadsRepo.ListPendingByPro(ctx, proID, time.Now())
}
