package services

import (
	"context"

	"cleanlyBack/internal/matching"
	"cleanlyBack/internal/models"
	"cleanlyBack/internal/repositories"
)

type JobService struct {
	JobsRepo  *repositories.JobRepository
	Generator *matching.Generator
}

// CreateJob stores the job and immediately runs lead generation for it.
func (s *JobService) CreateJob(ctx context.Context, job models.Job) (models.Job, []models.Lead, error) {
	created, err := s.JobsRepo.Create(ctx, job)
	if err != nil {
		return models.Job{}, nil, err
	}
	leads, err := s.Generator.GenerateLeads(ctx, created)
	if err != nil {
		return created, nil, err
	}
	return created, leads, nil
}

func (s *JobService) GetJob(ctx context.Context, id int) (models.Job, error) {
	return s.JobsRepo.Get(ctx, id)
}

func (s *JobService) UpdateJobStatus(ctx context.Context, id int, status string) error {
	switch status {
	case models.JobStatusCompleted, models.JobStatusCancelled:
	default:
		return models.ErrInvalidArgument
	}
	return s.JobsRepo.UpdateStatus(ctx, id, status)
}

// RegenerateLeads re-runs matching for a job that is still open.
func (s *JobService) RegenerateLeads(ctx context.Context, jobID int) ([]models.Lead, error) {
	job, err := s.JobsRepo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return s.Generator.GenerateLeads(ctx, job)
}
