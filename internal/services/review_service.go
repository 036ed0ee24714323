package services

import (
	"context"

	"cleanlyBack/internal/models"
	"cleanlyBack/internal/repositories"
)

type ReviewService struct {
	ReviewsRepo *repositories.ReviewRepository
	JobsRepo    *repositories.JobRepository
}

func (s *ReviewService) CreateReview(ctx context.Context, review models.Review) (models.Review, error) {
	if review.Rating < 1 || review.Rating > 5 {
		return models.Review{}, models.ErrInvalidArgument
	}
	job, err := s.JobsRepo.Get(ctx, review.JobID)
	if err != nil {
		return models.Review{}, err
	}
	if job.CustomerID != review.CustomerID {
		return models.Review{}, models.ErrPermissionDenied
	}
	if job.Status != models.JobStatusCompleted {
		return models.Review{}, models.ErrFailedPrecondition
	}
	if job.AssignedProID != nil {
		review.ProID = *job.AssignedProID
	}
	return s.ReviewsRepo.Create(ctx, review)
}

func (s *ReviewService) GetReviewsByPro(ctx context.Context, proID int) ([]models.Review, error) {
	return s.ReviewsRepo.ListByPro(ctx, proID)
}
