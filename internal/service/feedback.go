package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/sportshub/internal/apperror"
	"github.com/sakif/sportshub/internal/model"
	"github.com/sakif/sportshub/internal/repository"
)

type FeedbackService struct {
	feedback repository.FeedbackRepository
	logger   *slog.Logger
}

func NewFeedbackService(feedback repository.FeedbackRepository, logger *slog.Logger) *FeedbackService {
	return &FeedbackService{feedback: feedback, logger: logger}
}

// Submit stores a contact-form message. userID is nil for anonymous visitors.
func (s *FeedbackService) Submit(ctx context.Context, userID *int64, in model.FeedbackInput) (*model.Feedback, error) {
	f, err := s.feedback.CreateFeedback(ctx, model.Feedback{
		UserID:    userID,
		Name:      in.Name,
		Email:     in.Email,
		Category:  in.Category,
		Message:   in.Message,
		Subscribe: in.Subscribe,
	})
	if err != nil {
		return nil, fmt.Errorf("service/feedback: creating: %w", err)
	}
	s.logger.Info("feedback received",
		slog.Int64("feedback_id", f.ID),
		slog.String("category", f.Category),
		slog.Bool("anonymous", userID == nil),
	)
	return f, nil
}

func (s *FeedbackService) List(ctx context.Context) ([]model.Feedback, error) {
	out, err := s.feedback.ListFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/feedback: listing: %w", err)
	}
	return out, nil
}

func (s *FeedbackService) Delete(ctx context.Context, id int64) error {
	ok, err := s.feedback.DeleteFeedback(ctx, id)
	if err != nil {
		return fmt.Errorf("service/feedback: deleting %d: %w", id, err)
	}
	if !ok {
		return apperror.NotFound("feedback", id)
	}
	return nil
}
