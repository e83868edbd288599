package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/repository"
)

var (
	// ErrSaveFailed hides the storage cause from clients; the cause is logged.
	ErrSaveFailed = errors.New("error saving submission")
	ErrReadFailed = errors.New("error reading submissions")
)

type SubmissionService struct {
	store  repository.SubmissionStore
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewSubmissionService(store repository.SubmissionStore, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Append stores answers as a new record with a fresh id and submittedAt,
// replacing any client-supplied values for those two fields.
func (s *SubmissionService) Append(ctx context.Context, answers models.AnswerSet) (models.Submission, error) {
	sub := models.NewSubmission(s.newID(), answers, s.now())
	if err := s.store.Append(ctx, sub); err != nil {
		s.logger.Error("error saving submission", zap.String("id", sub.ID()), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	s.logger.Info("submission saved", zap.String("id", sub.ID()), zap.Int("fields", len(sub)-2))
	return sub, nil
}

// List returns every stored record in storage order.
func (s *SubmissionService) List(ctx context.Context) ([]models.Submission, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("error reading submissions", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return subs, nil
}

func (s *SubmissionService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
