package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/arosaje/backend/internal/errors"
	"github.com/arosaje/backend/internal/models"
	"github.com/arosaje/backend/internal/notify"
	"github.com/arosaje/backend/internal/repositories"
)

type adviceService struct {
	advices    repositories.AdviceRepository
	plantCares repositories.PlantCareRepository
	users      repositories.UserRepository
	notifier   notify.Notifier
	logger     *zap.Logger
}

// NewAdviceService creates a new advice service
func NewAdviceService(
	advices repositories.AdviceRepository,
	plantCares repositories.PlantCareRepository,
	users repositories.UserRepository,
	notifier notify.Notifier,
	logger *zap.Logger,
) AdviceService {
	return &adviceService{
		advices:    advices,
		plantCares: plantCares,
		users:      users,
		notifier:   notifier,
		logger:     logger,
	}
}

func (s *adviceService) Create(ctx context.Context, req *models.AdviceCreate, botanistID uint) (*models.Advice, error) {
	// The session must exist before any version-chain work starts
	if _, err := s.plantCares.GetByID(ctx, req.PlantCareID); err != nil {
		return nil, err
	}

	advice, err := s.advices.Create(ctx, req.PlantCareID, botanistID, req.Title, req.Content, req.Priority)
	if err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, advice)
	return advice, nil
}

func (s *adviceService) Update(ctx context.Context, adviceID uint, patch *models.AdvicePatch, botanistID uint) (*models.Advice, error) {
	advice, err := s.advices.Update(ctx, adviceID, botanistID, *patch)
	if err != nil {
		return nil, err
	}

	s.notifyUpdated(ctx, advice)
	return advice, nil
}

func (s *adviceService) Validate(ctx context.Context, adviceID uint, req *models.AdviceValidation, validatorID uint) (*models.Advice, error) {
	if req.ValidationStatus == models.ValidationRejected && (req.ValidationComment == nil || *req.ValidationComment == "") {
		return nil, &apperrors.ErrValidation{Field: "validation_comment", Message: "a comment is required when rejecting advice"}
	}

	advice, err := s.advices.Validate(ctx, adviceID, validatorID, req.ValidationStatus, req.ValidationComment)
	if err != nil {
		return nil, err
	}

	s.notifyValidated(ctx, advice, validatorID)
	return advice, nil
}

func (s *adviceService) Get(ctx context.Context, adviceID uint) (*models.Advice, error) {
	return s.advices.GetByID(ctx, adviceID)
}

func (s *adviceService) History(ctx context.Context, plantCareID, userID uint, role models.UserRole) ([]*models.Advice, error) {
	if err := s.authorizeRead(ctx, plantCareID, userID, role); err != nil {
		return nil, err
	}
	return s.advices.History(ctx, plantCareID)
}

func (s *adviceService) CurrentForPlantCare(ctx context.Context, plantCareID, userID uint, role models.UserRole) ([]*models.Advice, error) {
	if err := s.authorizeRead(ctx, plantCareID, userID, role); err != nil {
		return nil, err
	}
	return s.advices.CurrentForPlantCare(ctx, plantCareID)
}

// authorizeRead lets the session owner, its caretaker and any botanist read
// the advice of a plant care session.
func (s *adviceService) authorizeRead(ctx context.Context, plantCareID, userID uint, role models.UserRole) error {
	care, err := s.plantCares.GetByID(ctx, plantCareID)
	if err != nil {
		return err
	}
	if role == models.RoleBotanist || role == models.RoleAdmin {
		return nil
	}
	if care.OwnerID == userID {
		return nil
	}
	if care.CaretakerID != nil && *care.CaretakerID == userID {
		return nil
	}
	return &apperrors.ErrForbidden{Message: "not allowed to view advice for this plant care"}
}

// Notification dispatch below is best-effort: failures are logged and
// swallowed, and the notified flags are only flipped on success.

func (s *adviceService) notifyCreated(ctx context.Context, advice *models.Advice) {
	name := s.authorName(ctx, advice.BotanistID)
	if err := s.notifier.AdviceCreated(ctx, advice.PlantCareID, name, advice.Title, advice.Priority); err != nil {
		s.logger.Warn("advice created notification failed",
			zap.Uint("advice_id", advice.ID), zap.Error(err))
		return
	}
	if err := s.advices.MarkOwnerNotified(ctx, advice.ID); err != nil {
		s.logger.Warn("failed to mark owner notified", zap.Uint("advice_id", advice.ID), zap.Error(err))
		return
	}
	advice.OwnerNotified = true
}

func (s *adviceService) notifyUpdated(ctx context.Context, advice *models.Advice) {
	name := s.authorName(ctx, advice.BotanistID)
	if err := s.notifier.AdviceUpdated(ctx, advice.ID, name); err != nil {
		s.logger.Warn("advice updated notification failed",
			zap.Uint("advice_id", advice.ID), zap.Error(err))
		return
	}
	if err := s.advices.MarkOwnerNotified(ctx, advice.ID); err != nil {
		s.logger.Warn("failed to mark owner notified", zap.Uint("advice_id", advice.ID), zap.Error(err))
		return
	}
	advice.OwnerNotified = true
}

func (s *adviceService) notifyValidated(ctx context.Context, advice *models.Advice, validatorID uint) {
	name := s.authorName(ctx, validatorID)
	if err := s.notifier.AdviceValidated(ctx, advice.ID, name, advice.ValidationStatus); err != nil {
		s.logger.Warn("validation notification failed",
			zap.Uint("advice_id", advice.ID), zap.Error(err))
		return
	}
	if err := s.advices.MarkBotanistNotified(ctx, advice.ID); err != nil {
		s.logger.Warn("failed to mark botanist notified", zap.Uint("advice_id", advice.ID), zap.Error(err))
		return
	}
	advice.BotanistNotified = true
}

func (s *adviceService) authorName(ctx context.Context, userID uint) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Debug("failed to resolve user name for notification",
			zap.Uint("user_id", userID), zap.Error(err))
		return fmt.Sprintf("botanist #%d", userID)
	}
	return user.FullName()
}
