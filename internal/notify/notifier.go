package notify

import (
	"context"
	"fmt"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	"go.uber.org/zap"

	"github.com/arosaje/backend/internal/models"
)

// Notifier is the notification collaborator. Every method is best-effort:
// callers log and swallow errors, and a failure never rolls back the advice
// mutation that triggered it.
type Notifier interface {
	AdviceCreated(ctx context.Context, plantCareID uint, authorName, title string, priority models.AdvicePriority) error
	AdviceUpdated(ctx context.Context, adviceID uint, authorName string) error
	AdviceValidated(ctx context.Context, adviceID uint, validatorName string, status models.ValidationStatus) error
}

// LogNotifier records notifications in the service log only. Used when no
// delivery channel is configured and in tests.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) AdviceCreated(_ context.Context, plantCareID uint, authorName, title string, priority models.AdvicePriority) error {
	n.logger.Info("advice created notification",
		zap.Uint("plant_care_id", plantCareID),
		zap.String("botanist", authorName),
		zap.String("title", title),
		zap.String("priority", string(priority)))
	return nil
}

func (n *LogNotifier) AdviceUpdated(_ context.Context, adviceID uint, authorName string) error {
	n.logger.Info("advice updated notification",
		zap.Uint("advice_id", adviceID),
		zap.String("botanist", authorName))
	return nil
}

func (n *LogNotifier) AdviceValidated(_ context.Context, adviceID uint, validatorName string, status models.ValidationStatus) error {
	n.logger.Info("advice validation notification",
		zap.Uint("advice_id", adviceID),
		zap.String("validator", validatorName),
		zap.String("status", string(status)))
	return nil
}

// ShoutrrrNotifier pushes notifications to the channels configured through
// shoutrrr send URLs (NOTIFY_URLS).
type ShoutrrrNotifier struct {
	sender *router.ServiceRouter
	logger *zap.Logger
}

// NewShoutrrrNotifier creates a notifier for the given shoutrrr URLs
func NewShoutrrrNotifier(urls []string, logger *zap.Logger) (*ShoutrrrNotifier, error) {
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification sender: %w", err)
	}
	return &ShoutrrrNotifier{sender: sender, logger: logger}, nil
}

func (n *ShoutrrrNotifier) AdviceCreated(_ context.Context, plantCareID uint, authorName, title string, priority models.AdvicePriority) error {
	prefix := "New advice"
	switch priority {
	case models.PriorityUrgent:
		prefix = "URGENT advice"
	case models.PriorityFollowUp:
		prefix = "Follow-up advice"
	}
	msg := fmt.Sprintf("%s for plant care #%d: %q by %s", prefix, plantCareID, title, authorName)
	return n.send(msg)
}

func (n *ShoutrrrNotifier) AdviceUpdated(_ context.Context, adviceID uint, authorName string) error {
	return n.send(fmt.Sprintf("Advice #%d was revised by %s", adviceID, authorName))
}

func (n *ShoutrrrNotifier) AdviceValidated(_ context.Context, adviceID uint, validatorName string, status models.ValidationStatus) error {
	return n.send(fmt.Sprintf("Advice #%d was reviewed by %s: %s", adviceID, validatorName, status))
}

func (n *ShoutrrrNotifier) send(message string) error {
	for _, err := range n.sender.Send(message, nil) {
		if err != nil {
			return fmt.Errorf("failed to send notification: %w", err)
		}
	}
	return nil
}
