package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/sirupsen/logrus"

	"github.com/nichepilot/nichepilot-go/internal/models"
)

// NotificationService pushes approved opportunities to a Telegram chat.
// Without a bot token it is a no-op, so evaluations never depend on it.
type NotificationService struct {
	bot    *bot.Bot
	chatID string
	logger *logrus.Logger
}

// NewNotificationService creates a notification service. An empty token
// disables delivery.
func NewNotificationService(botToken, chatID string, logger *logrus.Logger) *NotificationService {
	var telegramBot *bot.Bot
	if botToken != "" {
		b, err := bot.New(botToken)
		if err != nil {
			logger.WithError(err).Warn("Telegram bot initialization failed, notifications disabled")
		} else {
			telegramBot = b
		}
	}
	return &NotificationService{
		bot:    telegramBot,
		chatID: chatID,
		logger: logger,
	}
}

// Enabled reports whether notifications can be delivered.
func (ns *NotificationService) Enabled() bool {
	return ns.bot != nil && ns.chatID != ""
}

// NotifyAssessment sends a message for GREEN assessments. Other verdicts and
// delivery failures are silent with respect to the evaluation itself.
func (ns *NotificationService) NotifyAssessment(ctx context.Context, assessment *models.OpportunityAssessment) error {
	if assessment.Summary.FinalDecision != models.StatusGreen {
		return nil
	}
	if !ns.Enabled() {
		return nil
	}

	_, err := ns.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: ns.chatID,
		Text:   FormatAssessmentMessage(assessment),
	})
	if err != nil {
		ns.logger.WithError(err).WithField("product_id", assessment.ProductID).
			Warn("Failed to deliver assessment notification")
		return fmt.Errorf("send assessment notification: %w", err)
	}
	return nil
}

// FormatAssessmentMessage renders the plain-text notification body.
func FormatAssessmentMessage(a *models.OpportunityAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Opportunity approved: %s (%s)\n", a.ProductID, a.Marketplace)
	fmt.Fprintf(&b, "Keyword: %s\n", a.Keyword)
	fmt.Fprintf(&b, "Score: %.1f/100\n", a.Summary.OverallScore)
	if a.Projections != nil && a.Projections.EstimatedProfitMargin != nil {
		fmt.Fprintf(&b, "Estimated margin: %.0f%%\n", *a.Projections.EstimatedProfitMargin)
	}
	if len(a.OpportunityFactors) > 0 {
		b.WriteString("Highlights:\n")
		for _, f := range a.OpportunityFactors {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	b.WriteString(a.Summary.Recommendation)
	return b.String()
}
