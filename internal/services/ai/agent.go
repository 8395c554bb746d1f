package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/services/intent"
	"github.com/sirupsen/logrus"
)

// Agent runs the full pipeline for a chat query: intent detection,
// entity extraction, prompt guidance, generation, and post-processing.
type Agent struct {
	classifier *intent.Classifier
	gateway    *Gateway
	logger     *logrus.Logger
}

func NewAgent(classifier *intent.Classifier, gateway *Gateway, logger *logrus.Logger) *Agent {
	return &Agent{
		classifier: classifier,
		gateway:    gateway,
		logger:     logger,
	}
}

// ProcessQuery answers a user message against the current system
// context. It never fails; degraded answers are flagged via AIEnabled.
func (a *Agent) ProcessQuery(ctx context.Context, message string, sysCtx *models.SystemContext, history []models.ChatTurn) models.GenerationResult {
	detected := a.classifier.DetectIntent(message)
	entities := a.classifier.ExtractEntities(message)
	followUp := a.classifier.IsFollowUp(message)

	a.logger.WithFields(logrus.Fields{
		"intent":    string(detected),
		"entities":  entities,
		"follow_up": followUp,
	}).Debug("Classified user query")

	guidance := intent.Guidance(detected, sysCtx)

	result := a.gateway.Chat(ctx, message, guidance, sysCtx, history)

	text := a.enhanceResponse(result.Text, detected, sysCtx)

	return models.GenerationResult{
		Response:   text,
		Intent:     string(detected),
		Entities:   entities,
		IsFollowUp: followUp,
		AIEnabled:  result.AIEnabled,
	}
}

// enhanceResponse appends a data footer when the generated text
// misses the figures the detected intent implies.
func (a *Agent) enhanceResponse(text string, detected intent.Intent, sysCtx *models.SystemContext) string {
	lower := strings.ToLower(text)

	switch detected {
	case intent.IntentAlerts:
		if count := len(sysCtx.RecentAlerts); count > 0 && !strings.Contains(lower, "alert") {
			text += fmt.Sprintf("\n\n---\n**Quick Alert Summary**: %d active alert(s)", count)
		}
	case intent.IntentEnergy:
		total := sysCtx.TotalPower()
		if !strings.Contains(lower, fmt.Sprintf("%d", int64(total))) {
			text += fmt.Sprintf("\n\n---\n**Current Total Power**: %s", formatWatts(total))
		}
	}

	return text
}

func formatWatts(w float64) string {
	if w == float64(int64(w)) {
		return fmt.Sprintf("%dW", int64(w))
	}
	return fmt.Sprintf("%.1fW", w)
}
