package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/i18n"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/sirupsen/logrus"
)

const anonymousUser = "anonymous"

// userIDFromRequest derives a stable per-user identity from the
// Authorization header. Unauthenticated callers share one anonymous
// quota bucket.
func userIDFromRequest(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return anonymousUser
	}

	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if token == "" {
		return anonymousUser
	}
	if len(token) > 20 {
		token = token[:20]
	}
	return "user_" + token
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}

// respondQuotaExceeded writes the 429 body carrying the quota state
func respondQuotaExceeded(w http.ResponseWriter, localizer *i18n.Localizer, check models.RateCheck, actionType string) {
	respondJSON(w, http.StatusTooManyRequests, models.QuotaExceededResponse{
		Error: localizer.Get("en", i18n.MsgRateLimitExceeded, map[string]interface{}{
			"Limit":   check.Limit,
			"Action":  actionType,
			"ResetAt": check.ResetAt.Format(time.RFC3339),
		}),
		Limit:     check.Limit,
		Remaining: check.Remaining,
		ResetAt:   check.ResetAt,
	})
}
