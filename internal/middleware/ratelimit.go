package middleware

import (
	"sync"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/config"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// QuotaLimiter tracks per-user, per-action usage against a rolling
// daily quota
type QuotaLimiter interface {
	Check(userID, actionType string, limit int) models.RateCheck
	Increment(userID, actionType string) int
	UsageStats(userID string) map[string]models.ActionUsage
	Reset(userID, actionType string)
}

type usageRecord struct {
	count   int
	resetAt time.Time
}

type quotaKey struct {
	userID string
	action string
}

// DailyQuotaLimiter is an in-memory daily quota limiter. Counters
// reset at the next local midnight, evaluated lazily by Check.
type DailyQuotaLimiter struct {
	mu      sync.Mutex
	records map[quotaKey]*usageRecord
	logger  *logrus.Logger
	now     func() time.Time
}

// NewQuotaLimiter creates a new daily quota limiter
func NewQuotaLimiter(logger *logrus.Logger) *DailyQuotaLimiter {
	return &DailyQuotaLimiter{
		records: make(map[quotaKey]*usageRecord),
		logger:  logger,
		now:     time.Now,
	}
}

// Check reports whether the user has quota left for the action. An
// expired or missing window is reset here, as a side effect of the
// check itself. The count is not consumed; callers increment after
// the work succeeds.
func (q *DailyQuotaLimiter) Check(userID, actionType string, limit int) models.RateCheck {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	key := quotaKey{userID: userID, action: actionType}

	rec, exists := q.records[key]
	if !exists {
		rec = &usageRecord{}
		q.records[key] = rec
	}

	if rec.resetAt.IsZero() || !now.Before(rec.resetAt) {
		rec.count = 0
		rec.resetAt = nextMidnight(now)
	}

	remaining := limit - rec.count
	if remaining < 0 {
		remaining = 0
	}

	check := models.RateCheck{
		Allowed:      rec.count < limit,
		Remaining:    remaining,
		Limit:        limit,
		ResetAt:      rec.resetAt,
		CurrentCount: rec.count,
	}

	if !check.Allowed {
		q.logger.WithFields(logrus.Fields{
			"user_id":     userID,
			"action_type": actionType,
			"limit":       limit,
		}).Warn("Daily quota exceeded")
	}

	return check
}

// Increment records one completed action and returns the new count.
// It does not reset expired windows; callers must Check first.
func (q *DailyQuotaLimiter) Increment(userID, actionType string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := quotaKey{userID: userID, action: actionType}
	rec, exists := q.records[key]
	if !exists {
		rec = &usageRecord{}
		q.records[key] = rec
	}

	rec.count++
	return rec.count
}

// UsageStats returns the current usage records for a user
func (q *DailyQuotaLimiter) UsageStats(userID string) map[string]models.ActionUsage {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := make(map[string]models.ActionUsage)
	for key, rec := range q.records {
		if key.userID != userID {
			continue
		}
		resetAt := rec.resetAt
		if resetAt.IsZero() {
			resetAt = nextMidnight(q.now())
		}
		stats[key.action] = models.ActionUsage{
			Count:   rec.count,
			ResetAt: resetAt,
		}
	}
	return stats
}

// Reset clears the usage record for a user. An empty actionType
// clears all of the user's records.
func (q *DailyQuotaLimiter) Reset(userID, actionType string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if actionType != "" {
		delete(q.records, quotaKey{userID: userID, action: actionType})
		return
	}
	for key := range q.records {
		if key.userID == userID {
			delete(q.records, key)
		}
	}
}

// nextMidnight returns the start of the next calendar day in the
// timestamp's location
func nextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}

// BurstLimiter caps short-term request rates per user, in front of
// the daily quota
type BurstLimiter interface {
	Allow(userID string) bool
}

// UserBurstLimiter implements per-user requests-per-minute limiting
type UserBurstLimiter struct {
	enabled  bool
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rpm      int
	burst    int
	logger   *logrus.Logger
}

// NewBurstLimiter creates a new burst limiter
func NewBurstLimiter(cfg *config.RateLimitConfig, logger *logrus.Logger) BurstLimiter {
	if !cfg.BurstEnabled {
		return &UserBurstLimiter{enabled: false}
	}

	return &UserBurstLimiter{
		enabled:  true,
		limiters: make(map[string]*rate.Limiter),
		rpm:      cfg.RequestsPerMinute,
		burst:    cfg.Burst,
		logger:   logger,
	}
}

// Allow checks if a user is allowed to make a request
func (r *UserBurstLimiter) Allow(userID string) bool {
	if !r.enabled {
		return true
	}

	limiter := r.getLimiter(userID)
	allowed := limiter.Allow()

	if !allowed {
		r.logger.WithFields(logrus.Fields{
			"user_id": userID,
		}).Warn("Burst rate limit exceeded")
	}

	return allowed
}

// getLimiter gets or creates a rate limiter for a user
func (r *UserBurstLimiter) getLimiter(userID string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[userID]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := r.limiters[userID]; exists {
		return limiter
	}

	rps := float64(r.rpm) / 60.0
	limiter = rate.NewLimiter(rate.Limit(rps), r.burst)
	r.limiters[userID] = limiter

	return limiter
}
