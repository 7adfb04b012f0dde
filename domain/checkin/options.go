package checkin

import (
	"time"

	"github.com/scoutline/scoutline/domain/query"
)

// WithIntroduction filters by the "introduction_id" column.
func WithIntroduction(id int64) query.Option {
	return query.WithCondition("introduction_id", id)
}

// WithNumber filters by the "check_in_number" column.
func WithNumber(n int) query.Option {
	return query.WithCondition("check_in_number", n)
}

// WithToken filters by the "response_token" column.
func WithToken(token string) query.Option {
	return query.WithCondition("response_token", token)
}

// WithRiskLevel filters by the "risk_level" column.
func WithRiskLevel(level RiskLevel) query.Option {
	return query.WithCondition("risk_level", string(level))
}

// WithFlagged filters by the "flagged_for_review" column.
func WithFlagged(flagged bool) query.Option {
	return query.WithCondition("flagged_for_review", flagged)
}

// Unsent filters check-ins that have not been dispatched.
func Unsent() query.Option {
	return query.WithWhere("sent_at IS NULL")
}

// DueBy filters check-ins scheduled at or before t.
func DueBy(t time.Time) query.Option {
	return query.WithWhere("scheduled_for <= ?", t)
}
