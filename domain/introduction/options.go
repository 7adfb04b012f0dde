package introduction

import (
	"time"

	"github.com/scoutline/scoutline/domain/query"
)

// WithEmployer filters by the "employer_id" column.
func WithEmployer(id int64) query.Option {
	return query.WithCondition("employer_id", id)
}

// WithCandidate filters by the "candidate_id" column.
func WithCandidate(id int64) query.Option {
	return query.WithCondition("candidate_id", id)
}

// WithPair filters to the unique (employer, candidate) row.
func WithPair(employerID, candidateID int64) query.Option {
	return func(q query.Query) query.Query {
		q = WithEmployer(employerID)(q)
		return WithCandidate(candidateID)(q)
	}
}

// WithStatus filters by the "status" column.
func WithStatus(s Status) query.Option {
	return query.WithCondition("status", string(s))
}

// WithToken filters by the "response_token" column.
func WithToken(token string) query.Option {
	return query.WithCondition("response_token", token)
}

// WithProtectionEndingBefore filters introductions whose window ends before t.
func WithProtectionEndingBefore(t time.Time) query.Option {
	return query.WithWhere("protection_ends_at < ?", t)
}

// WithProtectionEndingBetween filters introductions whose window ends in
// [from, to). Used by the advance-warning pass.
func WithProtectionEndingBetween(from, to time.Time) query.Option {
	return query.WithWhere("protection_ends_at >= ? AND protection_ends_at < ?", from, to)
}
