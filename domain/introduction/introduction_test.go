package introduction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIntroduction(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	i := New(7, 11, now, 12)

	assert.Equal(t, int64(7), i.EmployerID())
	assert.Equal(t, int64(11), i.CandidateID())
	assert.Equal(t, StatusProfileViewed, i.Status())
	assert.Equal(t, ResponsePending, i.CandidateResponse())
	assert.Equal(t, now, i.ProfileViewedAt())
	assert.Equal(t, 1, i.ProfileViews())

	// The protection window is fixed at first contact and never moves.
	assert.Equal(t, now, i.ProtectionStartsAt())
	assert.Equal(t, now.AddDate(0, 12, 0), i.ProtectionEndsAt())
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCandidateDeclined.Terminal())
	assert.True(t, StatusExpired.Terminal())
	assert.False(t, StatusProfileViewed.Terminal())
	assert.False(t, StatusIntroRequested.Terminal())
	assert.False(t, StatusIntroduced.Terminal())
}

func TestResponseValid(t *testing.T) {
	assert.True(t, ResponseAccepted.Valid())
	assert.True(t, ResponseDeclined.Valid())
	assert.True(t, ResponseQuestions.Valid())

	// PENDING is a stored state, not a submittable answer.
	assert.False(t, ResponsePending.Valid())
	assert.False(t, Response("MAYBE").Valid())
}

func TestRequestPending(t *testing.T) {
	now := time.Now()

	pending := Reconstruct(Record{Status: StatusIntroRequested, CandidateResponse: ResponsePending})
	assert.True(t, pending.RequestPending())

	answered := Reconstruct(Record{Status: StatusIntroRequested, CandidateResponse: ResponseQuestions})
	assert.False(t, answered.RequestPending())

	viewed := New(1, 2, now, 12)
	assert.False(t, viewed.RequestPending())
}

func TestProtectionLapsed(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	i := New(1, 2, start, 12)

	assert.False(t, i.ProtectionLapsed(start.AddDate(0, 11, 29)))
	assert.True(t, i.ProtectionLapsed(start.AddDate(0, 12, 1)))
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	i := Reconstruct(Record{ResponseToken: "tok", ResponseTokenExpiry: now.AddDate(0, 0, 7)})
	assert.False(t, i.TokenExpired(now))
	assert.True(t, i.TokenExpired(now.AddDate(0, 0, 8)))

	consumed := Reconstruct(Record{ResponseToken: ""})
	assert.True(t, consumed.TokenExpired(now))
}
