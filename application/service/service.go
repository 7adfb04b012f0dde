// Package service implements the protection engine's business processes on
// top of the persistence stores and external collaborators.
package service

import (
	"context"
	"time"
)

// Clock supplies the current time. Batch passes and token issuance take it
// as a dependency so tests can pin the day.
type Clock func() time.Time

// AgreementChecker answers whether an employer has an active service
// agreement. The agreement itself is owned by the surrounding application.
type AgreementChecker interface {
	HasActiveAgreement(ctx context.Context, employerID int64) (bool, error)
}

// OpenAgreements accepts every employer. It is the integration point for
// deployments that gate agreements elsewhere.
type OpenAgreements struct{}

// HasActiveAgreement always returns true.
func (OpenAgreements) HasActiveAgreement(context.Context, int64) (bool, error) {
	return true, nil
}

// endOfDay returns the last instant of t's calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// startOfDay returns midnight of t's calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
