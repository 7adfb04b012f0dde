// Package introduction provides the protected employer-candidate
// relationship and its lifecycle state machine.
package introduction

import (
	"time"
)

// Status is the lifecycle state of an introduction.
type Status string

// Status values. CANDIDATE_DECLINED and EXPIRED are terminal.
const (
	StatusProfileViewed     Status = "PROFILE_VIEWED"
	StatusIntroRequested    Status = "INTRO_REQUESTED"
	StatusIntroduced        Status = "INTRODUCED"
	StatusCandidateDeclined Status = "CANDIDATE_DECLINED"
	StatusExpired           Status = "EXPIRED"
)

// Terminal returns true for states no transition may leave.
func (s Status) Terminal() bool {
	return s == StatusCandidateDeclined || s == StatusExpired
}

// Response is the candidate's answer to an introduction request.
type Response string

// Response values.
const (
	ResponsePending   Response = "PENDING"
	ResponseAccepted  Response = "ACCEPTED"
	ResponseDeclined  Response = "DECLINED"
	ResponseQuestions Response = "QUESTIONS"
)

// Valid reports whether r is one of the answerable responses. PENDING is a
// stored state, not an answer a candidate can submit.
func (r Response) Valid() bool {
	switch r {
	case ResponseAccepted, ResponseDeclined, ResponseQuestions:
		return true
	}
	return false
}

// Introduction is one row per (employer, candidate) pair, anchored to a
// protection window that is computed once at first profile view and never
// moved.
type Introduction struct {
	id                   int64
	employerID           int64
	candidateID          int64
	jobID                *int64
	status               Status
	candidateResponse    Response
	candidateMessage     string
	profileViewedAt      time.Time
	introRequestedAt     time.Time
	candidateRespondedAt time.Time
	introducedAt         time.Time
	protectionStartsAt   time.Time
	protectionEndsAt     time.Time
	responseToken        string
	responseTokenExpiry  time.Time
	profileViews         int
	resumeDownloads      int
	createdAt            time.Time
	updatedAt            time.Time
}

// New creates an introduction at first profile view. The protection window
// starts now and runs for protectionMonths.
func New(employerID, candidateID int64, now time.Time, protectionMonths int) Introduction {
	return Introduction{
		employerID:         employerID,
		candidateID:        candidateID,
		status:             StatusProfileViewed,
		candidateResponse:  ResponsePending,
		profileViewedAt:    now,
		protectionStartsAt: now,
		protectionEndsAt:   now.AddDate(0, protectionMonths, 0),
		profileViews:       1,
		createdAt:          now,
		updatedAt:          now,
	}
}

// Record carries every persisted field for reconstruction from storage.
type Record struct {
	ID                   int64
	EmployerID           int64
	CandidateID          int64
	JobID                *int64
	Status               Status
	CandidateResponse    Response
	CandidateMessage     string
	ProfileViewedAt      time.Time
	IntroRequestedAt     time.Time
	CandidateRespondedAt time.Time
	IntroducedAt         time.Time
	ProtectionStartsAt   time.Time
	ProtectionEndsAt     time.Time
	ResponseToken        string
	ResponseTokenExpiry  time.Time
	ProfileViews         int
	ResumeDownloads      int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Reconstruct rebuilds an Introduction from storage.
func Reconstruct(rec Record) Introduction {
	return Introduction{
		id:                   rec.ID,
		employerID:           rec.EmployerID,
		candidateID:          rec.CandidateID,
		jobID:                rec.JobID,
		status:               rec.Status,
		candidateResponse:    rec.CandidateResponse,
		candidateMessage:     rec.CandidateMessage,
		profileViewedAt:      rec.ProfileViewedAt,
		introRequestedAt:     rec.IntroRequestedAt,
		candidateRespondedAt: rec.CandidateRespondedAt,
		introducedAt:         rec.IntroducedAt,
		protectionStartsAt:   rec.ProtectionStartsAt,
		protectionEndsAt:     rec.ProtectionEndsAt,
		responseToken:        rec.ResponseToken,
		responseTokenExpiry:  rec.ResponseTokenExpiry,
		profileViews:         rec.ProfileViews,
		resumeDownloads:      rec.ResumeDownloads,
		createdAt:            rec.CreatedAt,
		updatedAt:            rec.UpdatedAt,
	}
}

// ID returns the persistence identifier (0 before first save).
func (i Introduction) ID() int64 { return i.id }

// EmployerID returns the employer reference.
func (i Introduction) EmployerID() int64 { return i.employerID }

// CandidateID returns the candidate reference.
func (i Introduction) CandidateID() int64 { return i.candidateID }

// JobID returns the optional job reference.
func (i Introduction) JobID() *int64 { return i.jobID }

// Status returns the lifecycle state.
func (i Introduction) Status() Status { return i.status }

// CandidateResponse returns the candidate's recorded answer.
func (i Introduction) CandidateResponse() Response { return i.candidateResponse }

// CandidateMessage returns the free-text message attached to the response.
func (i Introduction) CandidateMessage() string { return i.candidateMessage }

// ProfileViewedAt returns the first profile view time.
func (i Introduction) ProfileViewedAt() time.Time { return i.profileViewedAt }

// IntroRequestedAt returns when the employer requested the introduction.
func (i Introduction) IntroRequestedAt() time.Time { return i.introRequestedAt }

// CandidateRespondedAt returns when the candidate responded.
func (i Introduction) CandidateRespondedAt() time.Time { return i.candidateRespondedAt }

// IntroducedAt returns when the introduction was accepted.
func (i Introduction) IntroducedAt() time.Time { return i.introducedAt }

// ProtectionStartsAt returns the protection window start.
func (i Introduction) ProtectionStartsAt() time.Time { return i.protectionStartsAt }

// ProtectionEndsAt returns the protection window end. This is the sole gate
// for the expiry workflow.
func (i Introduction) ProtectionEndsAt() time.Time { return i.protectionEndsAt }

// ResponseToken returns the current single-use token ("" when consumed).
func (i Introduction) ResponseToken() string { return i.responseToken }

// ResponseTokenExpiry returns the token expiry.
func (i Introduction) ResponseTokenExpiry() time.Time { return i.responseTokenExpiry }

// ProfileViews returns the profile view counter.
func (i Introduction) ProfileViews() int { return i.profileViews }

// ResumeDownloads returns the resume download counter.
func (i Introduction) ResumeDownloads() int { return i.resumeDownloads }

// CreatedAt returns the row creation time.
func (i Introduction) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the last modification time.
func (i Introduction) UpdatedAt() time.Time { return i.updatedAt }

// RequestPending reports whether an introduction request is awaiting a
// candidate response.
func (i Introduction) RequestPending() bool {
	return i.status == StatusIntroRequested && i.candidateResponse == ResponsePending
}

// TokenExpired reports whether the current token has lapsed at now.
func (i Introduction) TokenExpired(now time.Time) bool {
	return i.responseToken == "" || now.After(i.responseTokenExpiry)
}

// ProtectionLapsed reports whether the protection window has passed at now.
func (i Introduction) ProtectionLapsed(now time.Time) bool {
	return now.After(i.protectionEndsAt)
}
