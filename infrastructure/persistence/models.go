// Package persistence provides database storage implementations.
package persistence

import (
	"time"
)

// IntroductionModel is the GORM model for introductions.
type IntroductionModel struct {
	ID                   int64      `gorm:"primaryKey;autoIncrement"`
	EmployerID           int64      `gorm:"not null;uniqueIndex:idx_introductions_pair,priority:1"`
	CandidateID          int64      `gorm:"not null;uniqueIndex:idx_introductions_pair,priority:2"`
	JobID                *int64     `gorm:"index"`
	Status               string     `gorm:"size:32;not null;index"`
	CandidateResponse    string     `gorm:"size:16;not null;default:'PENDING'"`
	CandidateMessage     string     `gorm:"type:text"`
	ProfileViewedAt      *time.Time ``
	IntroRequestedAt     *time.Time ``
	CandidateRespondedAt *time.Time ``
	IntroducedAt         *time.Time ``
	ProtectionStartsAt   *time.Time ``
	ProtectionEndsAt     *time.Time `gorm:"index"`
	ResponseToken        *string    `gorm:"size:64;uniqueIndex"`
	ResponseTokenExpiry  *time.Time ``
	// ConsumedToken keeps the last spent token so a double submission can be
	// told apart from a token that never existed.
	ConsumedToken   *string `gorm:"size:64;index"`
	ProfileViews    int     `gorm:"not null;default:0"`
	ResumeDownloads int     `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the GORM default.
func (IntroductionModel) TableName() string { return "introductions" }

// CheckInModel is the GORM model for check-ins.
type CheckInModel struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement"`
	IntroductionID      int64      `gorm:"not null;uniqueIndex:idx_check_ins_intro_number,priority:1"`
	CheckInNumber       int        `gorm:"not null;uniqueIndex:idx_check_ins_intro_number,priority:2"`
	ScheduledFor        time.Time  `gorm:"not null;index"`
	SentAt              *time.Time `gorm:"index"`
	RespondedAt         *time.Time ``
	ResponseRaw         string     `gorm:"type:text"`
	ResponseParsed      string     `gorm:"type:text"`
	RiskLevel           string     `gorm:"size:16;index"`
	RiskReason          string     `gorm:"type:text"`
	FlaggedForReview    bool       `gorm:"not null;default:false;index"`
	ReviewedAt          *time.Time ``
	ReviewedBy          string     `gorm:"size:255"`
	ReviewNotes         string     `gorm:"type:text"`
	ResponseToken       *string    `gorm:"size:64;uniqueIndex"`
	ResponseTokenExpiry *time.Time ``
	ConsumedToken       *string    `gorm:"size:64;index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName overrides the GORM default.
func (CheckInModel) TableName() string { return "check_ins" }

// CircumventionFlagModel is the GORM model for circumvention flags.
type CircumventionFlagModel struct {
	ID               int64      `gorm:"primaryKey;autoIncrement"`
	IntroductionID   int64      `gorm:"not null;index"`
	CheckInID        *int64     `gorm:"index"`
	DetectionMethod  string     `gorm:"size:32;not null"`
	Evidence         string     `gorm:"type:text"`
	EstimatedSalary  float64    ``
	FeePercentage    float64    ``
	EstimatedFeeOwed float64    ``
	Status           string     `gorm:"size:16;not null;index"`
	ResolvedAt       *time.Time ``
	Resolution       string     `gorm:"size:32"`
	ResolutionNotes  string     `gorm:"type:text"`
	InvoiceSentAt    *time.Time ``
	InvoiceAmount    float64    ``
	InvoicePaidAt    *time.Time ``
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName overrides the GORM default.
func (CircumventionFlagModel) TableName() string { return "circumvention_flags" }

// ReviewNoteModel is the GORM model for flag review notes.
type ReviewNoteModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	FlagID    int64  `gorm:"not null;index"`
	Actor     string `gorm:"size:255;not null"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// TableName overrides the GORM default.
func (ReviewNoteModel) TableName() string { return "flag_review_notes" }

// PlacementModel is the GORM model for placements.
type PlacementModel struct {
	ID              int64      `gorm:"primaryKey;autoIncrement"`
	IntroductionID  int64      `gorm:"not null;index"`
	EmployerEmail   string     `gorm:"size:255;not null"`
	CandidateName   string     `gorm:"size:255;not null"`
	StartDate       time.Time  ``
	Salary          float64    ``
	UpfrontAmount   float64    ``
	UpfrontPaidAt   *time.Time ``
	RemainingAmount float64    ``
	RemainingPaidAt *time.Time ``
	PaymentStatus   string     `gorm:"size:16;not null;index"`
	LastReminderAt  *time.Time ``
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the GORM default.
func (PlacementModel) TableName() string { return "placements" }
