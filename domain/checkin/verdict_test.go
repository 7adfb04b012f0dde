package checkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRisk(t *testing.T) {
	tests := []struct {
		name              string
		status            ReplyStatus
		introducedCompany bool
		expected          RiskLevel
	}{
		{name: "hired at introduced company", status: StatusHiredThere, introducedCompany: true, expected: RiskHigh},
		{name: "hired there even without attribution flag", status: StatusHiredThere, introducedCompany: false, expected: RiskHigh},
		{name: "offer from introduced company", status: StatusOffer, introducedCompany: true, expected: RiskHigh},
		{name: "offer elsewhere", status: StatusOffer, introducedCompany: false, expected: RiskMedium},
		{name: "hired elsewhere but attributed to introduced company", status: StatusHiredElsewhere, introducedCompany: true, expected: RiskHigh},
		{name: "hired elsewhere", status: StatusHiredElsewhere, introducedCompany: false, expected: RiskClear},
		{name: "interviewing at introduced company", status: StatusInterviewing, introducedCompany: true, expected: RiskMedium},
		{name: "interviewing elsewhere", status: StatusInterviewing, introducedCompany: false, expected: RiskLow},
		{name: "still looking", status: StatusStillLooking, introducedCompany: false, expected: RiskLow},
		{name: "rejected", status: StatusRejected, introducedCompany: false, expected: RiskClear},
		{name: "withdrew", status: StatusWithdrew, introducedCompany: true, expected: RiskClear},
		{name: "unclear", status: StatusUnclear, introducedCompany: false, expected: RiskMedium},
		{name: "no response", status: StatusNoResponse, introducedCompany: false, expected: RiskMedium},
		{name: "unknown status falls to medium", status: ReplyStatus("gibberish"), introducedCompany: false, expected: RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveRisk(tt.status, tt.introducedCompany))
		})
	}
}

func TestSafeDefaultNeverClear(t *testing.T) {
	v := SafeDefault("service unavailable")

	assert.Equal(t, StatusUnclear, v.Status)
	assert.Equal(t, ConfidenceLow, v.Confidence)
	assert.Equal(t, RiskMedium, v.RiskLevel)
	assert.NotEqual(t, RiskClear, v.RiskLevel)
	assert.Equal(t, "service unavailable", v.RiskReason)
	assert.NotEmpty(t, v.SuggestedAction)
}

func TestReplyStatusKnown(t *testing.T) {
	for _, s := range []ReplyStatus{
		StatusHiredThere, StatusHiredElsewhere, StatusInterviewing, StatusOffer,
		StatusRejected, StatusWithdrew, StatusStillLooking, StatusNoResponse, StatusUnclear,
	} {
		assert.True(t, s.Known(), "status %q should be known", s)
	}
	assert.False(t, ReplyStatus("HIRED_THERE").Known())
	assert.False(t, ReplyStatus("").Known())
}

func TestConfidenceKnown(t *testing.T) {
	for _, c := range []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow} {
		assert.True(t, c.Known())
	}
	assert.False(t, Confidence("certain").Known())
}
