package checkin

// ReplyStatus is the bounded employment status extracted from a reply.
type ReplyStatus string

// ReplyStatus values.
const (
	StatusHiredThere     ReplyStatus = "hired_there"
	StatusHiredElsewhere ReplyStatus = "hired_elsewhere"
	StatusInterviewing   ReplyStatus = "interviewing"
	StatusOffer          ReplyStatus = "offer"
	StatusRejected       ReplyStatus = "rejected"
	StatusWithdrew       ReplyStatus = "withdrew"
	StatusStillLooking   ReplyStatus = "still_looking"
	StatusNoResponse     ReplyStatus = "no_response"
	StatusUnclear        ReplyStatus = "unclear"
)

// Known reports whether s is one of the bounded status values.
func (s ReplyStatus) Known() bool {
	switch s {
	case StatusHiredThere, StatusHiredElsewhere, StatusInterviewing,
		StatusOffer, StatusRejected, StatusWithdrew,
		StatusStillLooking, StatusNoResponse, StatusUnclear:
		return true
	}
	return false
}

// Confidence is the classifier's self-reported confidence.
type Confidence string

// Confidence values.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Known reports whether c is one of the bounded confidence values.
func (c Confidence) Known() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// RiskLevel is the bounded circumvention risk taxonomy.
type RiskLevel string

// RiskLevel values.
const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
	RiskClear  RiskLevel = "CLEAR"
)

// Verdict is the classifier's structured output for one reply.
type Verdict struct {
	Status              ReplyStatus `json:"status"`
	Company             string      `json:"company,omitempty"`
	IsIntroducedCompany bool        `json:"is_introduced_company"`
	EmploymentType      string      `json:"employment_type,omitempty"`
	StartDate           string      `json:"start_date,omitempty"`
	Salary              string      `json:"salary,omitempty"`
	RoleTitle           string      `json:"role_title,omitempty"`
	Confidence          Confidence  `json:"confidence"`
	RiskLevel           RiskLevel   `json:"risk_level"`
	RiskReason          string      `json:"risk_reason,omitempty"`
	SuggestedAction     string      `json:"suggested_action,omitempty"`
	Summary             string      `json:"summary,omitempty"`
}

// DeriveRisk maps a verdict's status and company attribution to the risk
// taxonomy. The model's own risk_level is advisory; this rule is the
// authoritative one and is applied after parsing:
//
//   - employment at the introduced company is HIGH
//   - a hire or offer without clear company attribution is MEDIUM,
//     as are unclear and silent replies
//   - still searching or interviewing elsewhere is LOW
//   - rejected, withdrew, or clearly hired at a different company is CLEAR
func DeriveRisk(status ReplyStatus, isIntroducedCompany bool) RiskLevel {
	switch status {
	case StatusHiredThere:
		return RiskHigh
	case StatusOffer, StatusHiredElsewhere:
		if isIntroducedCompany {
			return RiskHigh
		}
		if status == StatusOffer {
			return RiskMedium
		}
		return RiskClear
	case StatusInterviewing, StatusStillLooking:
		if isIntroducedCompany {
			return RiskMedium
		}
		return RiskLow
	case StatusRejected, StatusWithdrew:
		return RiskClear
	default: // unclear, no_response, anything unexpected
		return RiskMedium
	}
}

// SafeDefault is the verdict used when the classification service is down
// or returns unparseable output. It must never default to CLEAR: a false
// negative directly costs the agency its fee.
func SafeDefault(reason string) Verdict {
	return Verdict{
		Status:          StatusUnclear,
		Confidence:      ConfidenceLow,
		RiskLevel:       RiskMedium,
		RiskReason:      reason,
		SuggestedAction: "manual review required: reply could not be classified automatically",
		Summary:         "classification unavailable",
	}
}
