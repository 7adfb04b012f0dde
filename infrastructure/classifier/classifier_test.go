package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/infrastructure/provider"
	"github.com/scoutline/scoutline/internal/config"
)

// stubGenerator returns a canned completion or error.
type stubGenerator struct {
	content string
	err     error
}

func (s stubGenerator) ChatCompletion(context.Context, provider.ChatRequest) (provider.ChatResponse, error) {
	if s.err != nil {
		return provider.ChatResponse{}, s.err
	}
	return provider.NewChatResponse(s.content, "stop"), nil
}

func TestClassifyHiredAtIntroducedCompany(t *testing.T) {
	c := NewReplyClassifier(stubGenerator{content: `{
		"status": "hired_there",
		"company": "Acme Corp",
		"is_introduced_company": true,
		"confidence": "high",
		"risk_level": "HIGH",
		"risk_reason": "candidate reports starting at the introduced company",
		"summary": "Started at Acme Corp last month"
	}`}, nil)

	v := c.Classify(context.Background(), "I started at Acme Corp last month", "Acme Corp")

	assert.Equal(t, checkin.StatusHiredThere, v.Status)
	assert.True(t, v.IsIntroducedCompany)
	assert.Equal(t, checkin.RiskHigh, v.RiskLevel)
	assert.Equal(t, "Acme Corp", v.Company)
}

func TestClassifyDerivedRiskOverridesModel(t *testing.T) {
	// The model claims CLEAR; the derived rule says otherwise.
	c := NewReplyClassifier(stubGenerator{content: `{
		"status": "hired_there",
		"company": "Acme Corp",
		"is_introduced_company": true,
		"confidence": "high",
		"risk_level": "CLEAR"
	}`}, nil)

	v := c.Classify(context.Background(), "reply", "Acme Corp")
	assert.Equal(t, checkin.RiskHigh, v.RiskLevel)
}

func TestClassifyNameMatchOverridesAttribution(t *testing.T) {
	// The model missed the attribution but named the company.
	c := NewReplyClassifier(stubGenerator{content: `{
		"status": "offer",
		"company": "acme corp.",
		"is_introduced_company": false,
		"confidence": "medium"
	}`}, nil)

	v := c.Classify(context.Background(), "got an offer from acme corp.", "Acme Corp Inc")
	assert.True(t, v.IsIntroducedCompany)
	assert.Equal(t, checkin.RiskHigh, v.RiskLevel)
}

func TestClassifyToleratesCodeFences(t *testing.T) {
	c := NewReplyClassifier(stubGenerator{content: "Here is the classification:\n```json\n" + `{"status": "still_looking", "confidence": "high"}` + "\n```"}, nil)

	v := c.Classify(context.Background(), "still applying around", "Acme Corp")
	assert.Equal(t, checkin.StatusStillLooking, v.Status)
	assert.Equal(t, checkin.RiskLow, v.RiskLevel)
}

func TestClassifyProviderFailure(t *testing.T) {
	c := NewReplyClassifier(stubGenerator{err: errors.New("connection refused")}, nil)

	v := c.Classify(context.Background(), "any reply", "Acme Corp")

	// A dead classifier never clears a reply.
	assert.Equal(t, checkin.StatusUnclear, v.Status)
	assert.Equal(t, checkin.RiskMedium, v.RiskLevel)
	assert.Equal(t, checkin.ConfidenceLow, v.Confidence)
}

func TestClassifyUnparseableOutput(t *testing.T) {
	for _, content := range []string{"I cannot classify this.", "{broken json", ""} {
		c := NewReplyClassifier(stubGenerator{content: content}, nil)
		v := c.Classify(context.Background(), "any reply", "Acme Corp")
		assert.Equal(t, checkin.RiskMedium, v.RiskLevel, "content %q", content)
		assert.NotEqual(t, checkin.RiskClear, v.RiskLevel)
	}
}

func TestClassifyClampsUnknownEnums(t *testing.T) {
	c := NewReplyClassifier(stubGenerator{content: `{"status": "EMPLOYED", "confidence": "certain"}`}, nil)

	v := c.Classify(context.Background(), "reply", "Acme Corp")
	assert.Equal(t, checkin.StatusUnclear, v.Status)
	assert.Equal(t, checkin.ConfidenceLow, v.Confidence)
	assert.Equal(t, checkin.RiskMedium, v.RiskLevel)
}

func TestUnconfiguredClassifier(t *testing.T) {
	cls := New(config.EnvConfig{}.ToAppConfig().Classifier(), nil)
	assert.IsType(t, Unconfigured{}, cls)

	v := cls.Classify(context.Background(), "reply", "Acme Corp")
	assert.Equal(t, checkin.StatusUnclear, v.Status)
	assert.Equal(t, checkin.RiskMedium, v.RiskLevel)
}

func TestCompaniesMatch(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"Acme Corp", "acme corp.", true},
		{"Acme Inc", "Acme", true},
		{"Acme GmbH", "ACME", true},
		{"Acme", "Apex", false},
		{"", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, companiesMatch(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
