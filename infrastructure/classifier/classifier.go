// Package classifier reduces free-text candidate replies to the bounded
// risk taxonomy using a chat-completion service. It never fails open: any
// provider or parse failure yields the safe default verdict, because a
// silently dropped reply or a false CLEAR costs the agency its fee.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scoutline/scoutline/domain/checkin"
	"github.com/scoutline/scoutline/infrastructure/provider"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/log"
)

// Classifier turns a candidate reply into a structured verdict.
type Classifier interface {
	Classify(ctx context.Context, replyText, introducedCompany string) checkin.Verdict
}

// New builds the configured classifier. An unconfigured endpoint yields a
// typed degraded classifier rather than a nil to be discovered mid-call.
func New(cfg config.ClassifierConfig, logger *log.Logger) Classifier {
	if logger == nil {
		logger = log.Default()
	}
	if !cfg.Configured() {
		logger.Warn("classification endpoint not configured, all replies will require manual review")
		return Unconfigured{log: logger}
	}

	gen := provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey:     cfg.APIKey(),
		BaseURL:    cfg.BaseURL(),
		Model:      cfg.Model(),
		Timeout:    cfg.Timeout(),
		MaxRetries: cfg.MaxRetries(),
	})
	return NewReplyClassifier(gen, logger)
}

// Unconfigured is the classifier used when no endpoint is configured.
// Every reply gets the safe default so nothing is dropped.
type Unconfigured struct {
	log *log.Logger
}

// Classify returns the safe default verdict.
func (u Unconfigured) Classify(_ context.Context, _, _ string) checkin.Verdict {
	u.log.Warn("classifying without a configured endpoint")
	return checkin.SafeDefault("classification service not configured")
}

// ReplyClassifier classifies replies through a TextGenerator.
type ReplyClassifier struct {
	generator   provider.TextGenerator
	maxTokens   int
	temperature float64
	log         *log.Logger
}

// NewReplyClassifier creates a ReplyClassifier.
func NewReplyClassifier(generator provider.TextGenerator, logger *log.Logger) ReplyClassifier {
	if logger == nil {
		logger = log.Default()
	}
	return ReplyClassifier{
		generator:   generator,
		maxTokens:   1024,
		temperature: 0.1,
		log:         logger,
	}
}

const systemPrompt = `You are a classifier for a recruiting agency. A candidate was introduced to a company through the agency and now replied to a check-in email asking about their employment status. Classify the reply.

Respond with a single JSON object and nothing else, using exactly these fields:
{
  "status": one of "hired_there", "hired_elsewhere", "interviewing", "offer", "rejected", "withdrew", "still_looking", "no_response", "unclear",
  "company": company name mentioned in the reply, or "",
  "is_introduced_company": true if the reply refers to employment, an offer, or interviews at the introduced company,
  "employment_type": e.g. "full-time", "contract", or "",
  "start_date": start date text as written, or "",
  "salary": salary text as written, or "",
  "role_title": role title mentioned, or "",
  "confidence": one of "high", "medium", "low",
  "risk_level": one of "HIGH", "MEDIUM", "LOW", "CLEAR",
  "risk_reason": one sentence explaining the risk,
  "suggested_action": short recommendation for the agency,
  "summary": one-sentence summary of the reply
}

"hired_there" means the candidate works at the introduced company. "hired_elsewhere" means they work at a different company. Use "unclear" when the reply does not answer the question.`

// Classify sends the reply to the model and post-processes the verdict.
// The model's risk_level is advisory only; the authoritative risk comes
// from checkin.DeriveRisk over the parsed status and company attribution.
func (c ReplyClassifier) Classify(ctx context.Context, replyText, introducedCompany string) checkin.Verdict {
	userPrompt := fmt.Sprintf("Introduced company: %s\n\nCandidate reply:\n%s", introducedCompany, replyText)

	req := provider.NewChatRequest([]provider.Message{
		provider.SystemMessage(systemPrompt),
		provider.UserMessage(userPrompt),
	}).WithMaxTokens(c.maxTokens).WithTemperature(c.temperature)

	resp, err := c.generator.ChatCompletion(ctx, req)
	if err != nil {
		c.log.Error("classification request failed", "error", err)
		return checkin.SafeDefault("classification service unavailable")
	}

	verdict, err := parseVerdict(resp.Content())
	if err != nil {
		c.log.Error("classification output unparseable", "error", err, "content", resp.Content())
		return checkin.SafeDefault("classification output could not be parsed")
	}

	return normalize(verdict, introducedCompany)
}

// parseVerdict extracts the JSON object from the model output, tolerating
// code fences and prose around it.
func parseVerdict(content string) (checkin.Verdict, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return checkin.Verdict{}, fmt.Errorf("no JSON object in output")
	}

	var v checkin.Verdict
	if err := json.Unmarshal([]byte(content[start:end+1]), &v); err != nil {
		return checkin.Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	return v, nil
}

// normalize clamps out-of-range enum values and applies the authoritative
// risk rule.
func normalize(v checkin.Verdict, introducedCompany string) checkin.Verdict {
	if !v.Status.Known() {
		v.Status = checkin.StatusUnclear
	}
	if !v.Confidence.Known() {
		v.Confidence = checkin.ConfidenceLow
	}

	// The model can miss the attribution when the candidate names the
	// company with different casing or punctuation. A direct name match
	// overrides a false negative, never the other way around.
	if !v.IsIntroducedCompany && v.Company != "" && companiesMatch(v.Company, introducedCompany) {
		v.IsIntroducedCompany = true
	}

	v.RiskLevel = checkin.DeriveRisk(v.Status, v.IsIntroducedCompany)
	if v.RiskReason == "" {
		v.RiskReason = fmt.Sprintf("status %q, introduced company attribution: %t", v.Status, v.IsIntroducedCompany)
	}
	return v
}

func companiesMatch(a, b string) bool {
	clean := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		for _, suffix := range []string{" inc", " inc.", " llc", " ltd", " ltd.", " corp", " corp.", " gmbh"} {
			s = strings.TrimSuffix(s, suffix)
		}
		return strings.TrimRight(s, ".,")
	}
	ca, cb := clean(a), clean(b)
	return ca != "" && ca == cb
}
