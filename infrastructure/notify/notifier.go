// Package notify delivers templated email through the external
// notification gateway. Delivery is fire-and-forget from the engine's
// perspective: failures are surfaced as dependency errors for the caller
// to log and leave state unmarked for the next scheduled pass to retry.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/domain"
	"github.com/scoutline/scoutline/internal/log"
)

// Message is one outbound email.
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Notifier delivers messages.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the configured notifier. Without a gateway URL delivery is
// log-only, which keeps development and tests off the wire.
func New(cfg config.NotifyConfig, logger *log.Logger) Notifier {
	if logger == nil {
		logger = log.Default()
	}
	if !cfg.Configured() {
		logger.Warn("notification gateway not configured, using log-only delivery")
		return LogNotifier{log: logger}
	}
	return NewHTTPNotifier(cfg, logger)
}

// LogNotifier logs messages instead of delivering them.
type LogNotifier struct {
	log *log.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *log.Logger) LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return LogNotifier{log: logger}
}

// Send logs the message and reports success.
func (n LogNotifier) Send(_ context.Context, msg Message) error {
	n.log.Info("email (log-only)", "to", msg.To, "subject", msg.Subject)
	return nil
}

// HTTPNotifier posts messages to the gateway's REST endpoint.
type HTTPNotifier struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
	log     *log.Logger
}

// NewHTTPNotifier creates an HTTPNotifier.
func NewHTTPNotifier(cfg config.NotifyConfig, logger *log.Logger) *HTTPNotifier {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPNotifier{
		baseURL: cfg.BaseURL(),
		apiKey:  cfg.APIKey(),
		from:    cfg.From(),
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// Send delivers one message. Any non-2xx response or transport error is a
// dependency failure.
func (n *HTTPNotifier) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = n.from
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/v1/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send email: %v", domain.ErrDependency, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: gateway returned %d: %s", domain.ErrDependency, resp.StatusCode, string(detail))
	}

	return nil
}
