// Package directory resolves employer and candidate contacts through the
// surrounding application's internal API.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/scoutline/scoutline/domain/directory"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/domain"
	"github.com/scoutline/scoutline/internal/log"
)

// New builds the configured directory. Without a base URL contacts are
// stubbed, which keeps development and tests off the wire.
func New(cfg config.DirectoryConfig, logger *log.Logger) directory.Directory {
	if logger == nil {
		logger = log.Default()
	}
	if !cfg.Configured() {
		logger.Warn("profile directory not configured, using stub contacts")
		return Stub{}
	}
	return NewHTTPDirectory(cfg)
}

// Stub synthesizes placeholder contacts. Stubbed addresses are not
// routable, so it only makes sense next to log-only notification.
type Stub struct{}

// Candidate returns a placeholder candidate contact.
func (Stub) Candidate(_ context.Context, id int64) (directory.Contact, error) {
	return directory.Contact{
		Name:  fmt.Sprintf("Candidate %d", id),
		Email: fmt.Sprintf("candidate-%d@example.invalid", id),
	}, nil
}

// Employer returns a placeholder employer contact.
func (Stub) Employer(_ context.Context, id int64) (directory.Contact, error) {
	return directory.Contact{
		Name:    fmt.Sprintf("Employer %d", id),
		Email:   fmt.Sprintf("employer-%d@example.invalid", id),
		Company: fmt.Sprintf("Company %d", id),
	}, nil
}

// HTTPDirectory resolves contacts over the internal API.
type HTTPDirectory struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPDirectory creates an HTTPDirectory.
func NewHTTPDirectory(cfg config.DirectoryConfig) *HTTPDirectory {
	return &HTTPDirectory{
		baseURL: cfg.BaseURL(),
		apiKey:  cfg.APIKey(),
		client:  &http.Client{Timeout: cfg.Timeout()},
	}
}

// Candidate resolves a candidate contact.
func (d *HTTPDirectory) Candidate(ctx context.Context, id int64) (directory.Contact, error) {
	return d.get(ctx, fmt.Sprintf("%s/internal/v1/candidates/%d", d.baseURL, id))
}

// Employer resolves an employer contact.
func (d *HTTPDirectory) Employer(ctx context.Context, id int64) (directory.Contact, error) {
	return d.get(ctx, fmt.Sprintf("%s/internal/v1/employers/%d", d.baseURL, id))
}

func (d *HTTPDirectory) get(ctx context.Context, url string) (directory.Contact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return directory.Contact{}, fmt.Errorf("build directory request: %w", err)
	}
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return directory.Contact{}, fmt.Errorf("%w: directory: %v", domain.ErrDependency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return directory.Contact{}, fmt.Errorf("%w: directory has no such profile", domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return directory.Contact{}, fmt.Errorf("%w: directory returned %d: %s", domain.ErrDependency, resp.StatusCode, body)
	}

	var contact directory.Contact
	if err := json.NewDecoder(resp.Body).Decode(&contact); err != nil {
		return directory.Contact{}, fmt.Errorf("%w: decode directory response: %v", domain.ErrDependency, err)
	}
	return contact, nil
}
