// Package directory defines the engine's view of the surrounding
// application's profile directory. The engine stores only employer and
// candidate ids; names and addresses are resolved on demand.
package directory

import "context"

// Contact is the directory's view of a person or company.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

// Directory resolves employer and candidate references to contact details.
type Directory interface {
	Candidate(ctx context.Context, id int64) (Contact, error)
	Employer(ctx context.Context, id int64) (Contact, error)
}
