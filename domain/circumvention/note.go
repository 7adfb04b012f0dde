package circumvention

import "time"

// ReviewNote is one entry in a flag's append-only review trail. Notes are
// stored as individual rows, never concatenated into a text column, so the
// trail stays queryable and tamper-evident.
type ReviewNote struct {
	id        int64
	flagID    int64
	actor     string
	text      string
	createdAt time.Time
}

// NewReviewNote creates a note for a flag.
func NewReviewNote(flagID int64, actor, text string, now time.Time) ReviewNote {
	return ReviewNote{
		flagID:    flagID,
		actor:     actor,
		text:      text,
		createdAt: now,
	}
}

// ReconstructReviewNote rebuilds a note from storage.
func ReconstructReviewNote(id, flagID int64, actor, text string, createdAt time.Time) ReviewNote {
	return ReviewNote{id: id, flagID: flagID, actor: actor, text: text, createdAt: createdAt}
}

// ID returns the persistence identifier.
func (n ReviewNote) ID() int64 { return n.id }

// FlagID returns the flag this note belongs to.
func (n ReviewNote) FlagID() int64 { return n.flagID }

// Actor returns who wrote the note.
func (n ReviewNote) Actor() string { return n.actor }

// Text returns the note body.
func (n ReviewNote) Text() string { return n.text }

// CreatedAt returns when the note was appended.
func (n ReviewNote) CreatedAt() time.Time { return n.createdAt }
