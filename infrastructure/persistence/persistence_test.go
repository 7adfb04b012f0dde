package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scoutline/scoutline/domain/introduction"
	"github.com/scoutline/scoutline/internal/database"
)

// newTestDB creates a migrated in-memory SQLite database for testing.
func newTestDB(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.New(ctx, "sqlite:///:memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// createIntroduction seeds one introduction row and returns it.
func createIntroduction(t *testing.T, store IntroductionStore, employerID, candidateID int64, now time.Time) introduction.Introduction {
	t.Helper()
	ctx := context.Background()
	created, err := store.Create(ctx, introduction.New(employerID, candidateID, now, 12))
	require.NoError(t, err)
	require.True(t, created)
	intro, err := store.FindOne(ctx, introduction.WithPair(employerID, candidateID))
	require.NoError(t, err)
	return intro
}
