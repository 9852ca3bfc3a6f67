package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "data", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	j.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, err := j.Record(ctx, Attempt{
		CharacterID: "c1",
		Character:   "Ada",
		ChallengeID: "two-sum",
		Passed:      2,
		Total:       5,
		Elapsed:     3 * time.Millisecond,
		Source:      "func twoSum() {}",
		Feedback:    []string{"Your solution passed 2 out of 5 test cases."},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, base.Add(time.Second), first.CreatedAt)

	second, err := j.Record(ctx, Attempt{ChallengeID: "two-sum", Success: true, Passed: 5, Total: 5, Elapsed: time.Millisecond})
	require.NoError(t, err)
	_, err = j.Record(ctx, Attempt{ChallengeID: "hello-world", Success: true, Passed: 1, Total: 1})
	require.NoError(t, err)

	recent, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "hello-world", recent[0].ChallengeID)
	assert.Equal(t, second.ID, recent[1].ID)

	got, err := j.ForChallenge(ctx, "two-sum", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	if diff := cmp.Diff(first, got[1]); diff != "" {
		t.Errorf("stored attempt mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordRequiresChallenge(t *testing.T) {
	j := openJournal(t)
	_, err := j.Record(context.Background(), Attempt{})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	s, err := j.Summarize(ctx, "max-stack")
	require.NoError(t, err)
	assert.Zero(t, s.Attempts)
	assert.Zero(t, s.BestElapsed)

	for _, a := range []Attempt{
		{ChallengeID: "max-stack", Elapsed: time.Millisecond},
		{ChallengeID: "max-stack", Success: true, Elapsed: 9 * time.Millisecond},
		{ChallengeID: "max-stack", Success: true, Elapsed: 4 * time.Millisecond},
		{ChallengeID: "two-sum", Success: true, Elapsed: time.Nanosecond},
	} {
		_, err := j.Record(ctx, a)
		require.NoError(t, err)
	}

	s, err = j.Summarize(ctx, "max-stack")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Attempts)
	assert.Equal(t, 2, s.Successes)
	assert.Equal(t, 4*time.Millisecond, s.BestElapsed)
	assert.False(t, s.LastAttempt.IsZero())
}

func TestMigratesOlderJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE attempts (
		id TEXT PRIMARY KEY,
		character_id TEXT NOT NULL DEFAULT '',
		challenge_id TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		passed INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0,
		elapsed_ns INTEGER NOT NULL DEFAULT 0,
		source TEXT NOT NULL DEFAULT '',
		feedback_json TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	assert.True(t, columnExists(j.db, "attempts", "character_name"))
	assert.Equal(t, CurrentSchemaVersion, SchemaVersion(j.db))

	applied, err := RunMigrations(j.db)
	require.NoError(t, err)
	assert.Zero(t, applied, "second run finds nothing to add")

	_, err = j.Record(context.Background(), Attempt{ChallengeID: "two-sum", Character: "Ada"})
	require.NoError(t, err)
}

func TestFreshJournalNeedsNoMigration(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, initSchema(db))
	assert.True(t, columnExists(db, "attempts", "character_name"))

	applied, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Zero(t, applied)
	assert.Equal(t, CurrentSchemaVersion, SchemaVersion(db))
}
