package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devscan/devscan/internal/component"
	"github.com/devscan/devscan/internal/engine"
	"github.com/devscan/devscan/internal/practice"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), ".devscan", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(id string) *engine.RunResult {
	comp := &component.Component{Language: component.LanguageGo, Path: "/repo"}
	return &engine.RunResult{
		ID:          id,
		StartedAt:   time.Now().Add(-time.Second).UTC(),
		CompletedAt: time.Now().UTC(),
		Components: []engine.ComponentResult{
			{Component: comp, Records: []practice.Record{
				{
					Practice:  practice.Metadata{ID: "gitignore-present", Impact: practice.ImpactHigh},
					Component: comp,
					Result:    practice.ResultPracticing,
					IsOn:      true,
					Impact:    practice.ImpactHigh,
				},
				{
					Practice:  practice.Metadata{ID: "lockfile-present"},
					Component: comp,
					Result:    practice.ResultNotPracticing,
					IsOn:      true,
					Impact:    practice.ImpactMedium,
					Details:   "no lockfile found",
				},
			}},
		},
	}
}

func TestSaveAndListRuns(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, "/repo", sampleRun("run-1")))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "/repo", run.Root)
	assert.Equal(t, 1, run.Components)
	assert.Equal(t, 1, run.Practicing)
	assert.Equal(t, 1, run.Violations)
	assert.Equal(t, 0, run.Unknown)
}

func TestRunRecords_RoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, "/repo", sampleRun("run-abc")))

	records, err := store.RunRecords(ctx, "run-abc")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "gitignore-present", records[0].PracticeID)
	assert.Equal(t, "practicing", records[0].Result)
	assert.True(t, records[0].IsOn)
	assert.Equal(t, "high", records[0].Impact)

	assert.Equal(t, "lockfile-present", records[1].PracticeID)
	assert.Equal(t, "no lockfile found", records[1].Details)
}

func TestRunRecords_PrefixLookup(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, "/repo", sampleRun("0123456789abcdef")))

	records, err := store.RunRecords(ctx, "01234567")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i, id := range []string{"old", "mid", "new"} {
		run := sampleRun(id)
		run.StartedAt = time.Now().Add(time.Duration(i) * time.Minute).UTC()
		require.NoError(t, store.SaveRun(ctx, "/repo", run))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "mid", runs[1].ID)
}
