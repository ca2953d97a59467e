// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trust-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.CacheConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleReport() *types.Report {
	return &types.Report{
		ProductName: "Slack",
		Vendor:      "Slack Technologies",
		TrustScore: types.TrustScore{
			Score:       82,
			Confidence:  types.ConfidenceHigh,
			SourceCount: 7,
		},
		ExecutiveSummary: "Mature security program with SOC 2 and ISO 27001.",
	}
}

func TestStore_PutThenLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	put, err := store.Put(ctx, "slack", "is slack safe?", sampleReport())
	require.NoError(t, err)
	assert.NotEmpty(t, put.Report.AssessmentID)
	assert.NotEmpty(t, put.Report.GeneratedAt)

	entry, err := store.Lookup(ctx, "slack")
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, "slack", entry.Key)
	assert.Equal(t, "is slack safe?", entry.Query)
	assert.Equal(t, "Slack", entry.Report.ProductName)
	assert.Equal(t, 82, entry.Report.TrustScore.Score)
	assert.WithinDuration(t, time.Now(), entry.CachedAt, 5*time.Second)
}

func TestStore_LookupNormalizesKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "slack", "", sampleReport())
	require.NoError(t, err)

	entry, err := store.Lookup(ctx, "  SLACK  ")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "slack", entry.Key)
}

func TestStore_LookupMissIsNil(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.Lookup(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStore_LookupEmptyKey(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestStore_PutIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleReport()
	_, err := store.Put(ctx, "slack", "q1", first)
	require.NoError(t, err)

	updated := sampleReport()
	updated.TrustScore.Score = 90
	_, err = store.Put(ctx, "slack", "q2", updated)
	require.NoError(t, err)

	entry, err := store.Lookup(ctx, "slack")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 90, entry.Report.TrustScore.Score)
	assert.Equal(t, "q2", entry.Query)

	// One row per key, replaced in place.
	var count int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM reports`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_PutNilReport(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Put(context.Background(), "slack", "", nil)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestStore_PutPreservesExistingIDs(t *testing.T) {
	store := newTestStore(t)
	report := sampleReport()
	report.AssessmentID = "fixed-id"
	report.GeneratedAt = "2026-01-01T00:00:00Z"

	put, err := store.Put(context.Background(), "slack", "", report)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", put.Report.AssessmentID)
	assert.Equal(t, "2026-01-01T00:00:00Z", put.Report.GeneratedAt)
}

func TestStore_LookupByEntityCandidateOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Reports stored under both the explicit cache ID and the entity ID.
	byCacheID := sampleReport()
	byCacheID.ProductName = "ByCacheID"
	_, err := store.Put(ctx, "slack-report", "", byCacheID)
	require.NoError(t, err)

	byID := sampleReport()
	byID.ProductName = "ByID"
	_, err = store.Put(ctx, "slack", "", byID)
	require.NoError(t, err)

	e := &types.Entity{ID: "slack", Name: "Slack Technologies, LLC", CacheID: "slack-report"}
	entry, err := store.LookupByEntity(ctx, e)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "ByCacheID", entry.Report.ProductName, "explicit cache ID takes precedence")
}

func TestStore_LookupByEntityFallsBackToName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "notion", "", sampleReport())
	require.NoError(t, err)

	e := &types.Entity{ID: "notion-labs", Name: "Notion"}
	entry, err := store.LookupByEntity(ctx, e)
	require.NoError(t, err)
	assert.NotNil(t, entry)
}

func TestStore_LookupByEntityNil(t *testing.T) {
	store := newTestStore(t)
	entry, err := store.LookupByEntity(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStore_RecordAccessRequiresHit(t *testing.T) {
	store := newTestStore(t)
	err := store.RecordAccess(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestStore_RecordAccessAppendsHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "slack", "", sampleReport())
	require.NoError(t, err)

	require.NoError(t, store.RecordAccess(ctx, "user-1", "slack"))
	require.NoError(t, store.RecordAccess(ctx, "user-1", "slack"))
	require.NoError(t, store.RecordAccess(ctx, "user-2", "slack"))

	records, err := store.History(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "slack", records[0].EntityKey)
	assert.Equal(t, "Slack", records[0].ProductName)
	assert.Equal(t, "Slack Technologies", records[0].Vendor)
	assert.Equal(t, 82, records[0].TrustScore)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestStore_HistoryEmptyForUnknownUser(t *testing.T) {
	store := newTestStore(t)
	records, err := store.History(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_HistoryHonorsLimit(t *testing.T) {
	store, err := NewStore(types.CacheConfig{DataDir: t.TempDir(), MaxHistory: 2})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_, err = store.Put(ctx, "slack", "", sampleReport())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordAccess(ctx, "user-1", "slack"))
	}

	records, err := store.History(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestStore_ReopenPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(types.CacheConfig{DataDir: dir})
	require.NoError(t, err)
	_, err = store.Put(ctx, "slack", "", sampleReport())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(types.CacheConfig{DataDir: dir})
	require.NoError(t, err)
	defer reopened.Close()

	entry, err := reopened.Lookup(ctx, "slack")
	require.NoError(t, err)
	assert.NotNil(t, entry)
}
