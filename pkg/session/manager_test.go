package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundew-sh/sundew/pkg/models"
	"github.com/sundew-sh/sundew/pkg/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "sundew.db"), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewManager(store)
}

func TestObserve_AccumulatesPathsAndIntervals(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	sess1, in1, err := m.Observe("203.0.113.1", "/a", "", now)
	require.NoError(t, err)
	assert.Empty(t, in1.IntervalsMS)
	assert.Equal(t, []string{"/a"}, in1.PathsInSession)

	sess2, in2, err := m.Observe("203.0.113.1", "/b", "", now.Add(200*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, sess1.ID, sess2.ID)
	assert.Equal(t, []string{"/a", "/b"}, in2.PathsInSession)
	require.Len(t, in2.IntervalsMS, 1)
	assert.InDelta(t, 200, in2.IntervalsMS[0], 1)
}

func TestObserve_TracksMCPUsage(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	_, in, err := m.Observe("198.51.100.3", "/mcp", "initialize", now)
	require.NoError(t, err)
	assert.True(t, in.UsedMCP)
	assert.Equal(t, []string{"initialize"}, in.MCPMethodsCalled)

	_, in2, err := m.Observe("198.51.100.3", "/mcp", "tools/list", now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, []string{"initialize", "tools/list"}, in2.MCPMethodsCalled)
}

func TestFinalize_UpdatesRollup(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	sess, _, err := m.Observe("192.0.2.50", "/api/v1/users", "", now)
	require.NoError(t, err)

	updated, err := m.Finalize(sess, models.RequestEvent{
		ID:              "evt-1",
		Timestamp:       now,
		MatchedEndpoint: "/api/v1/users",
		TrapType:        models.TrapTypeRESTAPI,
		Classification:  models.ClassificationHuman,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.RequestCount)
	assert.Contains(t, updated.EndpointsHit, "/api/v1/users")
}
