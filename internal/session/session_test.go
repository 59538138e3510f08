package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, Unknown, tr.Snapshot().State)

	tr.Resolve(nil)
	assert.Equal(t, Guest, tr.Snapshot().State)
	assert.Nil(t, tr.Snapshot().Identity)

	id := &Identity{AccountID: "u1", Email: "ada@example.com", IsAdmin: true}
	tr.Resolve(id)
	snap := tr.Snapshot()
	assert.Equal(t, Authenticated, snap.State)
	assert.True(t, snap.IsAdmin())

	id.IsAdmin = false
	assert.True(t, tr.Snapshot().IsAdmin(), "tracker keeps its own copy")

	tr.Reset()
	assert.Equal(t, Unknown, tr.Snapshot().State)
	assert.False(t, tr.Snapshot().IsAdmin())
}

func TestSubscribeDeliversLatest(t *testing.T) {
	tr := NewTracker()
	ch, cancel := tr.Subscribe()

	first := <-ch
	assert.Equal(t, Unknown, first.State)

	tr.Resolve(nil)
	tr.Resolve(&Identity{AccountID: "u1"})
	latest := <-ch
	assert.Equal(t, Authenticated, latest.State)
	require.NotNil(t, latest.Identity)
	assert.Equal(t, "u1", latest.Identity.AccountID)

	cancel()
	_, open := <-ch
	assert.False(t, open)
	cancel()
	tr.Resolve(nil)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "guest", Guest.String())
	assert.Equal(t, "authenticated", Authenticated.String())
}
