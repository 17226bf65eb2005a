package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomhq/loom/internal/logging"
)

func testLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func TestWorkspaceStore_Create(t *testing.T) {
	ws := NewWorkspaceStore(testLog())

	w := ws.Create(CreateWorkspaceParams{Name: "main", Description: "primary"})
	require.NotNil(t, w)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "main", w.Name)
	assert.False(t, w.Isolated)
	assert.Equal(t, "primary", w.Description)
	assert.False(t, w.CreatedAt.IsZero())
}

func TestWorkspaceStore_Update(t *testing.T) {
	ws := NewWorkspaceStore(testLog())
	w := ws.Create(CreateWorkspaceParams{Name: "main"})

	name := "renamed"
	isolated := true
	ws.Update(w.ID, WorkspacePatch{Name: &name, Isolated: &isolated})

	got := ws.Get(w.ID)
	require.NotNil(t, got)
	assert.Equal(t, "renamed", got.Name)
	assert.True(t, got.Isolated)
	assert.True(t, !got.UpdatedAt.Before(w.UpdatedAt))
}

func TestWorkspaceStore_Update_Unresolved(t *testing.T) {
	ws := NewWorkspaceStore(testLog())
	name := "x"
	ws.Update("missing", WorkspacePatch{Name: &name}) // must not panic
	assert.Nil(t, ws.Get("missing"))
}

func TestWorkspaceStore_Delete_ClearsActive(t *testing.T) {
	ws := NewWorkspaceStore(testLog())
	w := ws.Create(CreateWorkspaceParams{Name: "main"})
	ws.SetActive(w.ID)
	require.Equal(t, w.ID, ws.ActiveID())

	ws.Delete(w.ID)
	assert.Empty(t, ws.ActiveID())
	assert.Nil(t, ws.Get(w.ID))
}

func TestWorkspaceStore_Delete_NonActiveLeavesPointer(t *testing.T) {
	ws := NewWorkspaceStore(testLog())
	active := ws.Create(CreateWorkspaceParams{Name: "active"})
	other := ws.Create(CreateWorkspaceParams{Name: "other"})
	ws.SetActive(active.ID)

	ws.Delete(other.ID)
	assert.Equal(t, active.ID, ws.ActiveID())
}

func TestWorkspaceStore_List_NewestFirst(t *testing.T) {
	ws := NewWorkspaceStore(testLog())
	first := ws.Create(CreateWorkspaceParams{Name: "first"})
	time.Sleep(2 * time.Millisecond)
	second := ws.Create(CreateWorkspaceParams{Name: "second"})

	list := ws.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestWorkspaceStore_AddAgent_Idempotent(t *testing.T) {
	ws := NewWorkspaceStore(testLog())
	w := ws.Create(CreateWorkspaceParams{Name: "main"})

	ws.AddAgent(w.ID, "a1")
	ws.AddAgent(w.ID, "a2")
	ws.AddAgent(w.ID, "a1")

	got := ws.Get(w.ID)
	assert.Equal(t, []string{"a1", "a2"}, got.AgentIDs)
	assert.True(t, got.HasAgents())
}

func TestWorkspaceStore_RemoveAgent(t *testing.T) {
	ws := NewWorkspaceStore(testLog())
	w := ws.Create(CreateWorkspaceParams{Name: "main"})
	ws.AddAgent(w.ID, "a1")
	ws.AddAgent(w.ID, "a2")

	ws.RemoveAgent(w.ID, "a1")
	got := ws.Get(w.ID)
	assert.Equal(t, []string{"a2"}, got.AgentIDs)

	ws.RemoveAgent(w.ID, "nope") // unknown member is a no-op
	assert.Equal(t, []string{"a2"}, ws.Get(w.ID).AgentIDs)
}

func TestWorkspaceStore_SetActive_Unresolved(t *testing.T) {
	ws := NewWorkspaceStore(testLog())
	ws.SetActive("missing")
	assert.Empty(t, ws.ActiveID())
}

func TestWorkspaceStore_Get_ReturnsCopy(t *testing.T) {
	ws := NewWorkspaceStore(testLog())
	w := ws.Create(CreateWorkspaceParams{Name: "main"})
	ws.AddAgent(w.ID, "a1")

	got := ws.Get(w.ID)
	got.AgentIDs[0] = "tampered"
	got.Name = "tampered"

	fresh := ws.Get(w.ID)
	assert.Equal(t, "main", fresh.Name)
	assert.Equal(t, []string{"a1"}, fresh.AgentIDs)
}
