package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/llm"
)

func testAgentStore(t *testing.T) *AgentStore {
	t.Helper()
	return NewAgentStore(NewPalette(), testLog())
}

func TestAgentStore_Create_Defaults(t *testing.T) {
	as := testAgentStore(t)

	agent, err := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "anthropic"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, agent.Status)
	assert.Equal(t, "agent-"+agent.ID[:8], agent.Name)
	assert.Equal(t, "claude-sonnet-4-5", agent.Model)
	assert.Equal(t, defaultMaxTokens, agent.MaxTokens)
	require.NotNil(t, agent.Temperature)
	assert.Equal(t, defaultTemperature, *agent.Temperature)
	assert.NotEmpty(t, agent.Color)
}

func TestAgentStore_Create_UnknownProvider(t *testing.T) {
	as := testAgentStore(t)

	_, err := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "nope"})
	require.Error(t, err)
	var unknown *llm.ErrUnknownProvider
	assert.ErrorAs(t, err, &unknown)
}

func TestAgentStore_Create_ColorsRoundRobin(t *testing.T) {
	palette := NewPalette("#one", "#two")
	as := NewAgentStore(palette, testLog())

	a1, err := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	require.NoError(t, err)
	a2, err := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	require.NoError(t, err)
	a3, err := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	require.NoError(t, err)

	assert.Equal(t, "#one", a1.Color)
	assert.Equal(t, "#two", a2.Color)
	assert.Equal(t, "#one", a3.Color, "palette wraps around")
}

func TestAgentStore_UpdateStatus(t *testing.T) {
	as := testAgentStore(t)
	agent, err := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	require.NoError(t, err)

	as.UpdateStatus(agent.ID, domain.StatusStreaming)
	got := as.Get(agent.ID)
	assert.Equal(t, domain.StatusStreaming, got.Status)
	assert.True(t, got.IsBusy())
	assert.False(t, got.CanExecute())
}

func TestAgentStore_Update(t *testing.T) {
	as := testAgentStore(t)
	agent, err := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	require.NoError(t, err)

	name := "researcher"
	convID := "c1"
	as.Update(agent.ID, AgentPatch{Name: &name, ConversationID: &convID})

	got := as.Get(agent.ID)
	assert.Equal(t, "researcher", got.Name)
	assert.Equal(t, "c1", got.ConversationID)
}

func TestAgentStore_Delete_DiscardsActions(t *testing.T) {
	as := testAgentStore(t)
	agent, err := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	require.NoError(t, err)
	as.AddPendingAction(agent.ID, domain.AgentAction{Type: domain.ActionToolApproval, ToolName: "shell"})

	as.Delete(agent.ID)
	assert.Nil(t, as.Get(agent.ID))
	assert.Empty(t, as.PendingActions(agent.ID))
	assert.Empty(t, as.AllPendingActions())
}

func TestAgentStore_ListByWorkspace(t *testing.T) {
	as := testAgentStore(t)
	a1, _ := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	_, _ = as.Create(CreateAgentParams{WorkspaceID: "w2", Provider: "mock"})

	list := as.ListByWorkspace("w1")
	require.Len(t, list, 1)
	assert.Equal(t, a1.ID, list[0].ID)
}

func TestAgentStore_AddPendingAction_ForcesWaiting(t *testing.T) {
	as := testAgentStore(t)
	agent, err := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	require.NoError(t, err)

	action := as.AddPendingAction(agent.ID, domain.AgentAction{
		Type:     domain.ActionToolApproval,
		ToolName: "shell",
	})
	require.NotNil(t, action)
	assert.NotEmpty(t, action.ID)
	assert.Equal(t, domain.ActionPending, action.Status)
	assert.Equal(t, domain.StatusWaitingApproval, as.Get(agent.ID).Status)
}

func TestAgentStore_AddPendingAction_UnknownAgent(t *testing.T) {
	as := testAgentStore(t)
	assert.Nil(t, as.AddPendingAction("missing", domain.AgentAction{Type: domain.ActionToolApproval}))
}

func TestAgentStore_ResolvePendingAction_Approve(t *testing.T) {
	as := testAgentStore(t)
	agent, _ := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	action := as.AddPendingAction(agent.ID, domain.AgentAction{
		Type:     domain.ActionToolApproval,
		ToolName: "shell",
	})

	resolved := as.ResolvePendingAction(agent.ID, action.ID, true, "")
	require.NotNil(t, resolved)
	assert.Equal(t, domain.ActionApproved, resolved.Status)
	require.NotNil(t, resolved.Decision)
	assert.True(t, *resolved.Decision)

	// Queue drained, agent released to idle.
	assert.Empty(t, as.PendingActions(agent.ID))
	assert.Equal(t, domain.StatusIdle, as.Get(agent.ID).Status)
}

func TestAgentStore_ResolvePendingAction_DenyQuestion(t *testing.T) {
	as := testAgentStore(t)
	agent, _ := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	action := as.AddPendingAction(agent.ID, domain.AgentAction{
		Type:     domain.ActionClarifyingQuestion,
		Question: "which branch?",
	})

	resolved := as.ResolvePendingAction(agent.ID, action.ID, false, "use main")
	require.NotNil(t, resolved)
	assert.Equal(t, domain.ActionDenied, resolved.Status)
	assert.Equal(t, "use main", resolved.Response)
	assert.Nil(t, resolved.Decision)
}

func TestAgentStore_ResolvePendingAction_Idempotent(t *testing.T) {
	as := testAgentStore(t)
	agent, _ := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	action := as.AddPendingAction(agent.ID, domain.AgentAction{Type: domain.ActionToolApproval})

	first := as.ResolvePendingAction(agent.ID, action.ID, true, "")
	require.NotNil(t, first)

	second := as.ResolvePendingAction(agent.ID, action.ID, false, "")
	assert.Nil(t, second, "second resolution must be a no-op")
	assert.Empty(t, as.PendingActions(agent.ID))
}

func TestAgentStore_ResolvePendingAction_StaysWaitingWhileQueueNonEmpty(t *testing.T) {
	as := testAgentStore(t)
	agent, _ := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	first := as.AddPendingAction(agent.ID, domain.AgentAction{Type: domain.ActionToolApproval})
	second := as.AddPendingAction(agent.ID, domain.AgentAction{Type: domain.ActionClarifyingQuestion, Question: "?"})

	as.ResolvePendingAction(agent.ID, first.ID, true, "")
	assert.Equal(t, domain.StatusWaitingApproval, as.Get(agent.ID).Status,
		"agent must not be released while actions remain")

	as.ResolvePendingAction(agent.ID, second.ID, true, "answer")
	assert.Equal(t, domain.StatusIdle, as.Get(agent.ID).Status)
}

func TestAgentStore_AllPendingActions_TimestampOrder(t *testing.T) {
	as := testAgentStore(t)
	a1, _ := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})
	a2, _ := as.Create(CreateAgentParams{WorkspaceID: "w1", Provider: "mock"})

	now := time.Now()
	as.AddPendingAction(a2.ID, domain.AgentAction{Type: domain.ActionToolApproval, CreatedAt: now.Add(2 * time.Second)})
	as.AddPendingAction(a1.ID, domain.AgentAction{Type: domain.ActionToolApproval, CreatedAt: now})
	as.AddPendingAction(a2.ID, domain.AgentAction{Type: domain.ActionToolApproval, CreatedAt: now.Add(time.Second)})

	all := as.AllPendingActions()
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.Before(all[1].CreatedAt))
	assert.True(t, all[1].CreatedAt.Before(all[2].CreatedAt))
	assert.Equal(t, a1.ID, all[0].AgentID)
}
