// Package domain defines the entity shapes shared by every store: workspaces,
// agents, pending actions, conversations, and messages. Types here carry no
// behavior beyond derived-field predicates; all mutation goes through the stores.
package domain

import "time"

// AgentStatus is the lifecycle state of an agent.
type AgentStatus string

const (
	StatusIdle            AgentStatus = "idle"
	StatusThinking        AgentStatus = "thinking"
	StatusStreaming       AgentStatus = "streaming"
	StatusExecuting       AgentStatus = "executing"
	StatusWaitingApproval AgentStatus = "waiting_approval"
	StatusError           AgentStatus = "error"
)

// Agent is a single configured chat participant bound to one model/provider.
// Exactly one workspace owns an agent at a time.
type Agent struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Status         AgentStatus `json:"status"`
	WorkspaceID    string      `json:"workspaceId"`
	ConversationID string      `json:"conversationId,omitempty"` // empty until the first conversation exists
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`

	SystemPrompt string   `json:"systemPrompt,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    int      `json:"maxTokens,omitempty"`
	Color        string   `json:"color,omitempty"`
	Icon         string   `json:"icon,omitempty"`
}

// CanExecute reports whether the agent may start a new turn.
func (a *Agent) CanExecute() bool {
	return a.Status == StatusIdle || a.Status == StatusWaitingApproval
}

// IsBusy reports whether the agent is in the middle of a turn.
func (a *Agent) IsBusy() bool {
	switch a.Status {
	case StatusThinking, StatusStreaming, StatusExecuting:
		return true
	}
	return false
}

// Clone returns an independent copy of the agent.
func (a *Agent) Clone() *Agent {
	out := *a
	if a.Temperature != nil {
		temp := *a.Temperature
		out.Temperature = &temp
	}
	return &out
}
