package domain

import (
	"encoding/json"
	"time"
)

// ActionType classifies a pending agent action.
type ActionType string

const (
	ActionClarifyingQuestion ActionType = "clarifying_question"
	ActionToolApproval       ActionType = "tool_approval"
)

// ActionStatus is the resolution state of an action.
type ActionStatus string

const (
	ActionPending  ActionStatus = "pending"
	ActionApproved ActionStatus = "approved"
	ActionDenied   ActionStatus = "denied"
)

// AgentAction is a unit of required user input blocking an agent's progress.
// Status stays pending until exactly one resolution call moves it to a
// terminal state; resolving an already-resolved id is a no-op.
type AgentAction struct {
	ID        string       `json:"id"`
	AgentID   string       `json:"agentId"`
	Type      ActionType   `json:"type"`
	Status    ActionStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`

	// clarifying_question payload
	Question string `json:"question,omitempty"`
	Response string `json:"response,omitempty"` // recorded on resolution

	// tool_approval payload
	ToolName string          `json:"toolName,omitempty"`
	Input    json.RawMessage `json:"input,omitempty"`
	Decision *bool           `json:"decision,omitempty"` // recorded on resolution
}
