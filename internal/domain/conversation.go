package domain

import "time"

// Conversation is an ordered message history owned by one agent inside one
// workspace. A conversation is either a root (no parent) or a branch: ParentID
// names the source and BranchPoint the message index at which it was forked.
// Messages at and before BranchPoint were copied at fork time; later edits to
// the parent never propagate.
type Conversation struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	AgentID     string    `json:"agentId"`
	Messages    []Message `json:"messages,omitempty"`
	ParentID    string    `json:"parentId,omitempty"`
	BranchPoint *int      `json:"branchPoint,omitempty"`
	Title       string    `json:"title,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsBranch reports whether the conversation was forked from a parent.
func (c *Conversation) IsBranch() bool {
	return c.ParentID != ""
}

// Clone returns a deep copy of the conversation, including messages.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Messages = CloneMessages(c.Messages)
	if c.BranchPoint != nil {
		bp := *c.BranchPoint
		out.BranchPoint = &bp
	}
	return &out
}
