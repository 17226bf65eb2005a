package domain

import "time"

// Workspace is a named grouping of agents. AgentIDs holds member agents in
// insertion order, which doubles as display order; ids are unique within the
// list. Isolated marks whether members see an isolated filesystem view; the
// flag is opaque here, enforcement belongs to the sandbox layer.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AgentIDs  []string  `json:"agentIds,omitempty"`
	Isolated  bool      `json:"isolated"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Branch      string `json:"branch,omitempty"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// HasAgents reports whether any agent belongs to the workspace.
func (w *Workspace) HasAgents() bool {
	return len(w.AgentIDs) > 0
}

// Clone returns an independent copy of the workspace.
func (w *Workspace) Clone() *Workspace {
	out := *w
	out.AgentIDs = append([]string(nil), w.AgentIDs...)
	return &out
}
