// Package store owns the in-memory state of workspaces, agents, pending
// actions, and conversations, plus the blob-store persistence behind them.
// Mutations targeting an unresolved id are silent no-ops; queries for a
// missing entity return nil. Only explicit precondition checks (starting a
// turn, provider lookups) surface typed errors.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/logging"
)

// ErrAgentNotFound is returned by precondition checks on a missing agent.
var ErrAgentNotFound = errors.New("agent not found")

// ErrConversationNotFound is returned by precondition checks on a missing
// conversation.
var ErrConversationNotFound = errors.New("conversation not found")

// WorkspaceStore owns workspace lifecycle, the active-workspace pointer, and
// agent membership lists.
type WorkspaceStore struct {
	mu         sync.RWMutex
	workspaces map[string]*domain.Workspace
	activeID   string
	log        *logging.Logger
}

// NewWorkspaceStore creates an empty workspace store.
func NewWorkspaceStore(log *logging.Logger) *WorkspaceStore {
	return &WorkspaceStore{
		workspaces: make(map[string]*domain.Workspace),
		log:        log.Named("store.workspaces"),
	}
}

// CreateWorkspaceParams carries the caller-supplied fields for a new workspace.
type CreateWorkspaceParams struct {
	Name        string
	Isolated    bool
	Branch      string
	Path        string
	Description string
	Color       string
}

// Create assigns a fresh id and timestamps and stores the workspace.
func (s *WorkspaceStore) Create(p CreateWorkspaceParams) *domain.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	ws := &domain.Workspace{
		ID:          uuid.New().String(),
		Name:        p.Name,
		Isolated:    p.Isolated,
		Branch:      p.Branch,
		Path:        p.Path,
		Description: p.Description,
		Color:       p.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.workspaces[ws.ID] = ws

	s.log.Debug().Str("workspace", ws.ID).Str("name", ws.Name).Msg("workspace created")
	return ws.Clone()
}

// WorkspacePatch is a partial workspace update; nil fields are left unchanged.
type WorkspacePatch struct {
	Name        *string
	Isolated    *bool
	Branch      *string
	Path        *string
	Description *string
	Color       *string
}

// Update merges the patch onto the workspace and refreshes its timestamp.
// No-op if the id does not resolve.
func (s *WorkspaceStore) Update(id string, patch WorkspacePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[id]
	if !ok {
		return
	}
	if patch.Name != nil {
		ws.Name = *patch.Name
	}
	if patch.Isolated != nil {
		ws.Isolated = *patch.Isolated
	}
	if patch.Branch != nil {
		ws.Branch = *patch.Branch
	}
	if patch.Path != nil {
		ws.Path = *patch.Path
	}
	if patch.Description != nil {
		ws.Description = *patch.Description
	}
	if patch.Color != nil {
		ws.Color = *patch.Color
	}
	ws.UpdatedAt = time.Now()
}

// Delete removes the workspace. If it was the active workspace, the active
// pointer is cleared. Conversations owned by the workspace are not touched.
func (s *WorkspaceStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workspaces[id]; !ok {
		return
	}
	delete(s.workspaces, id)
	if s.activeID == id {
		s.activeID = ""
	}
	s.log.Debug().Str("workspace", id).Msg("workspace deleted")
}

// SetActive marks the workspace as active. No-op if the id does not resolve.
func (s *WorkspaceStore) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[id]; ok {
		s.activeID = id
	}
}

// ActiveID returns the active workspace id, or "" when unset.
func (s *WorkspaceStore) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Active returns the active workspace, or nil when unset.
func (s *WorkspaceStore) Active() *domain.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ws, ok := s.workspaces[s.activeID]; ok {
		return ws.Clone()
	}
	return nil
}

// Get returns the workspace by id, or nil.
func (s *WorkspaceStore) Get(id string) *domain.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ws, ok := s.workspaces[id]; ok {
		return ws.Clone()
	}
	return nil
}

// List returns all workspaces, newest-created-first.
func (s *WorkspaceStore) List() []*domain.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Workspace, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		out = append(out, ws.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// AddAgent appends the agent to the workspace membership list. Re-adding an
// existing member is a no-op; a successful add refreshes the timestamp.
func (s *WorkspaceStore) AddAgent(workspaceID, agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return
	}
	for _, id := range ws.AgentIDs {
		if id == agentID {
			return
		}
	}
	ws.AgentIDs = append(ws.AgentIDs, agentID)
	ws.UpdatedAt = time.Now()
}

// RemoveAgent filters the agent out of the membership list.
func (s *WorkspaceStore) RemoveAgent(workspaceID, agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return
	}
	filtered := ws.AgentIDs[:0]
	for _, id := range ws.AgentIDs {
		if id != agentID {
			filtered = append(filtered, id)
		}
	}
	ws.AgentIDs = filtered
	ws.UpdatedAt = time.Now()
}

// Export returns all workspaces in stable order plus the active id, for
// persistence.
func (s *WorkspaceStore) Export() ([]*domain.Workspace, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Workspace, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		out = append(out, ws.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, s.activeID
}

// Restore replaces the store contents with a rehydrated snapshot.
func (s *WorkspaceStore) Restore(workspaces []*domain.Workspace, activeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.workspaces = make(map[string]*domain.Workspace, len(workspaces))
	for _, ws := range workspaces {
		s.workspaces[ws.ID] = ws.Clone()
	}
	if _, ok := s.workspaces[activeID]; ok {
		s.activeID = activeID
	} else {
		s.activeID = ""
	}
}
