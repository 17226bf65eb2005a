package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/llm"
	"github.com/loomhq/loom/internal/logging"
)

const (
	defaultMaxTokens   = 4096
	defaultTemperature = 0.7
)

// defaultColors is the display palette cycled through by agent creation.
var defaultColors = []string{
	"#e06c75", "#61afef", "#98c379", "#c678dd", "#e5c07b", "#56b6c2", "#d19a66",
}

// Palette hands out display colors round-robin. It is injected into the
// AgentStore so tests can construct a fresh one instead of sharing a
// process-wide counter.
type Palette struct {
	mu     sync.Mutex
	colors []string
	next   int
}

// NewPalette creates a palette from the given colors, or the default set.
func NewPalette(colors ...string) *Palette {
	if len(colors) == 0 {
		colors = defaultColors
	}
	return &Palette{colors: colors}
}

// Next returns the next color in the cycle.
func (p *Palette) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.colors[p.next%len(p.colors)]
	p.next++
	return c
}

// AgentStore owns agent lifecycle, status transitions, and the per-agent
// pending-action queue.
type AgentStore struct {
	mu      sync.RWMutex
	agents  map[string]*domain.Agent
	actions map[string][]*domain.AgentAction // agent id → pending queue, arrival order
	palette *Palette
	log     *logging.Logger
}

// NewAgentStore creates an empty agent store. A nil palette gets the default
// color set.
func NewAgentStore(palette *Palette, log *logging.Logger) *AgentStore {
	if palette == nil {
		palette = NewPalette()
	}
	return &AgentStore{
		agents:  make(map[string]*domain.Agent),
		actions: make(map[string][]*domain.AgentAction),
		palette: palette,
		log:     log.Named("store.agents"),
	}
}

// CreateAgentParams carries the caller-supplied fields for a new agent.
type CreateAgentParams struct {
	Name         string
	WorkspaceID  string
	Provider     string
	Model        string // defaulted from the provider catalog when empty
	SystemPrompt string
	Temperature  *float64
	MaxTokens    int
	Icon         string
}

// Create assigns an id, defaults the name, model, temperature, max tokens,
// and display color, and stores the agent with status idle. An unknown
// provider is a typed error.
func (s *AgentStore) Create(p CreateAgentParams) (*domain.Agent, error) {
	model := p.Model
	if model == "" {
		var err error
		model, err = llm.DefaultModel(p.Provider)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	name := p.Name
	if name == "" {
		name = "agent-" + id[:8]
	}
	temp := p.Temperature
	if temp == nil {
		t := defaultTemperature
		temp = &t
	}
	maxTokens := p.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	now := time.Now()
	agent := &domain.Agent{
		ID:           id,
		Name:         name,
		Status:       domain.StatusIdle,
		WorkspaceID:  p.WorkspaceID,
		Provider:     p.Provider,
		Model:        model,
		SystemPrompt: p.SystemPrompt,
		Temperature:  temp,
		MaxTokens:    maxTokens,
		Color:        s.palette.Next(),
		Icon:         p.Icon,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.agents[id] = agent

	s.log.Debug().Str("agent", id).Str("name", name).Str("model", model).Msg("agent created")
	return agent.Clone(), nil
}

// AgentPatch is a partial agent update; nil fields are left unchanged.
type AgentPatch struct {
	Name           *string
	ConversationID *string
	Provider       *string
	Model          *string
	SystemPrompt   *string
	Temperature    *float64
	MaxTokens      *int
	Color          *string
	Icon           *string
}

// Update merges the patch onto the agent and refreshes its timestamp.
// No-op if the id does not resolve.
func (s *AgentStore) Update(id string, patch AgentPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[id]
	if !ok {
		return
	}
	if patch.Name != nil {
		agent.Name = *patch.Name
	}
	if patch.ConversationID != nil {
		agent.ConversationID = *patch.ConversationID
	}
	if patch.Provider != nil {
		agent.Provider = *patch.Provider
	}
	if patch.Model != nil {
		agent.Model = *patch.Model
	}
	if patch.SystemPrompt != nil {
		agent.SystemPrompt = *patch.SystemPrompt
	}
	if patch.Temperature != nil {
		t := *patch.Temperature
		agent.Temperature = &t
	}
	if patch.MaxTokens != nil {
		agent.MaxTokens = *patch.MaxTokens
	}
	if patch.Color != nil {
		agent.Color = *patch.Color
	}
	if patch.Icon != nil {
		agent.Icon = *patch.Icon
	}
	agent.UpdatedAt = time.Now()
}

// UpdateStatus sets the agent's status and refreshes its timestamp.
func (s *AgentStore) UpdateStatus(id string, status domain.AgentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[id]
	if !ok {
		return
	}
	agent.Status = status
	agent.UpdatedAt = time.Now()
}

// Delete removes the agent and discards its pending-action queue.
func (s *AgentStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[id]; !ok {
		return
	}
	delete(s.agents, id)
	delete(s.actions, id)
	s.log.Debug().Str("agent", id).Msg("agent deleted")
}

// Get returns the agent by id, or nil.
func (s *AgentStore) Get(id string) *domain.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if agent, ok := s.agents[id]; ok {
		return agent.Clone()
	}
	return nil
}

// ListByWorkspace returns the agents owned by the workspace, unsorted.
func (s *AgentStore) ListByWorkspace(workspaceID string) []*domain.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Agent
	for _, agent := range s.agents {
		if agent.WorkspaceID == workspaceID {
			out = append(out, agent.Clone())
		}
	}
	return out
}

// AddPendingAction appends the action to the agent's queue and forces the
// agent's status to waiting_approval. A missing agent is a no-op.
func (s *AgentStore) AddPendingAction(agentID string, action domain.AgentAction) *domain.AgentAction {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[agentID]
	if !ok {
		return nil
	}

	if action.ID == "" {
		action.ID = uuid.New().String()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}
	action.AgentID = agentID
	action.Status = domain.ActionPending

	stored := action
	s.actions[agentID] = append(s.actions[agentID], &stored)

	agent.Status = domain.StatusWaitingApproval
	agent.UpdatedAt = time.Now()

	s.log.Debug().Str("agent", agentID).Str("action", stored.ID).Str("type", string(stored.Type)).Msg("pending action queued")
	out := stored
	return &out
}

// ResolvePendingAction marks the action approved or denied, records the
// resolution payload on the type-specific field, and removes it from the
// queue. The agent returns to idle only once its queue is empty. Resolving an
// unknown or already-resolved action id is a no-op, so a second resolution
// call never re-fires.
func (s *AgentStore) ResolvePendingAction(agentID, actionID string, approve bool, response string) *domain.AgentAction {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.actions[agentID]
	idx := -1
	for i, a := range queue {
		if a.ID == actionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	action := queue[idx]
	if approve {
		action.Status = domain.ActionApproved
	} else {
		action.Status = domain.ActionDenied
	}
	switch action.Type {
	case domain.ActionToolApproval:
		decision := approve
		action.Decision = &decision
	case domain.ActionClarifyingQuestion:
		action.Response = response
	}

	s.actions[agentID] = append(queue[:idx], queue[idx+1:]...)

	if agent, ok := s.agents[agentID]; ok && len(s.actions[agentID]) == 0 {
		agent.Status = domain.StatusIdle
		agent.UpdatedAt = time.Now()
	}

	out := *action
	return &out
}

// PendingActions returns the agent's queue in arrival order.
func (s *AgentStore) PendingActions(agentID string) []*domain.AgentAction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queue := s.actions[agentID]
	out := make([]*domain.AgentAction, 0, len(queue))
	for _, a := range queue {
		clone := *a
		out = append(out, &clone)
	}
	return out
}

// AllPendingActions flattens every agent's queue, sorted by timestamp
// ascending: global processing order equals arrival order.
func (s *AgentStore) AllPendingActions() []*domain.AgentAction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.AgentAction
	for _, queue := range s.actions {
		for _, a := range queue {
			clone := *a
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Export returns all agents and pending actions in stable order, for
// persistence.
func (s *AgentStore) Export() ([]*domain.Agent, []*domain.AgentAction) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents := make([]*domain.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		agents = append(agents, a.Clone())
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].CreatedAt.Equal(agents[j].CreatedAt) {
			return agents[i].ID < agents[j].ID
		}
		return agents[i].CreatedAt.Before(agents[j].CreatedAt)
	})

	var actions []*domain.AgentAction
	for _, queue := range s.actions {
		for _, a := range queue {
			clone := *a
			actions = append(actions, &clone)
		}
	}
	sort.Slice(actions, func(i, j int) bool {
		if actions[i].CreatedAt.Equal(actions[j].CreatedAt) {
			return actions[i].ID < actions[j].ID
		}
		return actions[i].CreatedAt.Before(actions[j].CreatedAt)
	})
	return agents, actions
}

// Restore replaces the store contents with a rehydrated snapshot.
func (s *AgentStore) Restore(agents []*domain.Agent, actions []*domain.AgentAction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.agents = make(map[string]*domain.Agent, len(agents))
	for _, a := range agents {
		s.agents[a.ID] = a.Clone()
	}
	s.actions = make(map[string][]*domain.AgentAction)
	for _, a := range actions {
		if _, ok := s.agents[a.AgentID]; !ok {
			continue
		}
		clone := *a
		s.actions[a.AgentID] = append(s.actions[a.AgentID], &clone)
	}
}
