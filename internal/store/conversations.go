package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/logging"
)

// ConversationStore owns conversation and message lifecycle, branch creation,
// and in-place message mutation during streaming. Query methods return deep
// copies; the stored records are mutated only under the store's lock.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
	activeID      string
	log           *logging.Logger
}

// NewConversationStore creates an empty conversation store.
func NewConversationStore(log *logging.Logger) *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]*domain.Conversation),
		log:           log.Named("store.conversations"),
	}
}

// Create assigns an id and timestamps and stores a new conversation, making
// it the active one. When parentID and branchPoint are both given and the
// parent resolves, the message sequence is seeded with an independent copy of
// the parent's messages up to and including branchPoint. A parent that does
// not resolve still gets recorded, leaving a dangling reference the tree
// engine promotes to a root.
func (s *ConversationStore) Create(workspaceID, agentID, parentID string, branchPoint *int) *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	conv := &domain.Conversation{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		AgentID:     agentID,
		ParentID:    parentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if branchPoint != nil {
		bp := *branchPoint
		conv.BranchPoint = &bp
	}

	if parentID != "" && branchPoint != nil {
		if parent, ok := s.conversations[parentID]; ok {
			end := *branchPoint + 1
			if end > len(parent.Messages) {
				end = len(parent.Messages)
			}
			if end > 0 {
				conv.Messages = domain.CloneMessages(parent.Messages[:end])
			}
		}
	}

	s.conversations[conv.ID] = conv
	s.activeID = conv.ID

	s.log.Debug().Str("conversation", conv.ID).Str("parent", parentID).Msg("conversation created")
	return conv.Clone()
}

// Branch forks the source conversation at the given message index, inheriting
// its workspace and agent, and optionally appends one new message to the
// fork. Returns nil when the source does not resolve.
func (s *ConversationStore) Branch(conversationID string, fromMessageIndex int, newMessage *domain.Message) *domain.Conversation {
	source := s.Get(conversationID)
	if source == nil {
		return nil
	}

	branch := s.Create(source.WorkspaceID, source.AgentID, conversationID, &fromMessageIndex)
	if newMessage != nil {
		s.AddMessage(branch.ID, *newMessage)
	}
	return s.Get(branch.ID)
}

// AddMessage appends the message to the conversation, assigning an id and
// timestamp when absent. Returns the stored message, or nil if the
// conversation does not resolve.
func (s *ConversationStore) AddMessage(id string, msg domain.Message) *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	msg.Content = domain.CloneBlocks(msg.Content)

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = time.Now()

	out := msg
	out.Content = domain.CloneBlocks(msg.Content)
	return &out
}

// MessagePatch is a partial message update; nil fields are left unchanged.
// A non-nil Content replaces the whole content sequence.
type MessagePatch struct {
	Content      []domain.ContentBlock
	Model        *string
	InputTokens  *int
	OutputTokens *int
	Streaming    *bool
	StopReason   *string
}

// UpdateMessage merges the patch onto the message with the given id. No-op if
// the conversation or message does not resolve.
func (s *ConversationStore) UpdateMessage(id, messageID string, patch MessagePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return
	}
	for i := range conv.Messages {
		if conv.Messages[i].ID != messageID {
			continue
		}
		m := &conv.Messages[i]
		if patch.Content != nil {
			m.Content = domain.CloneBlocks(patch.Content)
		}
		if patch.Model != nil {
			m.Meta.Model = *patch.Model
		}
		if patch.InputTokens != nil {
			m.Meta.InputTokens = *patch.InputTokens
		}
		if patch.OutputTokens != nil {
			m.Meta.OutputTokens = *patch.OutputTokens
		}
		if patch.Streaming != nil {
			m.Meta.Streaming = *patch.Streaming
		}
		if patch.StopReason != nil {
			m.Meta.StopReason = *patch.StopReason
		}
		conv.UpdatedAt = time.Now()
		return
	}
}

// AppendToLastMessage appends one content block to the last message's content
// sequence. No-op if the conversation has no messages.
func (s *ConversationStore) AppendToLastMessage(id string, block domain.ContentBlock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok || len(conv.Messages) == 0 {
		return
	}
	last := &conv.Messages[len(conv.Messages)-1]
	last.Content = append(last.Content, block)
	conv.UpdatedAt = time.Now()
}

// UpdateLastMessageContent replaces the content block at index within the
// last message. Streaming overwrites an in-progress block through this
// instead of growing the sequence. No-op when out of range.
func (s *ConversationStore) UpdateLastMessageContent(id string, index int, block domain.ContentBlock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok || len(conv.Messages) == 0 {
		return
	}
	last := &conv.Messages[len(conv.Messages)-1]
	if index < 0 || index >= len(last.Content) {
		return
	}
	last.Content[index] = block
	conv.UpdatedAt = time.Now()
}

// SetTitle sets the conversation title.
func (s *ConversationStore) SetTitle(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return
	}
	conv.Title = title
	conv.UpdatedAt = time.Now()
}

// Delete removes the conversation. Children are left in place; their parent
// reference dangles and the tree engine promotes them to roots.
func (s *ConversationStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return
	}
	delete(s.conversations, id)
	if s.activeID == id {
		s.activeID = ""
	}
	s.log.Debug().Str("conversation", id).Msg("conversation deleted")
}

// SetActive marks the conversation as active. No-op if the id does not resolve.
func (s *ConversationStore) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; ok {
		s.activeID = id
	}
}

// ActiveID returns the active conversation id, or "" when unset.
func (s *ConversationStore) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Get returns a deep copy of the conversation, or nil.
func (s *ConversationStore) Get(id string) *domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if conv, ok := s.conversations[id]; ok {
		return conv.Clone()
	}
	return nil
}

// Messages returns a copy of the conversation's message sequence.
func (s *ConversationStore) Messages(id string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if conv, ok := s.conversations[id]; ok {
		return domain.CloneMessages(conv.Messages)
	}
	return nil
}

// ListByWorkspace returns the conversations owned by the workspace, unsorted.
func (s *ConversationStore) ListByWorkspace(workspaceID string) []*domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Conversation
	for _, conv := range s.conversations {
		if conv.WorkspaceID == workspaceID {
			out = append(out, conv.Clone())
		}
	}
	return out
}

// ListByAgent returns the conversations owned by the agent, unsorted.
func (s *ConversationStore) ListByAgent(agentID string) []*domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Conversation
	for _, conv := range s.conversations {
		if conv.AgentID == agentID {
			out = append(out, conv.Clone())
		}
	}
	return out
}

// All returns a snapshot of every conversation, for the tree engine and
// persistence.
func (s *ConversationStore) All() []*domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, conv.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Export returns all conversations in stable order plus the active id, for
// persistence.
func (s *ConversationStore) Export() ([]*domain.Conversation, string) {
	return s.All(), s.ActiveID()
}

// Restore replaces the store contents with a rehydrated snapshot.
func (s *ConversationStore) Restore(conversations []*domain.Conversation, activeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = make(map[string]*domain.Conversation, len(conversations))
	for _, conv := range conversations {
		s.conversations[conv.ID] = conv.Clone()
	}
	if _, ok := s.conversations[activeID]; ok {
		s.activeID = activeID
	} else {
		s.activeID = ""
	}
}
