package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/logging"
)

// Blob keys for the persisted collections.
const (
	keyWorkspaces    = "workspaces"
	keyAgents        = "agents"
	keyConversations = "conversations"
	keyActions       = "actions"
	keyState         = "state"
)

// record is one (id, entity) pair. Collections persist as ordered lists of
// these rather than native maps, so the on-disk shape is stable and ordered.
type record[T any] struct {
	ID     string `json:"id"`
	Entity T      `json:"entity"`
}

// persistedState carries the active pointers.
type persistedState struct {
	ActiveWorkspaceID    string `json:"activeWorkspaceId,omitempty"`
	ActiveConversationID string `json:"activeConversationId,omitempty"`
}

// Persister flushes the three stores to a blob store and rehydrates them on
// load. Flushing is best-effort: in-memory state stays authoritative and a
// failed flush never blocks a mutation.
type Persister struct {
	blob          BlobStore
	workspaces    *WorkspaceStore
	agents        *AgentStore
	conversations *ConversationStore
	log           *logging.Logger
}

// NewPersister wires a persister over the given stores.
func NewPersister(blob BlobStore, workspaces *WorkspaceStore, agents *AgentStore, conversations *ConversationStore, log *logging.Logger) *Persister {
	return &Persister{
		blob:          blob,
		workspaces:    workspaces,
		agents:        agents,
		conversations: conversations,
		log:           log.Named("store.persist"),
	}
}

// Flush serializes every collection to the blob store. Individual failures
// are collected; the remaining collections still flush.
func (p *Persister) Flush(ctx context.Context) error {
	workspaces, activeWorkspace := p.workspaces.Export()
	agents, actions := p.agents.Export()
	conversations, activeConversation := p.conversations.Export()

	var errs []error
	errs = append(errs, p.set(ctx, keyWorkspaces, encodeRecords(workspaces, func(w *domain.Workspace) string { return w.ID })))
	errs = append(errs, p.set(ctx, keyAgents, encodeRecords(agents, func(a *domain.Agent) string { return a.ID })))
	errs = append(errs, p.set(ctx, keyConversations, encodeRecords(conversations, func(c *domain.Conversation) string { return c.ID })))
	errs = append(errs, p.set(ctx, keyActions, encodeRecords(actions, func(a *domain.AgentAction) string { return a.ID })))

	state, err := json.Marshal(persistedState{
		ActiveWorkspaceID:    activeWorkspace,
		ActiveConversationID: activeConversation,
	})
	if err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, p.set(ctx, keyState, state))
	}

	return errors.Join(errs...)
}

// FlushAsync runs Flush in the background, logging failures. Mutation batches
// use this so persistence never sits on the caller's path.
func (p *Persister) FlushAsync() {
	go func() {
		if err := p.Flush(context.Background()); err != nil {
			p.log.Error().Err(err).Msg("flush failed")
		}
	}()
}

// Load rehydrates every store from the blob store. Absent or malformed blobs
// rehydrate to empty collections rather than failing.
func (p *Persister) Load(ctx context.Context) error {
	workspaces := decodeRecords[*domain.Workspace](p.load(ctx, keyWorkspaces), p.log, keyWorkspaces)
	agents := decodeRecords[*domain.Agent](p.load(ctx, keyAgents), p.log, keyAgents)
	conversations := decodeRecords[*domain.Conversation](p.load(ctx, keyConversations), p.log, keyConversations)
	actions := decodeRecords[*domain.AgentAction](p.load(ctx, keyActions), p.log, keyActions)

	var state persistedState
	if data := p.load(ctx, keyState); data != nil {
		if err := json.Unmarshal(data, &state); err != nil {
			p.log.Warn().Err(err).Msg("malformed state blob, starting unset")
			state = persistedState{}
		}
	}

	p.workspaces.Restore(workspaces, state.ActiveWorkspaceID)
	p.agents.Restore(agents, actions)
	p.conversations.Restore(conversations, state.ActiveConversationID)

	p.log.Info().
		Int("workspaces", len(workspaces)).
		Int("agents", len(agents)).
		Int("conversations", len(conversations)).
		Int("actions", len(actions)).
		Msg("state loaded")
	return nil
}

func (p *Persister) set(ctx context.Context, key string, data []byte) error {
	if data == nil {
		return fmt.Errorf("encoding %s", key)
	}
	return p.blob.Set(ctx, key, data)
}

func (p *Persister) load(ctx context.Context, key string) []byte {
	data, err := p.blob.Get(ctx, key)
	if err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("blob read failed, starting empty")
		return nil
	}
	return data
}

func encodeRecords[T any](entities []T, id func(T) string) []byte {
	records := make([]record[T], 0, len(entities))
	for _, e := range entities {
		records = append(records, record[T]{ID: id(e), Entity: e})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil
	}
	return data
}

func decodeRecords[T any](data []byte, log *logging.Logger, key string) []T {
	if data == nil {
		return nil
	}
	var records []record[T]
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("malformed blob, starting empty")
		return nil
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		out = append(out, r.Entity)
	}
	return out
}
