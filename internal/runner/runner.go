// Package runner drives chat turns: one request/response cycle per call,
// streaming provider deltas into the conversation store while the agent's
// status tracks the turn's phase.
package runner

import (
	"context"
	"fmt"

	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/llm"
	"github.com/loomhq/loom/internal/logging"
	"github.com/loomhq/loom/internal/store"
)

// Runner orchestrates single chat turns. Callers must not start a second turn
// for the same agent while one is in flight; turns for different agents may
// run concurrently, the stores serialize access.
type Runner struct {
	agents        *store.AgentStore
	conversations *store.ConversationStore
	registry      *llm.Registry
	persister     *store.Persister // optional; flushed after each turn when set
	log           *logging.Logger
}

// New creates a runner over the given stores and provider registry. The
// persister may be nil for ephemeral runs.
func New(agents *store.AgentStore, conversations *store.ConversationStore, registry *llm.Registry, persister *store.Persister, log *logging.Logger) *Runner {
	return &Runner{
		agents:        agents,
		conversations: conversations,
		registry:      registry,
		persister:     persister,
		log:           log.Named("runner"),
	}
}

// SendParams carries the input for one chat turn.
type SendParams struct {
	AgentID        string
	ConversationID string
	Text           string

	// OnDelta, when set, is called with each text delta as it is merged into
	// the store. It runs on the turn's goroutine; keep it cheap.
	OnDelta func(delta string)
}

// SendMessage runs one chat turn: appends the user message, streams the
// assistant's reply into the conversation as it arrives, and settles the
// agent's status. The returned message is the final assistant message.
//
// On provider failure or cancellation the agent is left in the error status
// and whatever text arrived stays in the conversation; nothing rolls back.
func (r *Runner) SendMessage(ctx context.Context, p SendParams) (*domain.Message, error) {
	agent := r.agents.Get(p.AgentID)
	if agent == nil {
		return nil, store.ErrAgentNotFound
	}
	if r.conversations.Get(p.ConversationID) == nil {
		return nil, store.ErrConversationNotFound
	}

	r.agents.UpdateStatus(agent.ID, domain.StatusThinking)

	r.conversations.AddMessage(p.ConversationID, domain.Message{
		Role:    domain.RoleUser,
		Content: []domain.ContentBlock{domain.TextBlock(p.Text)},
	})

	req := r.buildRequest(agent, p.ConversationID)

	// The empty assistant message goes in before the first token so the
	// conversation is observably in progress immediately.
	assistant := r.conversations.AddMessage(p.ConversationID, domain.Message{
		AgentID: agent.ID,
		Role:    domain.RoleAssistant,
		Meta: domain.MessageMeta{
			Model:     agent.Model,
			Streaming: true,
		},
	})

	r.agents.UpdateStatus(agent.ID, domain.StatusStreaming)

	client, err := r.registry.Resolve(agent.Provider)
	if err != nil {
		return nil, r.fail(agent.ID, p.ConversationID, assistant.ID, err)
	}

	events, err := client.Stream(ctx, req)
	if err != nil {
		return nil, r.fail(agent.ID, p.ConversationID, assistant.ID, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, r.fail(agent.ID, p.ConversationID, assistant.ID, ctx.Err())
		case event, ok := <-events:
			if !ok {
				return nil, r.fail(agent.ID, p.ConversationID, assistant.ID,
					fmt.Errorf("provider %s closed the stream without completing", client.Name()))
			}
			switch event.Type {
			case llm.EventDelta:
				r.mergeDelta(p.ConversationID, assistant.ID, event.Delta)
				if p.OnDelta != nil {
					p.OnDelta(event.Delta)
				}
			case llm.EventError:
				return nil, r.fail(agent.ID, p.ConversationID, assistant.ID,
					fmt.Errorf("provider %s: %s", client.Name(), event.Err))
			case llm.EventDone:
				return r.finish(agent.ID, p.ConversationID, assistant.ID)
			}
		}
	}
}

// buildRequest projects the conversation into the (role, flattened-text)
// shape providers consume. Non-text blocks contribute nothing to the text.
func (r *Runner) buildRequest(agent *domain.Agent, conversationID string) llm.Request {
	msgs := r.conversations.Messages(conversationID)
	history := make([]llm.Message, 0, len(msgs))
	for i := range msgs {
		history = append(history, llm.Message{
			Role:    string(msgs[i].Role),
			Content: msgs[i].Text(),
		})
	}
	return llm.Request{
		Model:       agent.Model,
		System:      agent.SystemPrompt,
		Messages:    history,
		MaxTokens:   agent.MaxTokens,
		Temperature: agent.Temperature,
	}
}

// mergeDelta folds one text delta into the streaming assistant message. The
// branch reads the live store state each time: the rendering layer consumes
// the store directly, so a locally cached copy would drift.
func (r *Runner) mergeDelta(conversationID, messageID, delta string) {
	msgs := r.conversations.Messages(conversationID)
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	if last.ID != messageID {
		return
	}

	if n := len(last.Content); n > 0 && last.Content[n-1].Type == domain.BlockText {
		merged := domain.TextBlock(last.Content[n-1].Text + delta)
		r.conversations.UpdateLastMessageContent(conversationID, n-1, merged)
		return
	}
	r.conversations.UpdateMessage(conversationID, messageID, store.MessagePatch{
		Content: []domain.ContentBlock{domain.TextBlock(delta)},
	})
}

func (r *Runner) finish(agentID, conversationID, messageID string) (*domain.Message, error) {
	streaming := false
	stop := "end_turn"
	r.conversations.UpdateMessage(conversationID, messageID, store.MessagePatch{
		Streaming:  &streaming,
		StopReason: &stop,
	})
	r.agents.UpdateStatus(agentID, domain.StatusIdle)
	r.flush()

	msgs := r.conversations.Messages(conversationID)
	for i := range msgs {
		if msgs[i].ID == messageID {
			return &msgs[i], nil
		}
	}
	return nil, store.ErrConversationNotFound
}

// fail settles an aborted turn. The partial assistant message stays as-is so
// the user keeps whatever text arrived before the failure.
func (r *Runner) fail(agentID, conversationID, messageID string, err error) error {
	streaming := false
	r.conversations.UpdateMessage(conversationID, messageID, store.MessagePatch{
		Streaming: &streaming,
	})
	r.agents.UpdateStatus(agentID, domain.StatusError)
	r.flush()
	r.log.Error().Err(err).Str("agent", agentID).Str("conversation", conversationID).Msg("chat turn failed")
	return err
}

func (r *Runner) flush() {
	if r.persister != nil {
		r.persister.FlushAsync()
	}
}
