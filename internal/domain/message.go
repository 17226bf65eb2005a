package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// BlockType discriminates the content block variants.
type BlockType string

const (
	BlockText       BlockType = "text"
	BlockThinking   BlockType = "thinking"
	BlockToolUse    BlockType = "tool_use"
	BlockToolResult BlockType = "tool_result"
)

// ContentBlock is one typed unit of message content. The Type field selects
// which of the variant fields are meaningful; the rest stay zero.
type ContentBlock struct {
	Type BlockType `json:"type"`

	// text
	Text      string   `json:"text,omitempty"`
	Citations []string `json:"citations,omitempty"`

	// thinking
	Thinking string `json:"thinking,omitempty"`

	// tool_use
	ToolUseID string          `json:"toolUseId,omitempty"`
	ToolName  string          `json:"toolName,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`

	// tool_result
	ForToolUseID string `json:"forToolUseId,omitempty"`
	Content      string `json:"content,omitempty"`
	IsError      bool   `json:"isError,omitempty"`
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// ThinkingBlock builds a thinking content block.
func ThinkingBlock(thinking string) ContentBlock {
	return ContentBlock{Type: BlockThinking, Thinking: thinking}
}

// ToolUseBlock builds a tool-use request block.
func ToolUseBlock(id, name string, input json.RawMessage) ContentBlock {
	return ContentBlock{Type: BlockToolUse, ToolUseID: id, ToolName: name, Input: input}
}

// ToolResultBlock builds a tool-result block for the given originating call.
func ToolResultBlock(forToolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{Type: BlockToolResult, ForToolUseID: forToolUseID, Content: content, IsError: isError}
}

// MessageMeta carries optional provider-side metadata for a message.
type MessageMeta struct {
	Model        string `json:"model,omitempty"`
	InputTokens  int    `json:"inputTokens,omitempty"`
	OutputTokens int    `json:"outputTokens,omitempty"`
	Streaming    bool   `json:"streaming,omitempty"`
	StopReason   string `json:"stopReason,omitempty"`
}

// Message is a single turn in a conversation.
type Message struct {
	ID        string         `json:"id"`
	AgentID   string         `json:"agentId,omitempty"`
	Role      Role           `json:"role"`
	Content   []ContentBlock `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Meta      MessageMeta    `json:"meta,omitempty"`
}

// Text returns the newline-joined concatenation of all text blocks.
// Non-text blocks contribute nothing.
func (m *Message) Text() string {
	var parts []string
	for _, b := range m.Content {
		if b.Type == BlockText {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// CloneBlocks returns an independent copy of a content block slice.
func CloneBlocks(blocks []ContentBlock) []ContentBlock {
	if blocks == nil {
		return nil
	}
	out := make([]ContentBlock, len(blocks))
	copy(out, blocks)
	for i := range out {
		if out[i].Citations != nil {
			out[i].Citations = append([]string(nil), out[i].Citations...)
		}
		if out[i].Input != nil {
			out[i].Input = append(json.RawMessage(nil), out[i].Input...)
		}
	}
	return out
}

// CloneMessages returns a deep copy of a message slice. Branch snapshots rely
// on this so later edits to the source never reach the copy.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	for i := range out {
		out[i].Content = CloneBlocks(out[i].Content)
	}
	return out
}
