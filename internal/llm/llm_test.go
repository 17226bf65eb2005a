package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomhq/loom/internal/logging"
)

func TestCatalog_DefaultModel(t *testing.T) {
	model, err := DefaultModel("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5", model)
}

func TestCatalog_DefaultModel_Unknown(t *testing.T) {
	_, err := DefaultModel("nope")
	require.Error(t, err)
	var unknown *ErrUnknownProvider
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Provider)
}

func TestCatalog_ValidModel(t *testing.T) {
	assert.True(t, ValidModel("anthropic", "claude-opus-4-1"))
	assert.False(t, ValidModel("anthropic", "gpt-5"))
	assert.False(t, ValidModel("nope", "anything"))
}

func TestRegistry_Resolve(t *testing.T) {
	log := logging.New(nil, "silent")
	reg := NewRegistry(log)
	reg.Register("mock", &MockClient{ProviderName: "mock"})

	c, err := reg.Resolve("mock")
	require.NoError(t, err)
	assert.Equal(t, "mock", c.Name())
}

func TestRegistry_Resolve_Fallback(t *testing.T) {
	log := logging.New(nil, "silent")
	reg := NewRegistry(log)
	reg.Register("mock", &MockClient{ProviderName: "mock"})
	reg.SetFallback("mock")

	c, err := reg.Resolve("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "mock", c.Name())
}

func TestRegistry_Resolve_NoMatch(t *testing.T) {
	log := logging.New(nil, "silent")
	reg := NewRegistry(log)

	_, err := reg.Resolve("anthropic")
	assert.Error(t, err)
}

func TestMockClient_Stream(t *testing.T) {
	m := &MockClient{Deltas: []string{"Hel", "lo"}}

	ch, err := m.Stream(context.Background(), Request{})
	require.NoError(t, err)

	var got []StreamEvent
	for evt := range ch {
		got = append(got, evt)
	}
	require.Len(t, got, 3)
	assert.Equal(t, EventDelta, got[0].Type)
	assert.Equal(t, "Hel", got[0].Delta)
	assert.Equal(t, EventDone, got[2].Type)
}

func TestMockClient_Stream_Error(t *testing.T) {
	m := &MockClient{Deltas: []string{"partial"}, FailWith: "boom"}

	ch, err := m.Stream(context.Background(), Request{})
	require.NoError(t, err)

	var last StreamEvent
	for evt := range ch {
		last = evt
	}
	assert.Equal(t, EventError, last.Type)
	assert.Equal(t, "boom", last.Err)
}
