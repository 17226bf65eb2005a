package llm

import "context"

// MockClient is a scripted test double for Client. Deltas are emitted in
// order followed by a done event; StreamFunc overrides everything when set.
type MockClient struct {
	ProviderName string
	Deltas       []string
	FailWith     string // emit an error event instead of done when non-empty
	StreamFunc   func(ctx context.Context, req Request) (<-chan StreamEvent, error)
}

func (m *MockClient) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}

func (m *MockClient) Stream(ctx context.Context, req Request) (<-chan StreamEvent, error) {
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, req)
	}

	ch := make(chan StreamEvent, len(m.Deltas)+1)
	go func() {
		defer close(ch)
		for _, d := range m.Deltas {
			select {
			case ch <- StreamEvent{Type: EventDelta, Delta: d}:
			case <-ctx.Done():
				return
			}
		}
		if m.FailWith != "" {
			ch <- StreamEvent{Type: EventError, Err: m.FailWith}
			return
		}
		ch <- StreamEvent{Type: EventDone}
	}()
	return ch, nil
}
