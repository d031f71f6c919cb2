package toolchain

import (
	"context"
	"sync"
)

// mockRunner records commands and delegates to fn.
type mockRunner struct {
	mu    sync.Mutex
	calls []Command
	fn    func(ctx context.Context, c Command) (Output, error)
}

func (m *mockRunner) Run(ctx context.Context, c Command) (Output, error) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
	if m.fn == nil {
		return Output{ExitCode: 0}, nil
	}
	return m.fn(ctx, c)
}

func (m *mockRunner) Calls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Command(nil), m.calls...)
}
