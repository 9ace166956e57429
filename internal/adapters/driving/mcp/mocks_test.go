package mcp

import (
	"context"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// mockDispatcher records calls and answers with a fixed envelope.
type mockDispatcher struct {
	calls []domain.NormalizedCall
	env   domain.ResponseEnvelope
	ops   []string
}

func (m *mockDispatcher) Dispatch(_ context.Context, call domain.NormalizedCall) domain.ResponseEnvelope {
	m.calls = append(m.calls, call)
	env := m.env
	env.CorrelationID = call.CorrelationID
	return env
}

func (m *mockDispatcher) Operations() []string {
	return m.ops
}

// mockTokenService is a mock implementation of driving.TokenService.
type mockTokenService struct {
	token *domain.StoredToken
	err   error
	asked []string
}

func (m *mockTokenService) Token(_ context.Context, _ string) (*domain.StoredToken, error) {
	return m.token, m.err
}

func (m *mockTokenService) Status(_ context.Context, integration string) (*domain.StoredToken, error) {
	m.asked = append(m.asked, integration)
	return m.token, m.err
}

func (m *mockTokenService) Seed(_ context.Context, _ string, _ domain.StoredToken) error {
	return m.err
}

func (m *mockTokenService) ForceRefresh(_ context.Context, _ string) (*domain.StoredToken, error) {
	return m.token, m.err
}
