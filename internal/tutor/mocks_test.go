package tutor_test

import (
	"context"
	"encoding/json"

	"togaftutor.app/tutor/common/llm"
	"togaftutor.app/tutor/internal/model"
)

type mockLLM struct {
	chatFn   func(ctx context.Context, req llm.Request, result any) (*llm.Response, error)
	requests []llm.Request
}

func (m *mockLLM) Chat(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
	m.requests = append(m.requests, req)
	if m.chatFn != nil {
		return m.chatFn(ctx, req, result)
	}
	return &llm.Response{}, nil
}

func (m *mockLLM) Model() string { return "mock-model" }

// fillResult unmarshals canned output into the caller's result type the
// way a real provider would.
func fillResult(result any, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

type mockSearcher struct {
	searchFn func(ctx context.Context, text string, level model.ExperienceLevel, goal model.CertificationLevel, limit int) ([]model.SearchResult, error)
}

func (m *mockSearcher) SearchForUser(ctx context.Context, text string, level model.ExperienceLevel, goal model.CertificationLevel, limit int) ([]model.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, text, level, goal, limit)
	}
	return nil, nil
}

type mockProfileReader struct {
	getFn func(ctx context.Context, userID string) (*model.UserProfile, error)
}

func (m *mockProfileReader) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

type mockSessionReader struct {
	getFn func(ctx context.Context, sessionID string) (*model.ConversationSession, error)
}

func (m *mockSessionReader) Get(ctx context.Context, sessionID string) (*model.ConversationSession, error) {
	if m.getFn != nil {
		return m.getFn(ctx, sessionID)
	}
	return nil, nil
}

type mockAnalyticsProvider struct {
	analyticsFn func(ctx context.Context, userID string) (*model.ProgressAnalytics, error)
}

func (m *mockAnalyticsProvider) Analytics(ctx context.Context, userID string) (*model.ProgressAnalytics, error) {
	if m.analyticsFn != nil {
		return m.analyticsFn(ctx, userID)
	}
	return nil, nil
}
