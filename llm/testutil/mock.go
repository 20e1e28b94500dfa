// Package testutil provides test doubles for the llm package.
package testutil

import (
	"context"
	"sync"

	"github.com/erentorlak/storemigrate/llm"
)

// MockClient is a thread-safe mock completion client for testing.
// It records every request passed to Complete() and returns configured
// responses in sequence.
//
// Usage:
//
//	// Single response mock
//	mock := &testutil.MockClient{
//	    Responses: []*llm.Response{
//	        {Content: `{"result": "success"}`, Model: "test-model"},
//	    },
//	}
//
//	// Error response
//	mock := &testutil.MockClient{
//	    Err: errors.New("connection failed"),
//	}
type MockClient struct {
	mu            sync.Mutex
	requests      []llm.Request
	Responses     []*llm.Response // Responses to return in sequence
	Err           error           // Error to return (takes precedence over Responses)
	callCount     int
	responseIndex int
}

// Complete implements llm.CompletionClient.
// Returns the next response from Responses, or Err if set.
func (m *MockClient) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	m.callCount++

	if m.Err != nil {
		return nil, m.Err
	}

	if m.responseIndex < len(m.Responses) {
		resp := m.Responses[m.responseIndex]
		m.responseIndex++
		return resp, nil
	}

	// Default response if no responses configured
	return &llm.Response{Content: "", Model: "test-model"}, nil
}

// Requests returns a copy of all requests passed to Complete().
func (m *MockClient) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or a zero Request if none.
func (m *MockClient) LastRequest() llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return llm.Request{}
	}
	return m.requests[len(m.requests)-1]
}

// CallCount returns the number of times Complete() was called.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears recorded requests and rewinds the response sequence.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.responseIndex = 0
	m.requests = nil
}
