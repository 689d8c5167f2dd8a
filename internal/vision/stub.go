package vision

import (
	"context"
	"sync"
)

// DefaultStubResponse is a well-formed labelled answer for a fire incident
const DefaultStubResponse = `TITLE: Kitchen fire in apartment building
TYPE: EMERGENCY
SPECIFIC_TYPE: FIRE_OUTBREAK
LOCATION_DESCRIPTION: Residential building, ground floor window facing the street
DESCRIPTION: Visible flames and heavy smoke from a ground floor window. Risk of spread to upper floors. Evacuate residents and call the fire brigade.`

// StubClient answers every request with a fixed response. It is meant for tests.
type StubClient struct {
	Response string
	Err      error

	mu    sync.Mutex
	calls []Request
}

func NewStubClient(response string) *StubClient {
	if response == "" {
		response = DefaultStubResponse
	}
	return &StubClient{Response: response}
}

func (s *StubClient) Name() string {
	return "stub"
}

func (s *StubClient) Generate(ctx context.Context, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

// Calls returns a copy of the requests seen so far
func (s *StubClient) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.calls...)
}
