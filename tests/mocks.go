package tests

import (
	"context"
	"sync"
)

type dispatchCall struct {
	kind          string
	opportunityID int
	candidateID   int
}

type mockDispatch struct {
	mu    sync.Mutex
	err   error
	calls []dispatchCall
}

func (m *mockDispatch) NotifyCandidateOfOpportunity(ctx context.Context, candidateID, opportunityID int) error {
	m.record(dispatchCall{kind: "candidate", opportunityID: opportunityID, candidateID: candidateID})
	return m.err
}

func (m *mockDispatch) NotifyRecruiterOfArchiveCandidate(ctx context.Context, opportunityID int) error {
	m.record(dispatchCall{kind: "archive", opportunityID: opportunityID})
	return m.err
}

func (m *mockDispatch) NotifyRecruiterNoResponse(ctx context.Context, opportunityID int) error {
	m.record(dispatchCall{kind: "no-response", opportunityID: opportunityID})
	return m.err
}

func (m *mockDispatch) record(call dispatchCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockDispatch) callsOfKind(kind string) []dispatchCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []dispatchCall
	for _, call := range m.calls {
		if call.kind == kind {
			matched = append(matched, call)
		}
	}
	return matched
}
