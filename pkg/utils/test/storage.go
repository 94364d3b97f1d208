package testutils

import (
	"context"

	"github.com/quillardco/sensei/pkg/storage"
	"github.com/quillardco/sensei/pkg/storage/inmemory"
)

// MockStorer wraps the in-memory driver with switchable failure modes so
// tests can exercise the read-fatal / write-non-fatal asymmetry.
type MockStorer struct {
	*inmemory.Driver

	// FetchErr, when set, causes FetchRecent to fail
	FetchErr error

	// AppendErr, when set, causes Append to fail
	AppendErr error
}

func NewMockStorer() *MockStorer {
	return &MockStorer{Driver: inmemory.NewDriver()}
}

func (m *MockStorer) FetchRecent(ctx context.Context, userID, sessionID string, limit int) ([]*storage.Turn, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return m.Driver.FetchRecent(ctx, userID, sessionID, limit)
}

func (m *MockStorer) Append(ctx context.Context, turn *storage.Turn) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	return m.Driver.Append(ctx, turn)
}
