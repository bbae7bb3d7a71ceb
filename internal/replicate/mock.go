package replicate

import (
	"context"
	"path/filepath"
	"sync"
)

// MockClient for testing
type MockClient struct {
	mu sync.Mutex

	// Outputs maps a file base name to its output; Response is used otherwise.
	Outputs  map[string]*Output
	Response *Output
	// Errors maps a file base name to the error returned for it; Error is used otherwise.
	Errors map[string]error
	Error  error

	Calls []string
}

func (m *MockClient) Predict(_ context.Context, imagePath string) (*Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, imagePath)

	key := filepath.Base(imagePath)
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if m.Error != nil {
		return nil, m.Error
	}
	if out, ok := m.Outputs[key]; ok {
		return out, nil
	}
	return m.Response, nil
}

// NewOutput builds an Output with both tag fields set.
func NewOutput(structuredTags, tags string) *Output {
	out := &Output{Tags: tags}
	out.JSONData.Tags = structuredTags
	return out
}
