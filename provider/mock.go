package provider

import (
	"context"

	"github.com/ruteri/getipfs/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockStrategy mocks the Strategy interface
type MockStrategy struct {
	mock.Mock
	name interfaces.ProviderName
}

// NewMockStrategy creates a mock strategy reporting name
func NewMockStrategy(name interfaces.ProviderName) *MockStrategy {
	return &MockStrategy{name: name}
}

// Name returns the configured provider name
func (m *MockStrategy) Name() interfaces.ProviderName {
	return m.name
}

// Attempt mocks the Attempt method
func (m *MockStrategy) Attempt(ctx context.Context) *Result {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*Result)
}
