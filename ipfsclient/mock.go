package ipfsclient

import (
	"context"
	"io"

	"github.com/ruteri/getipfs/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockClient mocks the IPFSClient interface
type MockClient struct {
	mock.Mock
}

// Cat mocks the Cat method
func (m *MockClient) Cat(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// Ls mocks the Ls method
func (m *MockClient) Ls(ctx context.Context, path string) ([]interfaces.Link, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interfaces.Link), args.Error(1)
}

// Add mocks the Add method
func (m *MockClient) Add(ctx context.Context, r io.Reader) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}
