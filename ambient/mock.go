package ambient

import (
	"net/url"

	"github.com/stretchr/testify/mock"
)

// MockRoot mocks the Root interface
type MockRoot struct {
	mock.Mock
}

// Lookup mocks the Lookup method
func (m *MockRoot) Lookup(path string) (any, bool) {
	args := m.Called(path)
	return args.Get(0), args.Bool(1)
}

// Location mocks the Location method
func (m *MockRoot) Location() *url.URL {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*url.URL)
}
