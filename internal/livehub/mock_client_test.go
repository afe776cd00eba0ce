package livehub_test

import (
	"sync"

	"gnacomplaints/backend/internal/livehub"
)

type MockClient struct {
	clientID    string
	RecvChannel chan livehub.Message

	mu     sync.Mutex
	closed bool
}

func newMockClient(clientID string, buffer int) *MockClient {
	return &MockClient{
		clientID:    clientID,
		RecvChannel: make(chan livehub.Message, buffer),
	}
}

func (c *MockClient) GetClientID() string { return c.clientID }

func (c *MockClient) GetSendChannel() chan<- livehub.Message { return c.RecvChannel }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
