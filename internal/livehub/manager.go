// Package livehub fans complaint list snapshots out to connected viewers.
package livehub

import (
	"context"
	"log/slog"

	"gnacomplaints/backend/internal/metrics"
)

// ManagerService owns the set of live viewers. Only the Run goroutine
// touches Clients and the latest snapshot.
type ManagerService struct {
	Clients map[string]Client

	// Channels
	RegisterCh   chan Client
	UnregisterCh chan Client
	SnapshotCh   chan Message

	latest *Message
	done   chan struct{}
}

func NewManagerService() *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		SnapshotCh:   make(chan Message),
		done:         make(chan struct{}),
	}
}

// Run dispatches registrations and snapshots until ctx ends, then closes
// every remaining client.
func (m *ManagerService) Run(ctx context.Context) {
	slog.Info("live hub started")
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			for id, client := range m.Clients {
				delete(m.Clients, id)
				client.Close()
			}
			metrics.LiveViewers.Set(0)
			slog.Info("live hub stopped")
			return

		case client := <-m.RegisterCh:
			if previous, ok := m.Clients[client.GetClientID()]; ok && previous != client {
				previous.Close()
			}
			m.Clients[client.GetClientID()] = client
			metrics.LiveViewers.Set(float64(len(m.Clients)))
			// Late joiners start from the current list.
			if m.latest != nil {
				m.deliver(client, *m.latest)
			}

		case client := <-m.UnregisterCh:
			m.drop(client)

		case msg := <-m.SnapshotCh:
			m.latest = &msg
			metrics.SnapshotsBroadcast.Inc()
			for _, client := range m.Clients {
				m.deliver(client, msg)
			}
		}
	}
}

// deliver hands msg to a client without blocking the hub. A client whose
// buffer is full is disconnected; it can reconnect and get the latest list.
func (m *ManagerService) deliver(client Client, msg Message) {
	select {
	case client.GetSendChannel() <- msg:
	default:
		slog.Warn("dropping slow live viewer", "client_id", client.GetClientID())
		m.drop(client)
	}
}

func (m *ManagerService) drop(client Client) {
	current, ok := m.Clients[client.GetClientID()]
	if !ok || current != client {
		return
	}
	delete(m.Clients, client.GetClientID())
	client.Close()
	metrics.LiveViewers.Set(float64(len(m.Clients)))
}

// Publish queues a snapshot for every viewer.
func (m *ManagerService) Publish(ctx context.Context, msg Message) {
	select {
	case m.SnapshotCh <- msg:
	case <-ctx.Done():
	case <-m.done:
	}
}

// Register adds a viewer. It is a no-op once the hub has stopped.
func (m *ManagerService) Register(client Client) bool {
	select {
	case m.RegisterCh <- client:
		return true
	case <-m.done:
		return false
	}
}

// Unregister removes a viewer. It is a no-op once the hub has stopped.
func (m *ManagerService) Unregister(client Client) {
	select {
	case m.UnregisterCh <- client:
	case <-m.done:
	}
}

// Done is closed when Run returns.
func (m *ManagerService) Done() <-chan struct{} { return m.done }
