package livehub

// Client is the interface for a live list viewer connection. It abstracts
// the transport so the hub can manage viewers uniformly.
type Client interface {
	// GetClientID returns the unique identifier of the connection.
	GetClientID() string

	// GetSendChannel returns the channel on which the hub delivers snapshots
	// for this viewer. It is a send-only channel.
	GetSendChannel() chan<- Message

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts the connection down. The hub calls it exactly once, when
	// the client leaves or falls behind.
	Close()
}
