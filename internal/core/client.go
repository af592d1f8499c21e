package core

// defaultClientBuffer sizes the per-client channels when the caller passes
// no preference.
const defaultClientBuffer = 32

// Client is a connected participant as seen by the dispatch engine. The
// transport writes inbound commands to Commands and drains Events; the hub
// never blocks on a slow consumer.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	// closed by the hub once the client is unregistered
	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = defaultClientBuffer
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, buffer),
		Events:   make(chan *Event, buffer),
		done:     make(chan struct{}),
	}
}

// Done is closed when the hub has fully unregistered the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
