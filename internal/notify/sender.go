package notify

import "context"

// Message is one push notification addressed to a single device.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers push notifications. The boolean is a delivery
// acknowledgement from the transport, not a delivery guarantee.
type Sender interface {
	Send(ctx context.Context, msg Message) (bool, error)
}
