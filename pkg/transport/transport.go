package transport

import (
	"context"

	"golem/pkg/message"
)

// Conn is the boundary to the wire-level chat network client. The runtime
// reads the whole inbound stream through Recv and is the only writer through
// Send, so implementations only need to serialize raw socket access against
// their own protocol-keepalive traffic.
type Conn interface {
	// Recv blocks until the next inbound message, a transport error, or
	// ctx is done.
	Recv(ctx context.Context) (message.ChatMessage, error)

	// Send writes exactly one message to the network.
	Send(ctx context.Context, msg message.ChatMessage) error

	// Nick is the identity this connection is configured to claim.
	Nick() string
}
