package plugin

import (
	"context"
	"log/slog"

	"github.com/julienschmidt/httprouter"

	"golem/pkg/config"
	"golem/pkg/message"
)

// Plugin is one independently implemented behavior unit. Instances are
// registered once at startup and live for the process lifetime; the runtime
// is the sole owner and shares them by reference only for the duration of a
// dispatch.
type Plugin interface {
	// Name is the stable, unique identity used for logging and
	// feedback-loop exclusion. Never empty.
	Name() string

	// ObservesBlacklisted reports whether the plugin still receives
	// messages from blacklisted sources. Moderation-style plugins that
	// must see everything return true.
	ObservesBlacklisted() bool

	// OnInbound reacts to one inbound message. A nil reply means the
	// plugin has nothing to say. A slow hook only delays its own
	// contribution to the round.
	OnInbound(ctx context.Context, msg message.ChatMessage) (*message.ChatMessage, error)

	// OnOutbound observes a message about to be sent to the network that
	// this plugin did not author. Errors are logged by the caller, never
	// propagated to the sender.
	OnOutbound(ctx context.Context, msg message.ChatMessage) error

	// Run is the optional long-lived background task, started once after
	// the handshake. Messages pushed into sink are sent to the network
	// out of band, tagged with this plugin's name. A normal return ends
	// only this plugin's background activity; an error stops the runtime.
	Run(ctx context.Context, sink chan<- message.ChatMessage) error
}

// Route is one externally exposed HTTP endpoint a plugin contributes at init
// time. Route tables are merged once by the runtime and never mutated
// afterward.
type Route struct {
	Method string
	Path   string
	Handle httprouter.Handle
}

// Initialised is what a plugin constructor yields: the instance plus its
// optional route table.
type Initialised struct {
	Plugin Plugin
	Routes []Route
}

// InitFunc constructs a plugin instance. It may perform network calls, for
// example to acquire a credential.
type InitFunc func(ctx context.Context, cfg *config.Config, log *slog.Logger) (Initialised, error)

// Base provides the default no-op hooks so concrete plugins only implement
// what they care about.
type Base struct{}

// ObservesBlacklisted defaults to suppressing blacklisted sources.
func (Base) ObservesBlacklisted() bool { return false }

// OnInbound defaults to no reply.
func (Base) OnInbound(context.Context, message.ChatMessage) (*message.ChatMessage, error) {
	return nil, nil
}

// OnOutbound defaults to ignoring outbound traffic.
func (Base) OnOutbound(context.Context, message.ChatMessage) error { return nil }

// Run defaults to no background activity.
func (Base) Run(context.Context, chan<- message.ChatMessage) error { return nil }
