// Package echo repeats every text message back to its channel. Mostly
// useful as a liveness probe for the whole dispatch pipeline.
package echo

import (
	"context"
	"log/slog"
	"time"

	"golem/pkg/config"
	"golem/pkg/message"
	"golem/pkg/plugin"
)

const heartbeatInterval = 2 * time.Second

type Echo struct {
	plugin.Base
	log *slog.Logger
}

func Init(_ context.Context, _ *config.Config, logger *slog.Logger) (plugin.Initialised, error) {
	return plugin.Initialised{Plugin: &Echo{log: logger.With("component", "plugin.echo")}}, nil
}

func (e *Echo) Name() string { return "echo" }

func (e *Echo) OnInbound(_ context.Context, msg message.ChatMessage) (*message.ChatMessage, error) {
	if msg.Command != message.CmdPrivmsg {
		return nil, nil
	}
	target := msg.ResponseTarget()
	if target == "" {
		return nil, nil
	}
	reply := message.Privmsg(target, "echo - "+msg.Body)
	return &reply, nil
}

func (e *Echo) Run(ctx context.Context, _ chan<- message.ChatMessage) error {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.log.Debug("echo plugin still running")
		}
	}
}
