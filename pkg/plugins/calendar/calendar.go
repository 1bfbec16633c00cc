// Package calendar announces today's republican calendar date on demand.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golem/pkg/config"
	"golem/pkg/message"
	"golem/pkg/plugin"
	"golem/pkg/plugins/command"
	"golem/pkg/plugins/republican"
)

type Calendar struct {
	plugin.Base
	log *slog.Logger
	now func() time.Time
}

func Init(_ context.Context, _ *config.Config, logger *slog.Logger) (plugin.Initialised, error) {
	return plugin.Initialised{Plugin: &Calendar{
		log: logger.With("component", "plugin.calendar"),
		now: time.Now,
	}}, nil
}

func (c *Calendar) Name() string { return "date" }

func (c *Calendar) OnInbound(_ context.Context, msg message.ChatMessage) (*message.ChatMessage, error) {
	if msg.Command != message.CmdPrivmsg {
		return nil, nil
	}
	target := msg.ResponseTarget()
	if target == "" {
		return nil, nil
	}
	redirect, ok := command.Single("date", msg.Body)
	if !ok {
		return nil, nil
	}

	rd, err := republican.FromGregorian(c.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("republican calendar: %w", err)
	}
	reply := message.Privmsg(target, command.WithTarget(rd.String(), redirect))
	return &reply, nil
}
