// Package ctcp answers CTCP VERSION, TIME and PING queries. TIME replies
// with the republican calendar date, which is the whole point of handling
// CTCP ourselves.
package ctcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golem/pkg/config"
	"golem/pkg/message"
	"golem/pkg/plugin"
	"golem/pkg/plugins/republican"
)

const delimiter = "\x01"

type Ctcp struct {
	plugin.Base
	log *slog.Logger
	now func() time.Time
}

func Init(_ context.Context, _ *config.Config, logger *slog.Logger) (plugin.Initialised, error) {
	return plugin.Initialised{Plugin: &Ctcp{
		log: logger.With("component", "plugin.ctcp"),
		now: time.Now,
	}}, nil
}

func (c *Ctcp) Name() string { return "ctcp" }

func (c *Ctcp) OnInbound(_ context.Context, msg message.ChatMessage) (*message.ChatMessage, error) {
	if msg.Command != message.CmdPrivmsg {
		return nil, nil
	}
	target := msg.ResponseTarget()
	if target == "" {
		return nil, nil
	}
	query, arg, ok := parseQuery(msg.Body)
	if !ok {
		return nil, nil
	}

	var body string
	switch query {
	case "VERSION":
		body = "VERSION golem"
	case "TIME":
		now := c.now().UTC()
		rd, err := republican.FromGregorian(now)
		if err != nil {
			return nil, fmt.Errorf("republican date: %w", err)
		}
		body = fmt.Sprintf("TIME %s UTC - %s", now.Format("15:04:05"), rd)
	case "PING":
		body = "PING"
		if arg != "" {
			body += " " + arg
		}
	default:
		return nil, nil
	}

	// clients only recognize CTCP replies as a NOTICE framed in 0x01
	reply := message.Notice(target, delimiter+body+delimiter)
	return &reply, nil
}

// parseQuery extracts a CTCP query from a message body framed with 0x01
// bytes. The argument is only meaningful for PING.
func parseQuery(body string) (query, arg string, ok bool) {
	body = strings.TrimRight(body, " \t")
	inner, found := strings.CutPrefix(body, delimiter)
	if !found {
		return "", "", false
	}
	inner, found = strings.CutSuffix(inner, delimiter)
	if !found || inner == "" || strings.Contains(inner, delimiter) {
		return "", "", false
	}

	query, arg, _ = strings.Cut(inner, " ")
	switch query {
	case "VERSION", "TIME", "PING":
		return query, strings.TrimSpace(arg), true
	}
	return "", "", false
}
