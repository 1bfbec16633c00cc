// Package joke fetches a dad joke on demand. API failures degrade to an
// in-channel error string rather than crashing the runtime.
package joke

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golem/pkg/config"
	"golem/pkg/message"
	"golem/pkg/plugin"
	"golem/pkg/plugins/command"
)

const (
	defaultAPIURL = "https://icanhazdadjoke.com"
	userAgent     = "golem: https://github.com/CoucouInc/rustygolem"
)

type Joke struct {
	plugin.Base
	log    *slog.Logger
	client *http.Client
	apiURL string
}

func Init(_ context.Context, _ *config.Config, logger *slog.Logger) (plugin.Initialised, error) {
	return plugin.Initialised{Plugin: &Joke{
		log:    logger.With("component", "plugin.joke"),
		client: &http.Client{Timeout: 10 * time.Second},
		apiURL: defaultAPIURL,
	}}, nil
}

func (j *Joke) Name() string { return "joke" }

func (j *Joke) OnInbound(ctx context.Context, msg message.ChatMessage) (*message.ChatMessage, error) {
	if msg.Command != message.CmdPrivmsg {
		return nil, nil
	}
	target := msg.ResponseTarget()
	if target == "" {
		return nil, nil
	}
	redirect, ok := command.Single("joke", msg.Body)
	if !ok {
		return nil, nil
	}

	reply := message.Privmsg(target, command.WithTarget(j.fetch(ctx), redirect))
	return &reply, nil
}

// fetch returns the joke, or a message describing what went wrong.
func (j *Joke) fetch(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.apiURL, nil)
	if err != nil {
		return fmt.Sprintf("Error while querying icanhazdadjoke API: %v", err)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("User-Agent", userAgent)

	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Error while querying icanhazdadjoke API: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("Error while getting the response from icanhazdadjoke: %v", err)
	}

	// multiline jokes confuse the network framing, collapse them
	return strings.Join(strings.Split(strings.TrimSpace(string(body)), "\n"), " − ")
}
