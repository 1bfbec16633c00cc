// Package url remembers links posted in each channel and fetches their
// page title on demand. It deliberately keeps watching blacklisted users:
// trolls post links too.
package url

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"golem/pkg/config"
	"golem/pkg/message"
	"golem/pkg/plugin"
	"golem/pkg/plugins/command"
)

const (
	// how many urls to remember per channel
	historySize = 10

	// read at most this many bytes of a page when sniffing its title, so
	// nobody points the bot at a 100GB response
	maxTitleBytes = 10 * 1024

	maxTitleRunes = 100

	fetchTimeout = 10 * time.Second
)

type URLPlugin struct {
	plugin.Base
	log      *slog.Logger
	client   *http.Client
	ytAPIKey string
	ytAPIURL string

	mu   sync.Mutex
	seen map[string][]*neturl.URL
}

func Init(_ context.Context, cfg *config.Config, logger *slog.Logger) (plugin.Initialised, error) {
	log := logger.With("component", "plugin.url")
	key := cfg.URL.YoutubeAPIKey
	if key != "" {
		log.Info("url plugin initialised with youtube api credentials")
	} else {
		log.Warn("url plugin is missing youtube api key")
	}
	return plugin.Initialised{Plugin: &URLPlugin{
		log:      log,
		client:   &http.Client{Timeout: fetchTimeout},
		ytAPIKey: key,
		ytAPIURL: defaultYoutubeAPIURL,
		seen:     make(map[string][]*neturl.URL),
	}}, nil
}

func (p *URLPlugin) Name() string { return "url" }

func (p *URLPlugin) ObservesBlacklisted() bool { return true }

func (p *URLPlugin) OnInbound(ctx context.Context, msg message.ChatMessage) (*message.ChatMessage, error) {
	if msg.Command != message.CmdPrivmsg {
		return nil, nil
	}
	channel := msg.ResponseTarget()
	if channel == "" {
		return nil, nil
	}

	p.addURLs(channel, extractURLs(msg.Body))

	idx, redirect, ok := parseURLCommand(msg.Body)
	if !ok {
		return nil, nil
	}
	body := p.recall(ctx, channel, idx)
	reply := message.Privmsg(channel, command.WithTarget(body, redirect))
	return &reply, nil
}

// recall fetches the title of the idx-th most recent url seen in channel.
func (p *URLPlugin) recall(ctx context.Context, channel string, idx int) string {
	p.mu.Lock()
	urls := p.seen[channel]
	var target *neturl.URL
	if i := len(urls) - 1 - idx; i >= 0 && i < len(urls) {
		target = urls[i]
	}
	p.mu.Unlock()

	if target == nil {
		return fmt.Sprintf("No stored url found at index %d", idx)
	}
	if p.ytAPIKey != "" {
		if id, ok := extractYoutubeVideoID(target); ok {
			return p.youtubeTitle(ctx, target, id)
		}
	}
	return p.sniffTitle(ctx, target)
}

func (p *URLPlugin) addURLs(channel string, urls []*neturl.URL) {
	if len(urls) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range urls {
		p.log.Info("remembering url", "url", u.String(), "channel", channel)
		p.seen[channel] = append(p.seen[channel], u)
	}
	if extra := len(p.seen[channel]) - historySize; extra > 0 {
		p.seen[channel] = p.seen[channel][extra:]
	}
}

// sniffTitle downloads the beginning of the page and extracts its <title>.
// Failures degrade to in-channel messages.
func (p *URLPlugin) sniffTitle(ctx context.Context, u *neturl.URL) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Sprintf("Problème avec l'url %s: %v", u, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Problème avec l'url %s: %v", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Oops, wrong status code, got %s", resp.Status)
	}
	ct := resp.Header.Get("Content-Type")
	switch {
	case ct == "":
		return fmt.Sprintf("No valid content type found for %s", u)
	case !strings.Contains(ct, "text") && !strings.Contains(ct, "html"):
		return fmt.Sprintf("Cannot extract title from content type %s for %s", ct, u)
	}

	title, found := findTitle(io.LimitReader(resp.Body, maxTitleBytes))
	if !found {
		return fmt.Sprintf("No title found at %s", u)
	}
	return fmt.Sprintf("%s [%s]", truncate(title, maxTitleRunes), u)
}

// findTitle scans an html stream for the first <title> element.
func findTitle(r io.Reader) (string, bool) {
	tokenizer := html.NewTokenizer(r)
	inTitle := false
	var title strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			inTitle = string(name) == "title"
		case html.EndTagToken:
			if inTitle {
				return strings.TrimSpace(strings.ReplaceAll(title.String(), "\n", " ")), true
			}
		case html.TextToken:
			if inTitle {
				title.Write(tokenizer.Text())
			}
		}
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "[…]"
}

// extractURLs picks the http(s) urls out of a message body.
func extractURLs(body string) []*neturl.URL {
	var urls []*neturl.URL
	for _, word := range strings.Fields(body) {
		u, err := neturl.Parse(word)
		if err != nil || u.Host == "" {
			continue
		}
		if u.Scheme == "http" || u.Scheme == "https" {
			urls = append(urls, u)
		}
	}
	return urls
}

// parseURLCommand matches "&url", "&url 2", "&url > nick", "&url 2 > nick".
func parseURLCommand(body string) (idx int, redirect string, ok bool) {
	if redirect, ok = command.Single("url", body); ok {
		return 0, redirect, true
	}
	arg, redirect, ok := command.Args("url", body)
	if !ok {
		return 0, "", false
	}
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 {
		return 0, "", false
	}
	return idx, redirect, true
}
