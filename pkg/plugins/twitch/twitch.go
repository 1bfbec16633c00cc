// Package twitch announces watched streams going live on the mapped chat
// channels, driven by EventSub webhook notifications.
package twitch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"golem/pkg/config"
	"golem/pkg/message"
	"golem/pkg/plugin"
	"golem/pkg/plugins/command"
)

const (
	eventStreamOnline  = "stream.online"
	eventStreamOffline = "stream.offline"

	// bound on concurrent subscription API calls
	syncConcurrency = 5
)

type Twitch struct {
	plugin.Base
	log    *slog.Logger
	cfg    config.TwitchConfig
	client *helixClient
	token  *appToken

	// notifications from the webhook handler to Run
	events chan streamEvent

	mu     sync.Mutex
	online map[string]helixStream // keyed by twitch login
}

func Init(ctx context.Context, cfg *config.Config, logger *slog.Logger) (plugin.Initialised, error) {
	tc := cfg.Twitch
	if tc.ClientID == "" || tc.ClientSecret == "" {
		return plugin.Initialised{}, errors.New("twitch plugin requires client_id and client_secret")
	}
	if tc.AppSecret == "" || tc.CallbackURI == "" {
		return plugin.Initialised{}, errors.New("twitch plugin requires app_secret and callback_uri")
	}

	log := logger.With("component", "plugin.twitch")
	token, err := newAppToken(ctx, tc.ClientID, tc.ClientSecret, log)
	if err != nil {
		return plugin.Initialised{}, err
	}

	t := &Twitch{
		log:    log,
		cfg:    tc,
		client: newHelixClient(tc.ClientID, token),
		token:  token,
		events: make(chan streamEvent, 5),
		online: make(map[string]helixStream),
	}
	return plugin.Initialised{Plugin: t, Routes: t.routes()}, nil
}

func (t *Twitch) Name() string { return "twitch" }

func (t *Twitch) OnInbound(_ context.Context, msg message.ChatMessage) (*message.ChatMessage, error) {
	if msg.Command != message.CmdPrivmsg {
		return nil, nil
	}
	target := msg.ResponseTarget()
	if target == "" {
		return nil, nil
	}
	redirect, ok := command.Single("streams", msg.Body)
	if !ok {
		return nil, nil
	}

	t.mu.Lock()
	live := make([]helixStream, 0, len(t.online))
	for _, s := range t.online {
		live = append(live, s)
	}
	t.mu.Unlock()

	body := "Y'a personne qui stream ici, çaynul !"
	if len(live) > 0 {
		body = t.formatStreams(live)
	}
	reply := message.Privmsg(target, command.WithTarget(body, redirect))
	return &reply, nil
}

// Run reconciles the EventSub subscriptions, primes the live-stream state,
// then turns webhook notifications into chat announcements.
func (t *Twitch) Run(ctx context.Context, sink chan<- message.ChatMessage) error {
	if err := t.syncSubscriptions(ctx); err != nil {
		return err
	}

	streams, err := t.client.getStreams(ctx, t.watchedLogins())
	if err != nil {
		return err
	}
	t.mu.Lock()
	for _, s := range streams {
		t.online[strings.ToLower(s.UserLogin)] = s
	}
	t.mu.Unlock()

	go t.token.refreshLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-t.events:
			if err := t.processEvent(ctx, sink, event); err != nil {
				return err
			}
		}
	}
}

func (t *Twitch) processEvent(ctx context.Context, sink chan<- message.ChatMessage, event streamEvent) error {
	watched := t.watchedStream(event.BroadcasterLogin)
	if watched == nil {
		t.log.Warn("got a notification for an unwatched stream", "broadcaster", event.BroadcasterLogin)
		return nil
	}

	switch event.Type {
	case eventStreamOnline:
		return t.announceOnline(ctx, sink, watched)
	case eventStreamOffline:
		return t.announceOffline(ctx, sink, watched)
	default:
		t.log.Warn("unsupported eventsub notification", "type", event.Type)
		return nil
	}
}

func (t *Twitch) announceOnline(ctx context.Context, sink chan<- message.ChatMessage, watched *config.WatchedStream) error {
	streams, err := t.client.getStreams(ctx, []string{watched.Nickname})
	if err != nil {
		return err
	}
	if len(streams) == 0 {
		// the stream already went offline again, twitch will tell us shortly
		t.log.Info("live notification but twitch returned nothing")
		return nil
	}
	stream := streams[0]

	t.mu.Lock()
	t.online[watched.Nickname] = stream
	t.mu.Unlock()

	game := ""
	if stream.GameName != "" {
		game = fmt.Sprintf("(%s)", stream.GameName)
	}
	url := "https://www.twitch.tv/" + watched.Nickname
	body := fmt.Sprintf("Le stream de %s est maintenant live at %s %s!", t.toIRCNick(watched.Nickname), url, game)

	t.log.Info("stream online", "announcement", body)
	return t.announce(ctx, sink, watched.IRCChannels, body)
}

func (t *Twitch) announceOffline(ctx context.Context, sink chan<- message.ChatMessage, watched *config.WatchedStream) error {
	t.mu.Lock()
	_, wasLive := t.online[watched.Nickname]
	delete(t.online, watched.Nickname)
	t.mu.Unlock()

	if !wasLive {
		// a stream flapping on/off only produces the offline event
		t.log.Warn("offline notification for a stream not marked live", "broadcaster", watched.Nickname)
		return nil
	}

	body := fmt.Sprintf("%s a arreté de streamer pour le moment. N'oubliez pas de like&subscribe.", t.toIRCNick(watched.Nickname))
	t.log.Info("stream offline", "announcement", body)
	return t.announce(ctx, sink, watched.IRCChannels, body)
}

func (t *Twitch) announce(ctx context.Context, sink chan<- message.ChatMessage, channels []string, body string) error {
	for _, ch := range channels {
		select {
		case sink <- message.Privmsg(ch, body):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// syncSubscriptions makes sure stream.online and stream.offline
// subscriptions exist for every watched user, and removes stale or
// unwatched ones.
func (t *Twitch) syncSubscriptions(ctx context.Context) error {
	subs, err := t.client.listSubscriptions(ctx)
	if err != nil {
		return err
	}

	users, err := t.client.getUsers(ctx, t.watchedLogins())
	if err != nil {
		return err
	}
	t.log.Info("syncing subscriptions", "users", len(users), "existing", len(subs))

	watched := func(userID string) bool {
		for _, u := range users {
			if u.ID == userID {
				return true
			}
		}
		return false
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(syncConcurrency)
	valid := make([]helixSubscription, 0, len(subs))
	for _, sub := range subs {
		if sub.isValid() && watched(sub.Condition.BroadcasterUserID) {
			valid = append(valid, sub)
			continue
		}
		group.Go(func() error {
			t.log.Info("deleting subscription", "id", sub.ID, "type", sub.Type, "status", sub.Status)
			return t.client.deleteSubscription(groupCtx, sub.ID)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	group, groupCtx = errgroup.WithContext(ctx)
	group.SetLimit(syncConcurrency)
	for _, user := range users {
		group.Go(func() error {
			return t.syncUserSubscriptions(groupCtx, valid, user)
		})
	}
	return group.Wait()
}

func (t *Twitch) syncUserSubscriptions(ctx context.Context, subs []helixSubscription, user helixUser) error {
	for _, typ := range []string{eventStreamOnline, eventStreamOffline} {
		exists := false
		for _, sub := range subs {
			if sub.Condition.BroadcasterUserID == user.ID && sub.Type == typ {
				exists = true
				break
			}
		}
		if exists {
			t.log.Info("subscription already exists", "type", typ, "login", user.Login)
			continue
		}
		if err := t.client.createSubscription(ctx, typ, user.ID, t.cfg.CallbackURI, t.cfg.AppSecret); err != nil {
			return err
		}
		t.log.Info("subscribed", "type", typ, "login", user.Login)
	}
	return nil
}

func (t *Twitch) watchedLogins() []string {
	logins := make([]string, 0, len(t.cfg.WatchedStreams))
	for _, s := range t.cfg.WatchedStreams {
		logins = append(logins, s.Nickname)
	}
	return logins
}

func (t *Twitch) watchedStream(login string) *config.WatchedStream {
	for i, s := range t.cfg.WatchedStreams {
		if s.Nickname == login {
			return &t.cfg.WatchedStreams[i]
		}
	}
	return nil
}

func (t *Twitch) formatStreams(streams []helixStream) string {
	parts := make([]string, 0, len(streams))
	for _, s := range streams {
		parts = append(parts, t.formatStream(s))
	}
	return strings.Join(parts, "−")
}

func (t *Twitch) formatStream(s helixStream) string {
	game := ""
	if s.GameName != "" {
		game = fmt.Sprintf("(%s)", s.GameName)
	}
	startedAt := s.StartedAt
	if parsed, err := time.Parse(time.RFC3339, s.StartedAt); err == nil {
		startedAt = parsed.Format("3:04 PM")
	}
	return fmt.Sprintf("%s %s started at %s (https://www.twitch.tv/%s)",
		t.toIRCNick(s.UserName), game, startedAt, strings.ToLower(s.UserLogin))
}

// toIRCNick maps a twitch login to the nick used in chat. Webhook events
// carry display casing, logins do not, so compare lowercased.
func (t *Twitch) toIRCNick(twitchNick string) string {
	twitchNick = strings.ToLower(twitchNick)
	for _, s := range t.cfg.WatchedStreams {
		if s.Nickname == twitchNick && s.IRCNick != "" {
			return s.IRCNick
		}
	}
	return twitchNick
}
