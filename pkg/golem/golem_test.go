package golem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"golem/pkg/config"
	"golem/pkg/message"
	"golem/pkg/plugin"
)

type fakeConn struct {
	nick    string
	inbound chan message.ChatMessage

	mu   sync.Mutex
	sent []message.ChatMessage
}

func newFakeConn(nick string) *fakeConn {
	return &fakeConn{nick: nick, inbound: make(chan message.ChatMessage, 32)}
}

func (c *fakeConn) Recv(ctx context.Context) (message.ChatMessage, error) {
	select {
	case msg := <-c.inbound:
		return msg, nil
	case <-ctx.Done():
		return message.ChatMessage{}, ctx.Err()
	}
}

func (c *fakeConn) Send(_ context.Context, msg message.ChatMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConn) Nick() string { return c.nick }

func (c *fakeConn) sentMessages() []message.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]message.ChatMessage, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *fakeConn) sentBodies() []string {
	var bodies []string
	for _, m := range c.sentMessages() {
		if m.Command == message.CmdPrivmsg {
			bodies = append(bodies, m.Body)
		}
	}
	return bodies
}

// recordingPlugin captures everything it is shown and optionally replies.
type recordingPlugin struct {
	plugin.Base
	name      string
	observes  bool
	reply     func(message.ChatMessage) *message.ChatMessage
	inboundFn func(message.ChatMessage) error
	task      func(ctx context.Context, sink chan<- message.ChatMessage) error

	mu       sync.Mutex
	inbound  []message.ChatMessage
	outbound []message.ChatMessage
}

func (p *recordingPlugin) Name() string              { return p.name }
func (p *recordingPlugin) ObservesBlacklisted() bool { return p.observes }

func (p *recordingPlugin) OnInbound(_ context.Context, msg message.ChatMessage) (*message.ChatMessage, error) {
	p.mu.Lock()
	p.inbound = append(p.inbound, msg)
	p.mu.Unlock()
	if p.inboundFn != nil {
		if err := p.inboundFn(msg); err != nil {
			return nil, err
		}
	}
	if p.reply != nil {
		return p.reply(msg), nil
	}
	return nil, nil
}

func (p *recordingPlugin) OnOutbound(_ context.Context, msg message.ChatMessage) error {
	p.mu.Lock()
	p.outbound = append(p.outbound, msg)
	p.mu.Unlock()
	return nil
}

func (p *recordingPlugin) Run(ctx context.Context, sink chan<- message.ChatMessage) error {
	if p.task != nil {
		return p.task(ctx, sink)
	}
	return nil
}

func (p *recordingPlugin) inboundSeen() []message.ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]message.ChatMessage, len(p.inbound))
	copy(out, p.inbound)
	return out
}

func (p *recordingPlugin) outboundBodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var bodies []string
	for _, m := range p.outbound {
		if m.Command == message.CmdPrivmsg {
			bodies = append(bodies, m.Body)
		}
	}
	return bodies
}

func initFuncs(plugins ...plugin.Plugin) []plugin.InitFunc {
	fns := make([]plugin.InitFunc, 0, len(plugins))
	for _, p := range plugins {
		fns = append(fns, func(context.Context, *config.Config, *slog.Logger) (plugin.Initialised, error) {
			return plugin.Initialised{Plugin: p}, nil
		})
	}
	return fns
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:     "irc.test",
			Port:     6697,
			Nickname: "golem",
			Channels: []string{"#test"},
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGolem(t *testing.T, cfg *config.Config, conn *fakeConn, plugins ...plugin.Plugin) *Golem {
	t.Helper()
	g, err := New(context.Background(), cfg, conn, initFuncs(plugins...), quietLogger())
	require.NoError(t, err)
	return g
}

// startGolem runs g until the test ends, returning the channel Run's result
// lands on.
func startGolem(t *testing.T, g *Golem) chan error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx); close(done) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("runtime did not stop")
		}
	})
	return done
}

func echoReply(msg message.ChatMessage) *message.ChatMessage {
	if msg.Command != message.CmdPrivmsg {
		return nil
	}
	out := message.Privmsg(msg.Target, "echo - "+msg.Body)
	return &out
}

func TestReplyReachesNetworkAndOtherPluginsOnly(t *testing.T) {
	echo := &recordingPlugin{name: "echo", reply: echoReply}
	watcher := &recordingPlugin{name: "watcher"}
	conn := newFakeConn("golem")
	g := newTestGolem(t, testConfig(), conn, echo, watcher)
	startGolem(t, g)

	conn.inbound <- message.ChatMessage{Command: message.CmdPrivmsg, Source: "alice", Target: "#test", Body: "hi"}

	require.Eventually(t, func() bool {
		return len(conn.sentBodies()) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"echo - hi"}, conn.sentBodies())

	require.Eventually(t, func() bool {
		return len(watcher.outboundBodies()) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"echo - hi"}, watcher.outboundBodies())

	// the producer never observes its own message
	require.Empty(t, echo.outboundBodies())
}

func TestBlacklistedSourceSkippedUnlessOptedIn(t *testing.T) {
	echo := &recordingPlugin{name: "echo", reply: echoReply}
	observer := &recordingPlugin{name: "observer", observes: true}
	cfg := testConfig()
	cfg.BlacklistedUsers = []string{"troll"}
	conn := newFakeConn("golem")
	g := newTestGolem(t, cfg, conn, echo, observer)
	startGolem(t, g)

	conn.inbound <- message.ChatMessage{Command: message.CmdPrivmsg, Source: "troll", Target: "#test", Body: "feed me"}

	require.Eventually(t, func() bool {
		return len(observer.inboundSeen()) == 1
	}, time.Second, 10*time.Millisecond)

	// the observer saw it, the echoer never did, nothing was sent
	require.Empty(t, echo.inboundSeen())
	require.Empty(t, conn.sentBodies())

	// a regular user still gets echoed
	conn.inbound <- message.ChatMessage{Command: message.CmdPrivmsg, Source: "alice", Target: "#test", Body: "hello"}
	require.Eventually(t, func() bool {
		return len(conn.sentBodies()) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"echo - hello"}, conn.sentBodies())
}

func TestOptedInReplyToBlacklistedSourceStillBroadcasts(t *testing.T) {
	echo := &recordingPlugin{name: "echo", reply: echoReply}
	moderator := &recordingPlugin{name: "moderator", observes: true, reply: func(message.ChatMessage) *message.ChatMessage {
		reply := message.Privmsg("#test", "ack")
		return &reply
	}}
	cfg := testConfig()
	cfg.BlacklistedUsers = []string{"troll"}
	conn := newFakeConn("golem")
	g := newTestGolem(t, cfg, conn, echo, moderator)
	startGolem(t, g)

	conn.inbound <- message.ChatMessage{Command: message.CmdPrivmsg, Source: "troll", Target: "#test", Body: "feed me"}

	require.Eventually(t, func() bool {
		return len(conn.sentBodies()) == 1
	}, time.Second, 10*time.Millisecond)

	// the reply born from a suppressed message still goes out once and is
	// broadcast to the plugin that was skipped on inbound
	require.Equal(t, []string{"ack"}, conn.sentBodies())
	require.Empty(t, echo.inboundSeen())
	require.Eventually(t, func() bool {
		return len(echo.outboundBodies()) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"ack"}, echo.outboundBodies())
	require.Empty(t, moderator.outboundBodies())
}

func TestFanOutDeliversEveryReply(t *testing.T) {
	mk := func(name string) *recordingPlugin {
		return &recordingPlugin{name: name, reply: func(msg message.ChatMessage) *message.ChatMessage {
			if msg.Command != message.CmdPrivmsg {
				return nil
			}
			out := message.Privmsg(msg.Target, name+" was here")
			return &out
		}}
	}
	a, b, c := mk("a"), mk("b"), mk("c")
	conn := newFakeConn("golem")
	g := newTestGolem(t, testConfig(), conn, a, b, c)
	startGolem(t, g)

	conn.inbound <- message.ChatMessage{Command: message.CmdPrivmsg, Source: "alice", Target: "#test", Body: "ping"}

	require.Eventually(t, func() bool {
		return len(conn.sentBodies()) == 3
	}, time.Second, 10*time.Millisecond)
	require.ElementsMatch(t, []string{"a was here", "b was here", "c was here"}, conn.sentBodies())

	// each reply was observed by the two other plugins
	for _, p := range []*recordingPlugin{a, b, c} {
		require.Len(t, p.outboundBodies(), 2, "plugin %s", p.name)
		require.NotContains(t, p.outboundBodies(), p.name+" was here")
	}
}

func TestBackgroundTaskEmissionTaggedWithOrigin(t *testing.T) {
	announcer := &recordingPlugin{name: "announcer", task: func(ctx context.Context, sink chan<- message.ChatMessage) error {
		select {
		case sink <- message.Privmsg("#test", "stream is live"):
		case <-ctx.Done():
		}
		return nil
	}}
	watcher := &recordingPlugin{name: "watcher"}
	conn := newFakeConn("golem")
	g := newTestGolem(t, testConfig(), conn, announcer, watcher)
	startGolem(t, g)

	require.Eventually(t, func() bool {
		return len(conn.sentBodies()) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"stream is live"}, conn.sentBodies())

	require.Eventually(t, func() bool {
		return len(watcher.outboundBodies()) == 1
	}, time.Second, 10*time.Millisecond)
	require.Empty(t, announcer.outboundBodies())
}

func TestBackgroundTaskBurstIsDelivered(t *testing.T) {
	announcer := &recordingPlugin{name: "announcer", task: func(_ context.Context, sink chan<- message.ChatMessage) error {
		for i := 0; i < taskSinkSize; i++ {
			sink <- message.Privmsg("#test", fmt.Sprintf("update %d", i))
		}
		return nil
	}}
	conn := newFakeConn("golem")
	g := newTestGolem(t, testConfig(), conn, announcer)
	startGolem(t, g)

	require.Eventually(t, func() bool {
		return len(conn.sentBodies()) == taskSinkSize
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, "update 0", conn.sentBodies()[0])
	require.Equal(t, fmt.Sprintf("update %d", taskSinkSize-1), conn.sentBodies()[taskSinkSize-1])
}

func TestBroadcastLogsCarryTheDispatchRound(t *testing.T) {
	echo := &recordingPlugin{name: "echo", reply: echoReply}
	conn := newFakeConn("golem")
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	g, err := New(context.Background(), testConfig(), conn, initFuncs(echo), logger)
	require.NoError(t, err)
	startGolem(t, g)

	conn.inbound <- message.ChatMessage{Command: message.CmdPrivmsg, Source: "alice", Target: "#test", Body: "hi"}
	require.Eventually(t, func() bool {
		return len(conn.sentBodies()) == 1
	}, time.Second, 10*time.Millisecond)

	round := ""
	var broadcastLine string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "msg=dispatching") {
			round = roundPattern.FindString(line)
		}
		if strings.Contains(line, "msg=broadcasting") && strings.Contains(line, "origin=echo") {
			broadcastLine = line
		}
	}
	require.NotEmpty(t, round)
	require.NotEmpty(t, broadcastLine)
	require.Contains(t, broadcastLine, round)
}

var roundPattern = regexp.MustCompile(`round=[0-9a-f-]+`)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestInboundHookErrorIsFatal(t *testing.T) {
	broken := &recordingPlugin{name: "broken", inboundFn: func(message.ChatMessage) error {
		return errors.New("boom")
	}}
	conn := newFakeConn("golem")
	g := newTestGolem(t, testConfig(), conn, broken)
	done := startGolem(t, g)

	conn.inbound <- message.ChatMessage{Command: message.CmdPrivmsg, Source: "alice", Target: "#test", Body: "hi"}

	select {
	case err := <-done:
		require.Error(t, err)
		require.Contains(t, err.Error(), "plugin broken")
	case <-time.After(2 * time.Second):
		t.Fatal("runtime kept running after plugin error")
	}
}

func TestBackgroundTaskErrorIsFatal(t *testing.T) {
	broken := &recordingPlugin{name: "broken", task: func(context.Context, chan<- message.ChatMessage) error {
		return errors.New("task blew up")
	}}
	conn := newFakeConn("golem")
	g := newTestGolem(t, testConfig(), conn, broken)
	done := startGolem(t, g)

	select {
	case err := <-done:
		require.Error(t, err)
		require.Contains(t, err.Error(), "plugin broken task")
	case <-time.After(2 * time.Second):
		t.Fatal("runtime kept running after task error")
	}
}

func TestClaimsNickAndJoinsChannelsOnStartup(t *testing.T) {
	conn := newFakeConn("golem")
	g := newTestGolem(t, testConfig(), conn)
	startGolem(t, g)

	require.Eventually(t, func() bool {
		return len(conn.sentMessages()) >= 3
	}, time.Second, 10*time.Millisecond)

	sent := conn.sentMessages()
	require.Equal(t, message.CmdNick, sent[0].Command)
	require.Equal(t, []string{"golem"}, sent[0].Params)
	require.Equal(t, message.CmdUser, sent[1].Command)
	require.Equal(t, message.CmdJoin, sent[2].Command)
	require.Equal(t, []string{"#test"}, sent[2].Params)
}

func TestConflictingRoutesRejectedAtStartup(t *testing.T) {
	route := plugin.Route{
		Method: "POST",
		Path:   "/hook",
		Handle: func(http.ResponseWriter, *http.Request, httprouter.Params) {},
	}
	fns := []plugin.InitFunc{
		func(context.Context, *config.Config, *slog.Logger) (plugin.Initialised, error) {
			return plugin.Initialised{Plugin: &recordingPlugin{name: "a"}, Routes: []plugin.Route{route}}, nil
		},
		func(context.Context, *config.Config, *slog.Logger) (plugin.Initialised, error) {
			return plugin.Initialised{Plugin: &recordingPlugin{name: "b"}, Routes: []plugin.Route{route}}, nil
		},
	}
	_, err := New(context.Background(), testConfig(), newFakeConn("golem"), fns, quietLogger())
	require.Error(t, err)
	require.Contains(t, err.Error(), "conflicting webhook routes")
}
