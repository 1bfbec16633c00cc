package golem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"golem/pkg/config"
	"golem/pkg/message"
	"golem/pkg/plugin"
	"golem/pkg/transport"
)

const (
	// originRuntime tags outbound traffic emitted by the runtime itself
	// (handshake, channel joins). No plugin carries this name, so every
	// plugin observes it.
	originRuntime = "runtime"

	// fanOutLimit bounds how many plugin hooks run concurrently for one
	// message, inbound and outbound alike.
	fanOutLimit = 5

	// initConcurrency bounds concurrent plugin initialisation.
	initConcurrency = 10

	defaultHandshakeTimeout = 10 * time.Second

	outboundQueueSize = 64

	// per-plugin task sink buffer, drained by the relay into the shared
	// outbound queue
	taskSinkSize = 10
)

// envelope is one outbound message tagged with the plugin that produced it.
// The origin is the sole feedback-loop guard: a plugin never observes an
// envelope carrying its own name. The round correlates an outbound message
// with the dispatch or task emission that produced it across log lines.
type envelope struct {
	origin string
	round  string
	msg    message.ChatMessage
}

// Golem owns the network connection, the loaded plugins and the shared
// outbound queue. Construct with New, then drive with Run.
type Golem struct {
	cfg       *config.Config
	conn      transport.Conn
	log       *slog.Logger
	plugins   []plugin.Plugin
	router    *httprouter.Router
	numRoutes int
	blacklist map[string]struct{}

	handshakeTimeout time.Duration
	outbound         chan envelope
}

// New connects the configured plugins and merges their webhook routes.
// Plugins initialise concurrently; the first failure aborts construction.
func New(ctx context.Context, cfg *config.Config, conn transport.Conn, inits []plugin.InitFunc, logger *slog.Logger) (*Golem, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if conn == nil {
		return nil, errors.New("connection is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	initialised := make([]plugin.Initialised, len(inits))
	group, initCtx := errgroup.WithContext(ctx)
	group.SetLimit(initConcurrency)
	for i, init := range inits {
		group.Go(func() error {
			res, err := init(initCtx, cfg, logger)
			if err != nil {
				return fmt.Errorf("initialising plugin: %w", err)
			}
			initialised[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	plugins := make([]plugin.Plugin, 0, len(initialised))
	var routes []plugin.Route
	for _, res := range initialised {
		plugins = append(plugins, res.Plugin)
		routes = append(routes, res.Routes...)
		logger.Debug("plugin initialised", "plugin", res.Plugin.Name(), "routes", len(res.Routes))
	}

	router, err := buildRouter(routes)
	if err != nil {
		return nil, err
	}

	blacklist := make(map[string]struct{}, len(cfg.BlacklistedUsers))
	for _, nick := range cfg.BlacklistedUsers {
		blacklist[nick] = struct{}{}
	}

	timeout := defaultHandshakeTimeout
	if cfg.HandshakeTimeout > 0 {
		timeout = time.Duration(cfg.HandshakeTimeout) * time.Second
	}

	return &Golem{
		cfg:              cfg,
		conn:             conn,
		log:              logger.With("component", "golem"),
		plugins:          plugins,
		router:           router,
		numRoutes:        len(routes),
		blacklist:        blacklist,
		handshakeTimeout: timeout,
		outbound:         make(chan envelope, outboundQueueSize),
	}, nil
}

// buildRouter merges every plugin's routes into one table. Two plugins
// claiming the same path is a configuration error, surfaced at startup.
func buildRouter(routes []plugin.Route) (router *httprouter.Router, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conflicting webhook routes: %v", r)
		}
	}()
	router = httprouter.New()
	for _, rt := range routes {
		router.Handle(rt.Method, rt.Path, rt.Handle)
	}
	return router, nil
}

// Run authenticates with the network, then runs the inbound loop, the
// outbound broadcaster, every plugin's background task and the webhook
// server until ctx is done or one of them fails.
func (g *Golem) Run(ctx context.Context) error {
	if err := g.authenticate(ctx); err != nil {
		return err
	}
	for _, ch := range g.cfg.Server.Channels {
		join := message.ChatMessage{Command: message.CmdJoin, Params: []string{ch}}
		if err := g.broadcast(ctx, envelope{origin: originRuntime, round: uuid.NewString(), msg: join}); err != nil {
			return fmt.Errorf("joining %s: %w", ch, err)
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return g.broadcastLoop(ctx) })
	group.Go(func() error { return g.recvLoop(ctx) })
	g.startPlugins(ctx, group)
	if g.numRoutes > 0 {
		group.Go(func() error { return g.serveWebhooks(ctx) })
	}

	g.log.Info("running", "plugins", len(g.plugins), "channels", len(g.cfg.Server.Channels))
	return group.Wait()
}

// recvLoop is the sole consumer of the inbound stream after the handshake.
func (g *Golem) recvLoop(ctx context.Context) error {
	for {
		msg, err := g.conn.Recv(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("inbound stream: %w", err)
		}
		if err := g.dispatch(ctx, msg); err != nil {
			return err
		}
	}
}

// dispatch fans one inbound message out to every plugin and queues each
// reply for broadcast. A plugin invocation error is fatal to the runtime.
func (g *Golem) dispatch(ctx context.Context, msg message.ChatMessage) error {
	round := uuid.NewString()
	g.log.Debug("dispatching", "round", round, "command", msg.Command, "source", msg.Source)

	_, blacklisted := g.blacklist[msg.Source]

	replies := make([]*message.ChatMessage, len(g.plugins))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(fanOutLimit)
	for i, p := range g.plugins {
		group.Go(func() error {
			if blacklisted && !p.ObservesBlacklisted() {
				return nil
			}
			reply, err := p.OnInbound(groupCtx, msg)
			if err != nil {
				return fmt.Errorf("plugin %s inbound: %w", p.Name(), err)
			}
			replies[i] = reply
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	for i, reply := range replies {
		if reply == nil {
			continue
		}
		if err := g.enqueue(ctx, envelope{origin: g.plugins[i].Name(), round: round, msg: *reply}); err != nil {
			return err
		}
	}
	return nil
}

// broadcastLoop drains the shared outbound queue. It is the only writer to
// the connection while the runtime is up.
func (g *Golem) broadcastLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case env := <-g.outbound:
			if err := g.broadcast(ctx, env); err != nil {
				return err
			}
		}
	}
}

// broadcast shows env to every plugin except its origin, then sends it to
// the network exactly once. Observer errors are logged, never propagated.
func (g *Golem) broadcast(ctx context.Context, env envelope) error {
	g.log.Debug("broadcasting", "round", env.round, "origin", env.origin, "command", env.msg.Command)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(fanOutLimit)
	for _, p := range g.plugins {
		if p.Name() == env.origin {
			continue
		}
		group.Go(func() error {
			if err := p.OnOutbound(groupCtx, env.msg); err != nil {
				g.log.Error("outbound observer failed", "round", env.round, "plugin", p.Name(), "error", err)
			}
			return nil
		})
	}
	_ = group.Wait()

	if err := g.conn.Send(ctx, env.msg); err != nil {
		return fmt.Errorf("sending %s from %s: %w", env.msg.Command, env.origin, err)
	}
	return nil
}

// startPlugins launches each plugin's background task with a dedicated sink
// and a relay tagging its emissions into the shared outbound queue. A task
// error tears the runtime down; a normal return only ends that task.
func (g *Golem) startPlugins(ctx context.Context, group *errgroup.Group) {
	for _, p := range g.plugins {
		// small buffer so a bursty task does not block on the relay
		sink := make(chan message.ChatMessage, taskSinkSize)

		group.Go(func() error {
			if err := p.Run(ctx, sink); err != nil {
				return fmt.Errorf("plugin %s task: %w", p.Name(), err)
			}
			return nil
		})
		group.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case msg := <-sink:
					if err := g.enqueue(ctx, envelope{origin: p.Name(), round: uuid.NewString(), msg: msg}); err != nil {
						return nil
					}
				}
			}
		})
	}
}

func (g *Golem) enqueue(ctx context.Context, env envelope) error {
	select {
	case g.outbound <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
