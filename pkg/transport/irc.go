package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/irc.v4"

	"golem/pkg/config"
	"golem/pkg/message"
)

const dialTimeout = 30 * time.Second

// IRCConn is the production Conn backed by a raw IRC connection. A single
// reader goroutine parses the stream and answers server PINGs itself, so
// keepalive traffic never surfaces to the runtime.
type IRCConn struct {
	nick string
	conn net.Conn
	log  *slog.Logger

	writeMu sync.Mutex // guards raw writes (Send and internal PONGs)

	inbound chan message.ChatMessage
	readErr chan error
}

// Dial connects to the configured server, TLS by default, and starts the
// reader goroutine. It does not register with the server; the caller drives
// the handshake over Send/Recv.
func Dial(ctx context.Context, cfg config.ServerConfig, logger *slog.Logger) (*IRCConn, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dialer := &net.Dialer{Timeout: dialTimeout}

	var (
		conn net.Conn
		err  error
	)
	if cfg.DisableTLS {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	} else {
		tlsDialer := &tls.Dialer{NetDialer: dialer}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}

	c := &IRCConn{
		nick:    cfg.Nickname,
		conn:    conn,
		log:     logger.With("component", "transport"),
		inbound: make(chan message.ChatMessage),
		readErr: make(chan error, 1),
	}
	go c.readLoop()

	c.log.Info("connected", "addr", addr, "tls", !cfg.DisableTLS)
	return c, nil
}

func (c *IRCConn) Nick() string { return c.nick }

func (c *IRCConn) Recv(ctx context.Context) (message.ChatMessage, error) {
	select {
	case msg := <-c.inbound:
		return msg, nil
	case err := <-c.readErr:
		return message.ChatMessage{}, err
	case <-ctx.Done():
		return message.ChatMessage{}, ctx.Err()
	}
}

func (c *IRCConn) Send(ctx context.Context, msg message.ChatMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.writeRaw(encode(msg))
}

// Close tears down the socket; the reader goroutine exits on the read error.
func (c *IRCConn) Close() error {
	return c.conn.Close()
}

func (c *IRCConn) writeRaw(m *irc.Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := io.WriteString(c.conn, m.String()+"\r\n"); err != nil {
		return fmt.Errorf("writing %s: %w", m.Command, err)
	}
	return nil
}

func (c *IRCConn) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		m, err := irc.ParseMessage(line)
		if err != nil {
			c.log.Debug("dropping unparseable line", "line", line, "error", err)
			continue
		}
		if m.Command == message.CmdPing {
			if err := c.writeRaw(&irc.Message{Command: message.CmdPong, Params: m.Params}); err != nil {
				c.readErr <- err
				return
			}
			continue
		}
		c.inbound <- decode(m)
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.readErr <- fmt.Errorf("reading from server: %w", err)
}

// decode maps a wire message onto the runtime's message shape. Text commands
// get their target and body split out; everything else keeps raw params.
func decode(m *irc.Message) message.ChatMessage {
	out := message.ChatMessage{
		Command: m.Command,
		Params:  m.Params,
	}
	if m.Prefix != nil {
		out.Source = m.Prefix.Name
	}
	switch m.Command {
	case message.CmdPrivmsg, message.CmdNotice:
		if len(m.Params) > 0 {
			out.Target = m.Params[0]
		}
		if len(m.Params) > 1 {
			out.Body = m.Params[len(m.Params)-1]
		}
	}
	return out
}

func encode(msg message.ChatMessage) *irc.Message {
	params := msg.Params
	switch msg.Command {
	case message.CmdPrivmsg, message.CmdNotice:
		params = []string{msg.Target, msg.Body}
	case message.CmdAuthenticate:
		params = []string{msg.Body}
	}
	return &irc.Message{Command: msg.Command, Params: params}
}
