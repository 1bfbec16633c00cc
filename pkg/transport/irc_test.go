package transport

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"golem/pkg/message"
)

func newPipeConn(t *testing.T) (*IRCConn, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	c := &IRCConn{
		nick:    "golem",
		conn:    client,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		inbound: make(chan message.ChatMessage),
		readErr: make(chan error, 1),
	}
	go c.readLoop()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return c, server
}

func TestRecvDecodesPrivmsg(t *testing.T) {
	c, server := newPipeConn(t)
	go io.WriteString(server, ":alice!u@h PRIVMSG #chan :hello there\r\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := c.Recv(ctx)
	require.NoError(t, err)
	require.Equal(t, message.CmdPrivmsg, msg.Command)
	require.Equal(t, "alice", msg.Source)
	require.Equal(t, "#chan", msg.Target)
	require.Equal(t, "hello there", msg.Body)
}

func TestPingAnsweredWithoutSurfacing(t *testing.T) {
	c, server := newPipeConn(t)

	lines := make(chan string, 1)
	go func() {
		r := bufio.NewReader(server)
		line, err := r.ReadString('\n')
		if err == nil {
			lines <- line
		}
	}()
	go io.WriteString(server, "PING :irc.example.org\r\n")

	select {
	case line := <-lines:
		require.Equal(t, "PONG :irc.example.org\r\n", line)
	case <-time.After(time.Second):
		t.Fatal("no PONG written")
	}

	// the PING itself must not reach Recv
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := c.Recv(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendEncodesTextCommands(t *testing.T) {
	c, server := newPipeConn(t)

	lines := make(chan string, 1)
	go func() {
		r := bufio.NewReader(server)
		line, err := r.ReadString('\n')
		if err == nil {
			lines <- line
		}
	}()

	err := c.Send(context.Background(), message.Privmsg("#chan", "bonjour"))
	require.NoError(t, err)

	select {
	case line := <-lines:
		require.Equal(t, "PRIVMSG #chan :bonjour\r\n", line)
	case <-time.After(time.Second):
		t.Fatal("nothing written")
	}
}

func TestRecvReportsDisconnect(t *testing.T) {
	c, server := newPipeConn(t)
	server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := c.Recv(ctx)
	require.Error(t, err)
}
