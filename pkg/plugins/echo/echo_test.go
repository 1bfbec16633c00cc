package echo

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"golem/pkg/message"
)

func newTestEcho() *Echo {
	return &Echo{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestEchoesChannelMessages(t *testing.T) {
	e := newTestEcho()
	msg := message.ChatMessage{Command: message.CmdPrivmsg, Source: "alice", Target: "#chan", Body: "coucou"}
	reply, err := e.OnInbound(context.Background(), msg)
	if err != nil {
		t.Fatal(err)
	}
	if reply == nil || reply.Target != "#chan" || reply.Body != "echo - coucou" {
		t.Fatalf("got %+v", reply)
	}
}

func TestEchoesPrivateMessagesBackToSender(t *testing.T) {
	e := newTestEcho()
	msg := message.ChatMessage{Command: message.CmdPrivmsg, Source: "alice", Target: "golem", Body: "psst"}
	reply, err := e.OnInbound(context.Background(), msg)
	if err != nil {
		t.Fatal(err)
	}
	if reply == nil || reply.Target != "alice" || reply.Body != "echo - psst" {
		t.Fatalf("got %+v", reply)
	}
}

func TestIgnoresNonTextTraffic(t *testing.T) {
	e := newTestEcho()
	msg := message.ChatMessage{Command: "001", Body: "welcome"}
	reply, err := e.OnInbound(context.Background(), msg)
	if err != nil {
		t.Fatal(err)
	}
	if reply != nil {
		t.Fatalf("expected no reply, got %+v", reply)
	}
}
