package golem

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"golem/pkg/message"
)

// handshakeState tracks progress through the SASL registration exchange.
// Transitions only move forward; any deviation lands in stateFailed, which
// is fatal to the runtime.
type handshakeState int

const (
	stateStart handshakeState = iota
	stateCapRequested
	stateCapAcked
	stateAuthenticateRequested
	stateAuthenticatePlusReceived
	stateCredentialed
	stateHandshakeDone
	stateFailed
)

func (s handshakeState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateCapRequested:
		return "cap-requested"
	case stateCapAcked:
		return "cap-acked"
	case stateAuthenticateRequested:
		return "authenticate-requested"
	case stateAuthenticatePlusReceived:
		return "authenticate-plus-received"
	case stateCredentialed:
		return "credentialed"
	case stateHandshakeDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var errSASLRejected = errors.New("server rejected credentials")

// authenticate registers with the network. With a password configured it
// walks the SASL PLAIN exchange first; without one it identifies directly.
// The handshake is the exclusive consumer of the inbound stream until it
// completes, and every outbound step carries the runtime origin so all
// plugins observe it.
func (g *Golem) authenticate(ctx context.Context) error {
	state := stateStart

	if g.cfg.SASLPassword != "" {
		if err := g.send(ctx, message.Cap("REQ", "sasl")); err != nil {
			return err
		}
		state = stateCapRequested

		if err := g.awaitReply(ctx, state, isCapAck); err != nil {
			return err
		}
		state = stateCapAcked

		if err := g.send(ctx, message.Authenticate("PLAIN")); err != nil {
			return err
		}
		state = stateAuthenticateRequested

		if err := g.awaitReply(ctx, state, isAuthenticatePlus); err != nil {
			return err
		}
		state = stateAuthenticatePlusReceived

		nick := g.conn.Nick()
		creds := base64.StdEncoding.EncodeToString([]byte(nick + "\x00" + nick + "\x00" + g.cfg.SASLPassword))
		if err := g.send(ctx, message.Authenticate(creds)); err != nil {
			return err
		}
		state = stateCredentialed

		if err := g.awaitReply(ctx, state, isSASLResult); err != nil {
			return err
		}

		if err := g.send(ctx, message.Cap("END")); err != nil {
			return err
		}
	}

	if err := g.identify(ctx); err != nil {
		return err
	}
	state = stateHandshakeDone
	g.log.Info("handshake complete", "state", state.String(), "sasl", g.cfg.SASLPassword != "")
	return nil
}

// awaitReply reads the inbound stream until match accepts a message,
// bounded by the configured handshake timeout. Unrelated server chatter
// during the handshake is dropped.
func (g *Golem) awaitReply(ctx context.Context, state handshakeState, match func(message.ChatMessage) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, g.handshakeTimeout)
	defer cancel()

	for {
		msg, err := g.conn.Recv(ctx)
		if err != nil {
			return fmt.Errorf("handshake %s: %w", state, err)
		}
		ok, err := match(msg)
		if err != nil {
			return fmt.Errorf("handshake %s: %w", state, err)
		}
		if ok {
			return nil
		}
		g.log.Debug("ignoring during handshake", "state", state.String(), "command", msg.Command)
	}
}

func isCapAck(m message.ChatMessage) (bool, error) {
	return m.Command == message.CmdCap && m.HasParam("ACK") && m.HasParam("sasl"), nil
}

func isAuthenticatePlus(m message.ChatMessage) (bool, error) {
	return m.Command == message.CmdAuthenticate && m.HasParam("+"), nil
}

func isSASLResult(m message.ChatMessage) (bool, error) {
	if message.IsSASLSuccess(m) {
		return true, nil
	}
	if message.IsSASLError(m) {
		return false, fmt.Errorf("%w (numeric %s)", errSASLRejected, m.Command)
	}
	return false, nil
}

// identify claims the configured nick.
func (g *Golem) identify(ctx context.Context) error {
	nick := g.conn.Nick()
	if err := g.send(ctx, message.ChatMessage{Command: message.CmdNick, Params: []string{nick}}); err != nil {
		return err
	}
	return g.send(ctx, message.ChatMessage{Command: message.CmdUser, Params: []string{nick, "0", "*", nick}})
}

func (g *Golem) send(ctx context.Context, msg message.ChatMessage) error {
	return g.broadcast(ctx, envelope{origin: originRuntime, round: uuid.NewString(), msg: msg})
}
