package message

import "strings"

// Wire command kinds the runtime pattern-matches on. Anything else passes
// through to plugins untouched.
const (
	CmdPrivmsg      = "PRIVMSG"
	CmdNotice       = "NOTICE"
	CmdCap          = "CAP"
	CmdAuthenticate = "AUTHENTICATE"
	CmdNick         = "NICK"
	CmdUser         = "USER"
	CmdJoin         = "JOIN"
	CmdPing         = "PING"
	CmdPong         = "PONG"
)

// SASL result numerics (RFC 1459 extension range).
const (
	NumSASLSuccess    = "903"
	NumNickLocked     = "902"
	NumSASLFail       = "904"
	NumSASLTooLong    = "905"
	NumSASLAborted    = "906"
	NumSASLAlreadyOne = "907"
)

// ChatMessage is one inbound or outbound chat event. Values are immutable
// once constructed and cheap to copy.
type ChatMessage struct {
	// Command is the wire command kind, for example PRIVMSG or a numeric.
	Command string
	// Source is the nick the message originated from, empty for
	// server-internal or runtime-internal traffic.
	Source string
	// Target is the channel or nick the message is addressed to.
	Target string
	// Body is the trailing free-form text.
	Body string
	// Params holds any leading arguments before the trailing body.
	Params []string
}

// Privmsg builds a text message addressed to a channel or nick.
func Privmsg(target, body string) ChatMessage {
	return ChatMessage{Command: CmdPrivmsg, Target: target, Body: body}
}

// Notice builds a notice addressed to a channel or nick.
func Notice(target, body string) ChatMessage {
	return ChatMessage{Command: CmdNotice, Target: target, Body: body}
}

// Cap builds a capability negotiation message with the given arguments.
func Cap(params ...string) ChatMessage {
	return ChatMessage{Command: CmdCap, Params: params}
}

// Authenticate builds one step of the authentication exchange.
func Authenticate(arg string) ChatMessage {
	return ChatMessage{Command: CmdAuthenticate, Body: arg}
}

// ResponseTarget resolves where a reply to m should be addressed: the
// channel when m was said in one, otherwise back to the sender. Empty when
// the message cannot be replied to.
func (m ChatMessage) ResponseTarget() string {
	if m.Command != CmdPrivmsg && m.Command != CmdNotice {
		return ""
	}
	if IsChannel(m.Target) {
		return m.Target
	}
	return m.Source
}

// HasParam reports whether any leading argument equals p.
func (m ChatMessage) HasParam(p string) bool {
	for _, v := range m.Params {
		if v == p {
			return true
		}
	}
	return false
}

// IsChannel reports whether target names a channel rather than a user.
func IsChannel(target string) bool {
	return strings.HasPrefix(target, "#") || strings.HasPrefix(target, "&")
}

// IsSASLSuccess reports whether m is the authentication success numeric.
func IsSASLSuccess(m ChatMessage) bool {
	return m.Command == NumSASLSuccess
}

// IsSASLError reports whether m is in the authentication error numeric range.
func IsSASLError(m ChatMessage) bool {
	switch m.Command {
	case NumNickLocked, NumSASLFail, NumSASLTooLong, NumSASLAborted, NumSASLAlreadyOne:
		return true
	default:
		return false
	}
}
