// Package command parses the chat command syntax shared by the plugins:
// a prefix character, a command word, then an optional "> nick" redirect.
package command

import "strings"

// prefixes a message must start with to count as a bot command.
const prefixes = "&λ"

// Single reports whether input invokes the named command, and the redirect
// nick if one was given. "&joke" matches, "&joke > alice" matches with
// target "alice", anything trailing that is not a redirect does not match.
func Single(name, input string) (target string, ok bool) {
	rest, ok := stripPrefix(input)
	if !ok {
		return "", false
	}
	rest, ok = strings.CutPrefix(rest, name)
	if !ok {
		return "", false
	}

	target, rest, hasTarget := cutTarget(rest)
	if !hasTarget {
		target = ""
	}
	if strings.TrimSpace(rest) != "" {
		return "", false
	}
	return target, true
}

// Args matches "<prefix><name> <args...>" and returns the raw argument text
// with any trailing "> nick" redirect split off.
func Args(name, input string) (args, target string, ok bool) {
	rest, ok := stripPrefix(input)
	if !ok {
		return "", "", false
	}
	rest, ok = strings.CutPrefix(rest, name)
	if !ok {
		return "", "", false
	}
	trimmed := strings.TrimLeft(rest, " \t")
	if trimmed == rest || trimmed == "" {
		// the command word must be followed by whitespace and an argument
		return "", "", false
	}

	if idx := strings.LastIndex(trimmed, ">"); idx >= 0 {
		if t, after, hasTarget := cutTarget(trimmed[idx:]); hasTarget && strings.TrimSpace(after) == "" {
			args = strings.TrimSpace(trimmed[:idx])
			if args == "" {
				return "", "", false
			}
			return args, t, true
		}
	}
	return strings.TrimSpace(trimmed), "", true
}

// WithTarget prefixes msg with "nick: " when a redirect nick is set.
func WithTarget(msg, target string) string {
	if target == "" {
		return msg
	}
	return target + ": " + msg
}

func stripPrefix(input string) (string, bool) {
	rest := strings.TrimLeft(input, prefixes)
	if rest == input {
		return "", false
	}
	return rest, true
}

// cutTarget consumes an optional " > nick " suffix from the front of rest.
// Returns the remaining input after the redirect when one was parsed.
func cutTarget(rest string) (target, remaining string, ok bool) {
	s := strings.TrimLeft(rest, " \t")
	s, found := strings.CutPrefix(s, ">")
	if !found {
		return "", rest, false
	}
	trimmed := strings.TrimLeft(s, " \t")
	if trimmed == s {
		// at least one space required between ">" and the nick
		return "", rest, false
	}
	i := 0
	for i < len(trimmed) && isAlphanumeric(trimmed[i]) {
		i++
	}
	if i == 0 {
		return "", rest, false
	}
	return trimmed[:i], trimmed[i:], true
}

func isAlphanumeric(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
