// Package plugins knows every linked-in plugin by name.
package plugins

import (
	"fmt"
	"sort"

	"golem/pkg/plugin"
	"golem/pkg/plugins/calendar"
	"golem/pkg/plugins/crypto"
	"golem/pkg/plugins/ctcp"
	"golem/pkg/plugins/echo"
	"golem/pkg/plugins/joke"
	"golem/pkg/plugins/twitch"
	"golem/pkg/plugins/url"
)

var registry = map[string]plugin.InitFunc{
	"echo":   echo.Init,
	"ctcp":   ctcp.Init,
	"date":   calendar.Init,
	"joke":   joke.Init,
	"crypto": crypto.Init,
	"url":    url.Init,
	"twitch": twitch.Init,
}

// Select resolves configured plugin names to their initialisers. Unknown
// names are a configuration error.
func Select(names []string) ([]plugin.InitFunc, error) {
	inits := make([]plugin.InitFunc, 0, len(names))
	for _, name := range names {
		init, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown plugin %q, available: %v", name, Available())
		}
		inits = append(inits, init)
	}
	return inits, nil
}

// Available lists every linked-in plugin name.
func Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
