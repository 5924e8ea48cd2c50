package repl

import (
	"sort"
	"strings"
)

// Completer suggests command names and, after a command that takes a key,
// keys currently in the map.
type Completer struct {
	commands []string
	keys     func() []string
}

// NewCompleter creates a Completer. keys lists the map's current keys and
// may be nil to complete command names only.
func NewCompleter(keys func() []string) *Completer {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Completer{commands: names, keys: keys}
}

// Commands returns every command name, sorted.
func (c *Completer) Commands() []string {
	return append([]string(nil), c.commands...)
}

// Complete returns sorted suggestions for a partial line already split
// into arguments. A single argument is a command prefix; a key-taking
// command followed by one argument completes that argument as a key.
func (c *Completer) Complete(args []string) []string {
	switch len(args) {
	case 0:
		return c.Commands()
	case 1:
		return withPrefix(c.commands, args[0])
	case 2:
		if !commands[args[0]].keyArg || c.keys == nil {
			return nil
		}
		keys := c.keys()
		sort.Strings(keys)
		return withPrefix(keys, args[1])
	default:
		return nil
	}
}

func withPrefix(sorted []string, prefix string) []string {
	var out []string
	for _, s := range sorted {
		if strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
	}
	return out
}

// quoteArg returns s in a form splitArgs reads back as one argument.
func quoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"\\") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
