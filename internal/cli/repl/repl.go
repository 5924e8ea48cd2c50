// Package repl provides an interactive shell over a live string map.
//
// Each line is one command: put, get, remove, has, len, keys, buckets,
// dump, history, complete, help, exit. Arguments are separated by spaces;
// double quotes group words, so keys such as "Mike Ross" work.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/yndnr/chainmap-go/pkg/cmap"
)

var (
	// ErrUnknownCommand is returned for a command name the shell lacks.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage is returned when a command gets the wrong arguments.
	ErrUsage = errors.New("usage")

	// ErrUnterminatedQuote is returned for a line with an open quote.
	ErrUnterminatedQuote = errors.New("unterminated quote")
)

type command struct {
	min, max int
	usage    string
	// keyArg marks commands whose first argument is a map key.
	keyArg bool
	run    func(r *REPL, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"put":      {2, 2, "put KEY VALUE", true, (*REPL).put},
		"get":      {1, 1, "get KEY", true, (*REPL).get},
		"remove":   {1, 1, "remove KEY", true, (*REPL).remove},
		"has":      {1, 1, "has KEY", true, (*REPL).has},
		"len":      {0, 0, "len", false, (*REPL).length},
		"keys":     {0, 0, "keys", false, (*REPL).keys},
		"buckets":  {0, 0, "buckets", false, (*REPL).buckets},
		"dump":     {0, 0, "dump", false, (*REPL).dump},
		"history":  {0, 0, "history", false, (*REPL).showHistory},
		"complete": {1, 2, "complete PREFIX | complete COMMAND KEYPREFIX", false, (*REPL).complete},
		"help":     {0, 0, "help", false, (*REPL).help},
		"exit":     {0, 0, "exit", false, nil},
		"quit":     {0, 0, "quit", false, nil},
	}
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	m         *cmap.Map[string, string]
	input     io.Reader
	output    io.Writer
	prompt    bool
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams. The prompt is shown only when
// in is a terminal.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the command history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a shell over m. The caller keeps ownership of m.
func New(m *cmap.Map[string, string], opts ...Option) *REPL {
	r := &REPL{
		m:       m,
		input:   os.Stdin,
		output:  os.Stdout,
		history: NewHistory(""),
	}
	r.completer = NewCompleter(m.Keys)
	for _, opt := range opts {
		opt(r)
	}
	if f, ok := r.input.(*os.File); ok {
		r.prompt = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return r
}

// Run reads and executes commands until exit, quit or end of input.
// Command errors are printed and do not stop the loop.
func (r *REPL) Run() error {
	if err := r.history.Load(); err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	reader := bufio.NewReader(r.input)
	for {
		if r.prompt {
			fmt.Fprint(r.output, "chainmap> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF

		line = strings.TrimSpace(line)
		if line != "" {
			r.history.Add(line)
			if line == "exit" || line == "quit" {
				break
			}
			if err := r.execute(line); err != nil {
				fmt.Fprintf(r.output, "Error: %v\n", err)
			}
		}

		if eof {
			if r.prompt {
				fmt.Fprintln(r.output)
			}
			break
		}
	}

	if err := r.history.Save(); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (r *REPL) execute(line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok || cmd.run == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	if n := len(args) - 1; n < cmd.min || n > cmd.max {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}
	return cmd.run(r, args[1:])
}

func (r *REPL) put(args []string) error {
	r.m.Put(args[0], args[1])
	fmt.Fprintln(r.output, "OK")
	return nil
}

func (r *REPL) get(args []string) error {
	if !r.m.GetFunc(args[0], func(v string) { fmt.Fprintln(r.output, v) }) {
		fmt.Fprintln(r.output, "(nil)")
	}
	return nil
}

func (r *REPL) remove(args []string) error {
	had := r.m.Has(args[0])
	r.m.Remove(args[0])
	fmt.Fprintln(r.output, boolInt(had))
	return nil
}

func (r *REPL) has(args []string) error {
	fmt.Fprintln(r.output, boolInt(r.m.Has(args[0])))
	return nil
}

func (r *REPL) length([]string) error {
	fmt.Fprintln(r.output, r.m.Len())
	return nil
}

func (r *REPL) keys([]string) error {
	keys := r.m.Keys()
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintln(r.output, k)
	}
	return nil
}

func (r *REPL) buckets([]string) error {
	for _, s := range r.m.Stats() {
		fmt.Fprintf(r.output, "%d\t%d\n", s.Index, s.Entries)
	}
	return nil
}

func (r *REPL) dump([]string) error {
	return r.m.Dump(r.output)
}

func (r *REPL) showHistory([]string) error {
	for i, e := range r.history.Entries() {
		fmt.Fprintf(r.output, "%4d  %s\n", i+1, e)
	}
	return nil
}

func (r *REPL) complete(args []string) error {
	keys := len(args) == 2
	for _, s := range r.completer.Complete(args) {
		if keys {
			s = quoteArg(s)
		}
		fmt.Fprintln(r.output, s)
	}
	return nil
}

func (r *REPL) help([]string) error {
	for _, name := range r.completer.Commands() {
		fmt.Fprintf(r.output, "  %s\n", commands[name].usage)
	}
	return nil
}

func boolInt(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// splitArgs splits a line on spaces. Double quotes group words and a
// backslash escapes the next character inside quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		inArg   bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == '"':
			inQuote = !inQuote
			inArg = true
		case !inQuote && (c == ' ' || c == '\t'):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteByte(c)
			inArg = true
		}
	}
	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
