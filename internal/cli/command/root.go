// Package command provides the chainmap CLI commands.
//
// It uses urfave/cli/v2 for command parsing. Commands write results to
// App.Writer and diagnostics to App.ErrWriter so tests can capture both.
package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chainmap-go/internal/cli/output"
	"github.com/yndnr/chainmap-go/internal/config"
	"github.com/yndnr/chainmap-go/internal/infra/buildinfo"
	"github.com/yndnr/chainmap-go/internal/infra/confloader"
	"github.com/yndnr/chainmap-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "chainmap",
		Usage:   "Exercise and benchmark a concurrent chained hash map",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			DemoCommand(),
			BenchCommand(),
			ConfigCommand(),
			ShellCommand(),
		},
		Before: func(c *cli.Context) error {
			flags := ParseGlobalFlags(c)
			return setupLogger(c, config.LogSection{Level: flags.LogLevel, Format: flags.LogFormat})
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML configuration file",
			EnvVars: []string{"CHAINMAP_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (per-bucket detail)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: "warn",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: json, text",
			Value: "text",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config string

	// Output format
	Output string // table, json, yaml
	Wide   bool

	LogLevel  string
	LogFormat string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:    c.String("config"),
		Output:    c.String("output"),
		Wide:      c.Bool("wide"),
		LogLevel:  c.String("log-level"),
		LogFormat: c.String("log-format"),
	}
}

// setupLogger installs the process logger writing to the app's error stream.
func setupLogger(c *cli.Context, cfg config.LogSection) error {
	l, err := logger.New(logger.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: errWriter(c),
	})
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	logger.SetDefault(l)
	return nil
}

// loadConfig builds the effective configuration: defaults, then the
// --config file, then CHAINMAP_* variables, then overrides.
func loadConfig(c *cli.Context, overrides map[string]any) (*config.Config, *confloader.Loader, error) {
	flags := ParseGlobalFlags(c)
	if c.IsSet("log-level") {
		overrides["log.level"] = flags.LogLevel
	}
	if c.IsSet("log-format") {
		overrides["log.format"] = flags.LogFormat
	}

	loader := confloader.NewLoader(
		confloader.WithConfigFile(flags.Config),
		confloader.WithOverrides(overrides),
	)

	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, loader, nil
}

// newFormatter returns the formatter selected by --output.
func newFormatter(c *cli.Context) (output.Formatter, output.Format, error) {
	flags := ParseGlobalFlags(c)
	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return nil, "", err
	}
	return output.NewFormatter(format, flags.Wide), format, nil
}

// render writes data with the selected formatter. Table output uses view
// when it is not nil.
func render(c *cli.Context, data any, view output.Tabler) error {
	f, format, err := newFormatter(c)
	if err != nil {
		return err
	}
	if format == output.FormatTable && view != nil {
		data = view
	}
	return f.Format(writer(c), data)
}

func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
