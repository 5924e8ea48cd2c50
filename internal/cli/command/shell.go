package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/chainmap-go/internal/cli/repl"
	"github.com/yndnr/chainmap-go/internal/telemetry/logger"
	"github.com/yndnr/chainmap-go/pkg/cmap"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Interactive put/get/remove against a live map",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "hasher",
				Usage: "Key hash function: murmur3, xxhash, additive",
				Value: cmap.HasherMurmur3,
			},
			&cli.IntFlag{
				Name:  "buckets",
				Usage: "Bucket count",
				Value: cmap.DefaultBucketCount,
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not read or write ~/.chainmap/history",
			},
		},
		Action: shellRun,
	}
}

func shellRun(c *cli.Context) error {
	hash, err := cmap.HasherByName(c.String("hasher"), c.Int("buckets"))
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	released := 0
	m, err := cmap.New(cmap.Callbacks[string, string]{
		Hash:         hash,
		Equal:        cmap.Equal[string](),
		DestroyKey:   func(string) { released++ },
		DestroyValue: cmap.Noop[string](),
	},
		cmap.WithBucketCount(c.Int("buckets")),
		cmap.WithLogger(logger.Default().Slog()),
	)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	historyFile := repl.DefaultHistoryFile()
	if c.Bool("no-history") {
		historyFile = ""
	}

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	r := repl.New(m, repl.WithIO(in, writer(c)), repl.WithHistory(repl.NewHistory(historyFile)))
	runErr := r.Run()

	m.Destroy()
	logger.Debug("shell map destroyed", "released", released)
	return runErr
}
