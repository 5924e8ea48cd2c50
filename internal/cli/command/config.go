package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/chainmap-go/internal/cli/output"
	"github.com/yndnr/chainmap-go/internal/config"
	"github.com/yndnr/chainmap-go/internal/infra/confloader"
)

// ConfigCommand returns the config command.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Description: "Merges defaults, the --config file and CHAINMAP_* environment\n" +
			"variables, verifies the result and prints it. With --wide the\n" +
			"table shows which source set each value.",
		Action: configShow,
	}
}

func configShow(c *cli.Context) error {
	cfg, loader, err := loadConfig(c, map[string]any{})
	if err != nil {
		return err
	}
	return render(c, cfg, configView{cfg: cfg, loader: loader})
}

// configView lists every setting as KEY/VALUE, plus SOURCE in wide mode.
type configView struct {
	cfg    *config.Config
	loader *confloader.Loader
}

func (v configView) Table(wide bool) *output.Table {
	t := &output.Table{Headers: []string{"KEY", "VALUE"}}
	if wide {
		t.SetHeaders("KEY", "VALUE", "SOURCE")
	}

	fields, _ := output.Fields(v.cfg)
	for _, f := range fields {
		if wide {
			t.AddRow(f.Name, f.Value, v.loader.Origin(f.Name))
			continue
		}
		t.AddRow(f.Name, f.Value)
	}
	return t
}
