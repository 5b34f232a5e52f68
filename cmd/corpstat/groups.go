package main

import (
	"github.com/revelaction/corpstat/render"
	"github.com/urfave/cli/v2"
)

func groupsCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "groups",
		Usage: "list the stored feature tables",
		Flags: storeFlags(),
		Action: func(c *cli.Context) error {
			conf, err := loadConf(c)
			if err != nil {
				return err
			}

			var p Pool
			defer p.Close()

			repo, err := NewTableReader(c.Context, &p, conf)
			if err != nil {
				return err
			}

			groups, err := repo.Groups(c.Context)
			if err != nil {
				return err
			}

			return render.NewRenderer(ui.Out).Groups(groups)
		},
	}
}
