package main

import (
	"github.com/revelaction/corpstat/query"
	"github.com/revelaction/corpstat/render"
	"github.com/urfave/cli/v2"
)

func browseCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "browse the feature tables interactively",
		Flags: append(storeFlags(),
			&cli.BoolFlag{Name: "no-color", Usage: "disable colors"},
		),
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

			r := render.NewRenderer(ui.Out)
			r.HasColor = !c.Bool("no-color")

			return query.NewHandler(repo, r).Run(c.Context)
		},
	}
}
