package main

import (
	"errors"

	"github.com/revelaction/corpstat/render"
	"github.com/urfave/cli/v2"
)

func showCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print the feature table of a group",
		ArgsUsage: "<group>",
		Flags: append(storeFlags(),
			&cli.BoolFlag{Name: "json", Usage: "print the rows as JSON"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colors"},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("show needs exactly one group")
			}

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

			t, err := repo.Read(c.Context, c.Args().First())
			if err != nil {
				return err
			}

			if c.Bool("json") {
				return render.NewJSONRenderer(ui.Out).Table(t)
			}

			r := render.NewRenderer(ui.Out)
			r.HasColor = !c.Bool("no-color")
			return r.Table(t)
		},
	}
}
