package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/revelaction/corpstat/config"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp(ui).RunContext(ctx, os.Args)
	stop()

	if err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "corpstat: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "corpstat",
		Usage:     "per-file linguistic features of a text corpus",
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"CORPSTAT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "trace, debug, info, warn or error",
			},
		},
		Commands: []*cli.Command{
			extractCommand(ui),
			groupsCommand(ui),
			showCommand(ui),
			browseCommand(ui),
			versionCommand(ui),
		},
	}
}

// storeFlags select the feature table repository.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output folder of the feature tables",
			EnvVars: []string{"CORPSTAT_OUTPUT"},
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "table format: csv, json or sqlite",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "SQLite file for the sqlite format (default <output>/features.db)",
		},
	}
}

// loadConf resolves the configuration: defaults, then the YAML file, then
// flags and environment variables.
func loadConf(c *cli.Context) (config.Conf, error) {
	conf := config.Default()

	if path := c.String("config"); path != "" {
		var err error
		if conf, err = config.Load(path); err != nil {
			return conf, err
		}
	}

	setString(c, "log-level", &conf.LogLevel)
	setString(c, "input", &conf.Input)
	setString(c, "output", &conf.Output)
	setString(c, "format", &conf.Format)
	setString(c, "db", &conf.DB)
	setString(c, "annotator", &conf.Annotator.Kind)
	setString(c, "url", &conf.Annotator.URL)
	setString(c, "model", &conf.Annotator.Model)

	if c.IsSet("scale") {
		conf.Scale = c.Float64("scale")
	}
	if c.IsSet("exclude-punct") {
		conf.ExcludePunct = c.Bool("exclude-punct")
	}
	if c.IsSet("nfc") {
		conf.NFC = c.Bool("nfc")
	}
	if c.IsSet("cache") {
		conf.Annotator.CacheSize = c.Int("cache")
	}
	if c.IsSet("timeout") {
		conf.Annotator.Timeout = c.Duration("timeout")
	}

	return conf, conf.Validate()
}

func setString(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}

// newLogger writes human readable log lines to the error stream.
func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: w != os.Stderr}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
