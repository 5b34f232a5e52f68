package main

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uiprogress"
	"github.com/revelaction/corpstat/annotate"
	"github.com/revelaction/corpstat/corpus"
	"github.com/revelaction/corpstat/storage/sqlite/zombiezen"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func extractCommand(ui UI) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "input folder, one subfolder per category group",
			EnvVars: []string{"CORPSTAT_INPUT"},
		},
		&cli.StringFlag{
			Name:    "annotator",
			Aliases: []string{"a"},
			Usage:   "annotator backend: spacy or prose",
		},
		&cli.StringFlag{
			Name:    "url",
			Usage:   "URL of the spacy annotation service",
			EnvVars: []string{"CORPSTAT_SPACY_URL"},
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "spacy model name",
		},
		&cli.Float64Flag{Name: "scale", Usage: "relative frequency scale"},
		&cli.BoolFlag{Name: "exclude-punct", Usage: "exclude punctuation from the token total"},
		&cli.BoolFlag{Name: "nfc", Usage: "normalize text to Unicode NFC"},
		&cli.IntFlag{Name: "cache", Usage: "number of annotated texts kept in memory"},
		&cli.DurationFlag{Name: "timeout", Usage: "timeout of one annotation request"},
		&cli.BoolFlag{Name: "no-progress", Usage: "do not show progress bars"},
	}

	return &cli.Command{
		Name:  "extract",
		Usage: "write one feature table per category group",
		Flags: append(storeFlags(), flags...),
		Action: func(c *cli.Context) error {
			conf, err := loadConf(c)
			if err != nil {
				return err
			}

			logger := newLogger(ui.Err, conf.LogLevel)

			a, err := annotate.New(conf.Annotator)
			if err != nil {
				return err
			}

			var p Pool
			defer p.Close()

			repo, err := NewTableRepository(c.Context, &p, conf)
			if err != nil {
				return err
			}

			if s, ok := repo.(*zombiezen.TableStore); ok {
				logger.Info().Str("run", s.RunID()).Str("db", conf.DBPath()).Msg("writing to sqlite")
			}

			ex := corpus.NewExtractor(a, repo, conf.StatOptions())
			ex.Loader.NFC = conf.NFC
			ex.Logger = logger

			var bars *progress
			if !c.Bool("no-progress") {
				bars = newProgress(ui, logger)
				ex.Progress = bars.update
			}

			report, err := ex.Run(c.Context, conf.Input)
			if bars != nil {
				bars.stop()
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(ui.Out, "Processed %d files in %d groups (%d skipped), %s tokens\n",
				report.Files, len(report.Groups), report.Skipped(), humanize.Comma(int64(report.Tokens)))

			if failed := report.Failed(); len(failed) > 0 {
				return fmt.Errorf("%d group table(s) could not be written, first: %s: %w", len(failed), failed[0].Group, failed[0].Err)
			}

			return nil
		},
	}
}

// progress shows one bar per group.
type progress struct {
	mu      sync.Mutex
	p       *uiprogress.Progress
	bars    map[string]*uiprogress.Bar
	started bool
	logger  zerolog.Logger
}

func newProgress(ui UI, logger zerolog.Logger) *progress {
	p := uiprogress.New()
	p.SetOut(ui.Out)
	return &progress{p: p, bars: map[string]*uiprogress.Bar{}, logger: logger}
}

func (pr *progress) update(group string, done, total int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if total == 0 {
		return
	}

	bar, ok := pr.bars[group]
	if !ok {
		if !pr.started {
			pr.p.Start()
			pr.started = true
		}

		bar = pr.p.AddBar(total)
		bar.AppendCompleted()
		bar.PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("%-12s", group)
		})
		pr.bars[group] = bar
	}

	if err := bar.Set(done); err != nil {
		pr.logger.Debug().Err(err).Str("group", group).Int("done", done).Int("total", total).Msg("progress not updated")
	}
}

func (pr *progress) stop() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.started {
		pr.p.Stop()
	}
}
