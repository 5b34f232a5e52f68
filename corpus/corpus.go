package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/revelaction/corpstat/annotate"
	"github.com/revelaction/corpstat/feature"
	"github.com/revelaction/corpstat/file"
	"github.com/revelaction/corpstat/stat"
	"github.com/revelaction/corpstat/storage"
	"github.com/rs/zerolog"
)

// EmptyInputError is returned when the input root has no category group
// subdirectory. Nothing is written.
type EmptyInputError struct {
	Root string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("no subfolders found in the input folder %s", e.Root)
}

// Skip records a file that could not be processed.
type Skip struct {
	File string
	Err  error
}

// GroupReport is the result of one category group.
type GroupReport struct {
	Group   string
	Rows    int
	Skipped []Skip

	// Err is set when the table could not be written
	Err error
}

type Report struct {
	Groups     []GroupReport
	Files      int
	Tokens     int
	Mismatches int
}

// Skipped returns the number of skipped files over all groups.
func (r Report) Skipped() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Skipped)
	}
	return n
}

// Failed returns the groups whose table could not be written.
func (r Report) Failed() []GroupReport {
	var failed []GroupReport
	for _, g := range r.Groups {
		if g.Err != nil {
			failed = append(failed, g)
		}
	}
	return failed
}

// Extractor builds one feature table per category group of a corpus
// directory.
type Extractor struct {
	Annotator annotate.Annotator
	Loader    *file.Loader
	Writer    storage.TableWriter
	Options   stat.Options
	Logger    zerolog.Logger

	// Progress, if set, is called after each file of a group and once with
	// done = 0 when the group starts.
	Progress func(group string, done, total int)
}

func NewExtractor(a annotate.Annotator, w storage.TableWriter, opts stat.Options) *Extractor {
	return &Extractor{
		Annotator: a,
		Loader:    file.NewLoader(),
		Writer:    w,
		Options:   opts,
		Logger:    zerolog.Nop(),
	}
}

// Run processes every category group under root. Per-file and per-group
// failures are logged and reported, they do not stop the run.
func (e *Extractor) Run(ctx context.Context, root string) (Report, error) {
	var report Report

	entries, err := os.ReadDir(root)
	if err != nil {
		return report, fmt.Errorf("failed to read input folder: %w", err)
	}

	groups := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			e.Logger.Warn().Str("entry", entry.Name()).Msg("skipping, not a directory")
			continue
		}
		groups = append(groups, entry.Name())
	}

	if len(groups) == 0 {
		return report, &EmptyInputError{Root: root}
	}

	for _, group := range groups {
		gr, err := e.runGroup(ctx, filepath.Join(root, group), group, &report)
		if err != nil {
			return report, err
		}

		report.Groups = append(report.Groups, gr)
	}

	return report, nil
}

func (e *Extractor) runGroup(ctx context.Context, dir, group string, report *Report) (GroupReport, error) {
	gr := GroupReport{Group: group}
	logger := e.Logger.With().Str("group", group).Logger()

	files, err := groupFiles(dir)
	if err != nil {
		gr.Err = fmt.Errorf("failed to list group: %w", err)
		logger.Error().Err(err).Msg("skipping group")
		return gr, nil
	}

	e.progress(group, 0, len(files))

	table := feature.NewTable(group)
	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return gr, err
		}

		res, err := extractFile(ctx, e.Annotator, e.loader(), e.Options, filepath.Join(dir, name), logger)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return gr, ctxErr
			}

			var de *file.DecodeError
			if errors.As(err, &de) {
				logger.Warn().Err(err).Str("file", name).Str("charset", de.Charset).Msg("skipping undecodable file")
			} else {
				logger.Warn().Err(err).Str("file", name).Msg("skipping file")
			}

			gr.Skipped = append(gr.Skipped, Skip{File: name, Err: err})
			e.progress(group, i+1, len(files))
			continue
		}

		if res.Stats.NumMismatches > 0 {
			logger.Warn().Str("file", name).Int("mismatches", res.Stats.NumMismatches).Msg("annotations excluded from counts")
		}

		table.Add(res.Row)
		report.Files++
		report.Tokens += res.Stats.NumTokens
		report.Mismatches += res.Stats.NumMismatches

		e.progress(group, i+1, len(files))
	}

	table.Sort()
	gr.Rows = len(table.Rows)

	if err := e.Writer.Write(ctx, table); err != nil {
		gr.Err = err
		logger.Error().Err(err).Msg("failed to write table")
		return gr, nil
	}

	logger.Info().Int("rows", gr.Rows).Int("skipped", len(gr.Skipped)).Msg("group processed")
	return gr, nil
}

func (e *Extractor) loader() *file.Loader {
	if e.Loader == nil {
		e.Loader = file.NewLoader()
	}
	return e.Loader
}

func (e *Extractor) progress(group string, done, total int) {
	if e.Progress != nil {
		e.Progress(group, done, total)
	}
}

// groupFiles lists the regular files of a group folder, non recursively.
func groupFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}

	return files, nil
}
