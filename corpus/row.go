package corpus

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/revelaction/corpstat/annotate"
	"github.com/revelaction/corpstat/feature"
	"github.com/revelaction/corpstat/file"
	"github.com/revelaction/corpstat/stat"
	"github.com/rs/zerolog"
)

// Result is the outcome of one file: its row and the counts it was built
// from.
type Result struct {
	Row   feature.Row
	Stats stat.Stats
}

// ExtractFile loads, annotates and counts one file.
func ExtractFile(ctx context.Context, a annotate.Annotator, l *file.Loader, opts stat.Options, path string) (Result, error) {
	return extractFile(ctx, a, l, opts, path, zerolog.Nop())
}

func extractFile(ctx context.Context, a annotate.Annotator, l *file.Loader, opts stat.Options, path string, logger zerolog.Logger) (Result, error) {
	text, err := l.Load(path)
	if err != nil {
		return Result{}, err
	}

	d, err := a.Annotate(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("annotation failed: %w", err)
	}

	hdl := stat.NewHandler(opts).WithLogger(logger.With().Str("file", filepath.Base(path)).Logger())
	hdl.Aggregate(d)
	st := hdl.Get()

	return Result{Row: NewRow(filepath.Base(path), st), Stats: st}, nil
}

// NewRow assembles the feature row of a file from its counts.
func NewRow(filename string, st stat.Stats) feature.Row {
	return feature.Row{
		Filename: filename,
		Noun:     st.RelFreq(stat.Noun),
		Verb:     st.RelFreq(stat.Verb),
		Adj:      st.RelFreq(stat.Adj),
		Adv:      st.RelFreq(stat.Adv),
		Person:   st.Unique(stat.Person),
		Loc:      st.Unique(stat.Loc),
		Org:      st.Unique(stat.Org),
	}
}
