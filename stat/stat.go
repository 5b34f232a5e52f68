package stat

import (
	"errors"
	"math"

	"github.com/revelaction/corpstat/doc"
	"github.com/rs/zerolog"
)

// DefaultScale expresses relative frequencies per 10,000 tokens.
const DefaultScale = 10000

type Options struct {
	// Scale multiplies the relative frequencies. 0 means DefaultScale.
	Scale float64

	// ExcludePunct removes punctuation tokens from the denominator.
	ExcludePunct bool
}

type Handler struct {
	opts   Options
	stats  Stats
	logger zerolog.Logger
}

type Stats struct {
	NumTokens     int
	NumPunct      int
	NumMismatches int

	counts   [numCategories]int
	entities [numEntityTypes]map[string]struct{}

	opts Options
}

func NewHandler(opts Options) *Handler {
	if opts.Scale == 0 {
		opts.Scale = DefaultScale
	}

	return &Handler{
		opts:   opts,
		stats:  newStats(opts),
		logger: zerolog.Nop(),
	}
}

// WithLogger sets the logger mismatches are reported to.
func (h *Handler) WithLogger(l zerolog.Logger) *Handler {
	h.logger = l
	return h
}

func newStats(opts Options) Stats {
	s := Stats{opts: opts}
	for i := range s.entities {
		s.entities[i] = map[string]struct{}{}
	}
	return s
}

func (h *Handler) Get() Stats {
	return h.stats
}

// Reset clears the aggregated counts, keeping the options.
func (h *Handler) Reset() {
	h.stats = newStats(h.opts)
}

// Aggregate folds the tokens and entities of d into the counts.
func (h *Handler) Aggregate(d doc.Document) {
	h.stats.NumTokens += len(d.Tokens)

	for i, token := range d.Tokens {
		if token.IsPunct {
			h.stats.NumPunct++
		}

		cat, err := Classify(token.Pos)
		if err != nil {
			h.mismatch(err, i, token.Text)
			continue
		}

		h.stats.counts[cat]++
	}

	for i, ent := range d.Entities {
		if ent.Text == "" || ent.Label == "" {
			h.mismatch(&AnnotationMismatch{Kind: "entity", Label: ent.Label}, i, ent.Text)
			continue
		}

		et, ok := ClassifyEntity(ent.Label)
		if !ok {
			continue
		}

		h.stats.entities[et][ent.Text] = struct{}{}
	}
}

func (h *Handler) mismatch(err error, index int, text string) {
	var am *AnnotationMismatch
	if errors.As(err, &am) {
		am.Index = index
		am.Text = text
	}

	h.stats.NumMismatches++
	h.logger.Debug().Err(err).Msg("skipping annotation")
}

// Count returns the raw number of tokens of category c.
func (s Stats) Count(c Category) int {
	return s.counts[c]
}

// Denominator is the token count the relative frequencies are computed
// against. It is the same for all categories.
func (s Stats) Denominator() int {
	if s.opts.ExcludePunct {
		return s.NumTokens - s.NumPunct
	}
	return s.NumTokens
}

// RelFreq returns count(c) / Denominator * Scale, rounded to 2 decimals.
func (s Stats) RelFreq(c Category) float64 {
	return round2(s.relFreq(c))
}

func (s Stats) relFreq(c Category) float64 {
	denom := s.Denominator()
	if denom <= 0 {
		return 0
	}

	scale := s.opts.Scale
	if scale == 0 {
		scale = DefaultScale
	}

	return float64(s.counts[c]) / float64(denom) * scale
}

// Unique returns the number of distinct entity texts of type e.
func (s Stats) Unique(e EntityType) int {
	return len(s.entities[e])
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
