package annotate

import (
	"context"
	"fmt"
	"time"

	"github.com/revelaction/corpstat/doc"
)

// Annotator turns raw text into a tagged document.
type Annotator interface {
	Annotate(ctx context.Context, text string) (doc.Document, error)
}

// Func adapts a function to the Annotator interface.
type Func func(ctx context.Context, text string) (doc.Document, error)

func (f Func) Annotate(ctx context.Context, text string) (doc.Document, error) {
	return f(ctx, text)
}

const (
	KindSpacy = "spacy"
	KindProse = "prose"
)

// Kinds returns the supported backends.
func Kinds() []string {
	return []string{KindSpacy, KindProse}
}

type Conf struct {
	Kind      string        `yaml:"kind"`
	URL       string        `yaml:"url"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheSize int           `yaml:"cacheSize"`
}

// New builds the annotator described by conf, wrapped in a cache when
// CacheSize is positive.
func New(conf Conf) (Annotator, error) {
	var a Annotator

	switch conf.Kind {
	case KindSpacy:
		if conf.URL == "" {
			return nil, fmt.Errorf("spacy annotator needs an URL")
		}
		a = NewSpacy(conf.URL, conf.Model, conf.Timeout)
	case KindProse:
		a = NewProse()
	default:
		return nil, fmt.Errorf("unknown annotator: %q", conf.Kind)
	}

	if conf.CacheSize > 0 {
		c, err := Cached(a, conf.CacheSize)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	return a, nil
}
