package annotate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/revelaction/corpstat/doc"
)

// CachedAnnotator remembers the documents of the last annotated texts.
type CachedAnnotator struct {
	next  Annotator
	cache *lru.Cache[string, doc.Document]
}

var _ Annotator = (*CachedAnnotator)(nil)

// Cached wraps a so that identical texts are annotated once.
func Cached(a Annotator, size int) (*CachedAnnotator, error) {
	c, err := lru.New[string, doc.Document](size)
	if err != nil {
		return nil, err
	}
	return &CachedAnnotator{next: a, cache: c}, nil
}

func (c *CachedAnnotator) Annotate(ctx context.Context, text string) (doc.Document, error) {
	sum := sha256.Sum256([]byte(text))
	key := hex.EncodeToString(sum[:])

	if d, ok := c.cache.Get(key); ok {
		return d, nil
	}

	d, err := c.next.Annotate(ctx, text)
	if err != nil {
		return doc.Document{}, err
	}

	c.cache.Add(key, d)
	return d, nil
}

// Len returns the number of cached documents.
func (c *CachedAnnotator) Len() int {
	return c.cache.Len()
}
