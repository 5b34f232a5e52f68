package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/revelaction/corpstat/annotate"
	"github.com/revelaction/corpstat/doc"
	"github.com/revelaction/corpstat/feature"
	"github.com/revelaction/corpstat/file"
	"github.com/revelaction/corpstat/stat"
	"github.com/revelaction/corpstat/storage/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAnnotator reads whitespace separated words of the form text/POS or
// text/POS/LABEL. A LABEL makes the word an entity.
var stubAnnotator = annotate.Func(func(ctx context.Context, text string) (doc.Document, error) {
	var d doc.Document
	for _, w := range strings.Fields(text) {
		parts := strings.Split(w, "/")
		tok := doc.Token{Text: parts[0]}
		if len(parts) > 1 {
			tok.Pos = parts[1]
			tok.IsPunct = parts[1] == "PUNCT"
		}
		d.Tokens = append(d.Tokens, tok)

		if len(parts) > 2 {
			d.Entities = append(d.Entities, doc.Entity{Text: parts[0], Label: parts[2]})
		}
	}
	return d, nil
})

type memWriter struct {
	tables []feature.Table
	fail   map[string]bool
}

func (m *memWriter) Write(ctx context.Context, t feature.Table) error {
	if m.fail[t.Group] {
		return errors.New("disk full")
	}
	m.tables = append(m.tables, t)
	return nil
}

func words(w string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = w
	}
	return out
}

// scenarioText has 100 tokens: 10 nouns, 0 punctuation, Alice twice.
func scenarioText() string {
	var ws []string
	ws = append(ws, words("house/NOUN", 10)...)
	ws = append(ws, "Alice/PROPN/PERSON", "Alice/PROPN/PERSON")
	ws = append(ws, words("the/DET", 88)...)
	return strings.Join(ws, " ")
}

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestScenarioFiction(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"fiction/b.txt": scenarioText(),
		"fiction/a.txt": scenarioText(),
	})
	out := filepath.Join(t.TempDir(), "out")

	store, err := filesystem.NewTableStore(out, filesystem.FormatCSV)
	require.NoError(t, err)

	ex := NewExtractor(stubAnnotator, store, stat.Options{})
	report, err := ex.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 200, report.Tokens)
	assert.Empty(t, report.Failed())

	data, err := os.ReadFile(filepath.Join(out, "fiction_table.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Filename,RelFreq NOUN,RelFreq VERB,RelFreq ADJ,RelFreq ADV,No. Unique PER,No. Unique LOC,No. Unique ORG", lines[0])
	assert.Equal(t, "a.txt,1000.00,0.00,0.00,0.00,1,0,0", lines[1])
	assert.Equal(t, "b.txt,1000.00,0.00,0.00,0.00,1,0,0", lines[2])
}

func TestEmptyInput(t *testing.T) {
	root := writeCorpus(t, map[string]string{"loose.txt": "x/NOUN"})
	w := &memWriter{}

	_, err := NewExtractor(stubAnnotator, w, stat.Options{}).Run(context.Background(), root)

	var ee *EmptyInputError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, root, ee.Root)
	assert.Empty(t, w.tables)
}

func TestEmptyRoot(t *testing.T) {
	w := &memWriter{}
	_, err := NewExtractor(stubAnnotator, w, stat.Options{}).Run(context.Background(), t.TempDir())

	var ee *EmptyInputError
	assert.True(t, errors.As(err, &ee))
}

func TestMissingRoot(t *testing.T) {
	_, err := NewExtractor(stubAnnotator, &memWriter{}, stat.Options{}).Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEmptyGroupWritesEmptyTable(t *testing.T) {
	root := writeCorpus(t, map[string]string{"news/a.txt": "x/NOUN"})
	require.NoError(t, os.Mkdir(filepath.Join(root, "poetry"), 0755))
	w := &memWriter{}

	report, err := NewExtractor(stubAnnotator, w, stat.Options{}).Run(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, w.tables, 2)
	assert.Equal(t, "news", w.tables[0].Group)
	assert.Equal(t, "poetry", w.tables[1].Group)
	assert.Empty(t, w.tables[1].Rows)
	assert.Len(t, report.Groups, 2)
}

func TestNestedFoldersIgnored(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"news/a.txt":       "x/NOUN",
		"news/deep/b.txt":  "x/NOUN",
		"news/deeper/c.md": "x/NOUN",
	})
	w := &memWriter{}

	_, err := NewExtractor(stubAnnotator, w, stat.Options{}).Run(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, w.tables, 1)
	require.Len(t, w.tables[0].Rows, 1)
	assert.Equal(t, "a.txt", w.tables[0].Rows[0].Filename)
}

func TestUndecodableFileSkipped(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"news/a.txt": "x/NOUN",
		"news/b.txt": string([]byte{0xff, 0xfe, 0x80}),
	})
	w := &memWriter{}

	ex := NewExtractor(stubAnnotator, w, stat.Options{})
	ex.Loader = &file.Loader{Detector: failingDetector{}}

	report, err := ex.Run(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, w.tables, 1)
	assert.Len(t, w.tables[0].Rows, 1)

	require.Len(t, report.Groups[0].Skipped, 1)
	skip := report.Groups[0].Skipped[0]
	assert.Equal(t, "b.txt", skip.File)

	var de *file.DecodeError
	assert.True(t, errors.As(skip.Err, &de))
	assert.Equal(t, 1, report.Skipped())
}

type failingDetector struct{}

func (failingDetector) Detect(b []byte) (string, error) {
	return "", errors.New("unknown")
}

func TestAnnotationErrorSkipsFile(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"news/a.txt": "x/NOUN",
		"news/b.txt": "fail",
	})
	w := &memWriter{}

	a := annotate.Func(func(ctx context.Context, text string) (doc.Document, error) {
		if text == "fail" {
			return doc.Document{}, errors.New("service down")
		}
		return stubAnnotator(ctx, text)
	})

	report, err := NewExtractor(a, w, stat.Options{}).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, w.tables[0].Rows, 1)
	assert.ErrorContains(t, report.Groups[0].Skipped[0].Err, "service down")
}

func TestWriteFailureDoesNotAbortOtherGroups(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"a/x.txt": "x/NOUN",
		"b/y.txt": "y/VERB",
	})
	w := &memWriter{fail: map[string]bool{"a": true}}

	report, err := NewExtractor(stubAnnotator, w, stat.Options{}).Run(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, w.tables, 1)
	assert.Equal(t, "b", w.tables[0].Group)

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "a", failed[0].Group)
}

func TestMismatchesCounted(t *testing.T) {
	root := writeCorpus(t, map[string]string{"news/a.txt": "x/NOUN y/??? z/VERB w"})
	w := &memWriter{}

	report, err := NewExtractor(stubAnnotator, w, stat.Options{}).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Mismatches)
	assert.Equal(t, 2500.0, w.tables[0].Rows[0].Noun)
}

func TestExcludePunct(t *testing.T) {
	root := writeCorpus(t, map[string]string{"news/a.txt": "x/NOUN ./PUNCT ,/PUNCT y/DET"})
	w := &memWriter{}

	_, err := NewExtractor(stubAnnotator, w, stat.Options{ExcludePunct: true}).Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, w.tables[0].Rows[0].Noun)
}

func TestProgress(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"news/a.txt": "x/NOUN",
		"news/b.txt": "x/NOUN",
	})

	var calls []int
	ex := NewExtractor(stubAnnotator, &memWriter{}, stat.Options{})
	ex.Progress = func(group string, done, total int) {
		assert.Equal(t, "news", group)
		assert.Equal(t, 2, total)
		calls = append(calls, done)
	}

	_, err := ex.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, calls)
}

func TestCancelled(t *testing.T) {
	root := writeCorpus(t, map[string]string{"news/a.txt": "x/NOUN"})
	w := &memWriter{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor(stubAnnotator, w, stat.Options{}).Run(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.tables)
}

func TestExtractFile(t *testing.T) {
	root := writeCorpus(t, map[string]string{"f/a.txt": "<p>x/NOUN y/VERB</p> Bob/PROPN/PER"})

	res, err := ExtractFile(context.Background(), stubAnnotator, file.NewLoader(), stat.Options{Scale: 100}, filepath.Join(root, "f", "a.txt"))
	require.NoError(t, err)

	assert.Equal(t, "a.txt", res.Row.Filename)
	assert.Equal(t, 33.33, res.Row.Noun)
	assert.Equal(t, 33.33, res.Row.Verb)
	assert.Equal(t, 1, res.Row.Person)
	assert.Equal(t, 3, res.Stats.NumTokens)
}
