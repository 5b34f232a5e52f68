package filesystem

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/revelaction/corpstat/feature"
	"github.com/revelaction/corpstat/storage"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// TableStore keeps one file per group in a directory, named
// <group>_table.<format>.
type TableStore struct {
	dir    string
	format string
}

var _ storage.TableRepository = (*TableStore)(nil)

// NewTableStore creates a filesystem table store. format is csv or json.
func NewTableStore(dir, format string) (*TableStore, error) {
	if format != FormatCSV && format != FormatJSON {
		return nil, fmt.Errorf("unsupported table format: %q", format)
	}
	return &TableStore{dir: dir, format: format}, nil
}

// Path returns the file a group table is written to.
func (s *TableStore) Path(group string) string {
	return filepath.Join(s.dir, feature.FileName(group, s.format))
}

func (s *TableStore) Write(ctx context.Context, t feature.Table) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	target := s.Path(t.Group)
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(target)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	// no-op once renamed
	defer os.Remove(tmp.Name())

	switch s.format {
	case FormatCSV:
		err = writeCSV(tmp, t)
	case FormatJSON:
		err = writeJSON(tmp, t)
	}

	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write table %s: %w", t.Group, err)
	}

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to write file %s: %w", target, err)
	}

	return nil
}

func writeCSV(w io.Writer, t feature.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(feature.Header); err != nil {
		return err
	}

	for _, r := range t.Rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, t feature.Table) error {
	rows := t.Rows
	if rows == nil {
		rows = []feature.Row{}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}

	_, err = w.Write(append(data, '\n'))
	return err
}

func (s *TableStore) Groups(ctx context.Context) ([]string, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	groups := []string{}
	for _, f := range files {
		if f.IsDir() {
			continue
		}

		if g, ok := feature.GroupFromFileName(f.Name(), s.format); ok {
			groups = append(groups, g)
		}
	}

	sort.Strings(groups)
	return groups, nil
}

func (s *TableStore) Read(ctx context.Context, group string) (feature.Table, error) {
	f, err := os.Open(s.Path(group))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return feature.Table{}, fmt.Errorf("%s: %w", group, storage.ErrNotFound)
		}
		return feature.Table{}, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	t := feature.NewTable(group)

	switch s.format {
	case FormatCSV:
		err = readCSV(f, &t)
	case FormatJSON:
		err = json.NewDecoder(f).Decode(&t.Rows)
	}

	if err != nil {
		return feature.Table{}, fmt.Errorf("failed to read table %s: %w", group, err)
	}

	t.Sort()
	return t, nil
}

func readCSV(r io.Reader, t *feature.Table) error {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return errors.New("missing header")
	}

	if !slices.Equal(records[0], feature.Header) {
		return fmt.Errorf("unexpected header: %v", records[0])
	}

	for i, rec := range records[1:] {
		row, err := feature.ParseRecord(rec)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+2, err)
		}
		t.Add(row)
	}

	return nil
}
