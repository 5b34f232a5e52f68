package feature

import (
	"fmt"
	"sort"
	"strconv"
)

const tableSuffix = "_table"

// Header is the column set of a feature table, in output order.
var Header = []string{
	"Filename",
	"RelFreq NOUN",
	"RelFreq VERB",
	"RelFreq ADJ",
	"RelFreq ADV",
	"No. Unique PER",
	"No. Unique LOC",
	"No. Unique ORG",
}

// Row holds the statistics of one file.
type Row struct {
	Filename string  `json:"Filename"`
	Noun     float64 `json:"RelFreq NOUN"`
	Verb     float64 `json:"RelFreq VERB"`
	Adj      float64 `json:"RelFreq ADJ"`
	Adv      float64 `json:"RelFreq ADV"`
	Person   int     `json:"No. Unique PER"`
	Loc      int     `json:"No. Unique LOC"`
	Org      int     `json:"No. Unique ORG"`
}

// Record returns the row as strings in Header order. Floats have two
// decimals.
func (r Row) Record() []string {
	return []string{
		r.Filename,
		formatFloat(r.Noun),
		formatFloat(r.Verb),
		formatFloat(r.Adj),
		formatFloat(r.Adv),
		strconv.Itoa(r.Person),
		strconv.Itoa(r.Loc),
		strconv.Itoa(r.Org),
	}
}

// ParseRecord is the inverse of Record.
func ParseRecord(rec []string) (Row, error) {
	if len(rec) != len(Header) {
		return Row{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(rec))
	}

	var (
		r   = Row{Filename: rec[0]}
		err error
	)

	floats := []*float64{&r.Noun, &r.Verb, &r.Adj, &r.Adv}
	for i, f := range floats {
		*f, err = strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return Row{}, fmt.Errorf("column %q: %w", Header[i+1], err)
		}
	}

	ints := []*int{&r.Person, &r.Loc, &r.Org}
	for i, n := range ints {
		*n, err = strconv.Atoi(rec[i+5])
		if err != nil {
			return Row{}, fmt.Errorf("column %q: %w", Header[i+5], err)
		}
	}

	return r, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Table is the collection of rows of one category group.
type Table struct {
	Group string
	Rows  []Row
}

func NewTable(group string) Table {
	return Table{Group: group, Rows: []Row{}}
}

func (t *Table) Add(r Row) {
	t.Rows = append(t.Rows, r)
}

// Sort orders the rows by filename, ascending.
func (t *Table) Sort() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Filename < t.Rows[j].Filename
	})
}

// Row returns the row for filename.
func (t Table) Row(filename string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Filename == filename {
			return r, true
		}
	}
	return Row{}, false
}

// FileName returns the artifact name of a group table: <group>_table.<ext>
func FileName(group, ext string) string {
	return group + tableSuffix + "." + ext
}

// GroupFromFileName is the inverse of FileName. ok is false if name is not a
// table artifact with the given extension.
func GroupFromFileName(name, ext string) (string, bool) {
	suffix := tableSuffix + "." + ext
	if len(name) <= len(suffix) || name[len(name)-len(suffix):] != suffix {
		return "", false
	}
	return name[:len(name)-len(suffix)], true
}
