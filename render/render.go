package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/revelaction/corpstat/feature"
)

var (
	Teal      = "\033[1;36m"
	Yellow256 = "\033[1;38;5;130m"
	Off       = "\033[0m"
)

// Renderer prints feature tables as aligned text columns.
type Renderer struct {
	Out      io.Writer
	HasColor bool
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{Out: w}
}

// Table prints the header and one line per row.
func (r *Renderer) Table(t feature.Table) error {
	if _, err := fmt.Fprintf(r.Out, "%s\n", r.paint(Yellow256, "🔖 "+t.Group)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(r.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, line(feature.Header))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, line(row.Record()))
	}

	return tw.Flush()
}

// Row prints one row, a column per line.
func (r *Renderer) Row(group string, row feature.Row) error {
	if _, err := fmt.Fprintf(r.Out, "%s\n", r.paint(Yellow256, "🔖 "+group)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(r.Out, 0, 0, 2, ' ', 0)
	for i, v := range row.Record() {
		fmt.Fprintf(tw, "%s\t%s\n", feature.Header[i], v)
	}

	return tw.Flush()
}

// Groups prints one group name per line.
func (r *Renderer) Groups(groups []string) error {
	for _, g := range groups {
		if _, err := fmt.Fprintln(r.Out, r.paint(Teal, g)); err != nil {
			return err
		}
	}
	return nil
}

// line joins cells for a tabwriter. Escape codes would break the column
// widths, so cells are never painted.
func line(cells []string) string {
	return strings.Join(cells, "\t")
}

func (r *Renderer) paint(color, s string) string {
	if !r.HasColor {
		return s
	}
	return color + s + Off
}
