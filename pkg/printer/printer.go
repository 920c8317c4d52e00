// Package printer renders CLI output as tables or JSON.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/truncate"
)

// OutputType selects how results are written.
type OutputType string

const (
	OutputTypeTable OutputType = "table"
	OutputTypeJSON  OutputType = "json"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Printer writes values in the configured format.
type Printer struct {
	out    io.Writer
	format OutputType
}

// New returns a Printer writing to stdout. Unknown formats fall back to tables.
func New(format OutputType) *Printer {
	return &Printer{out: os.Stdout, format: format}
}

// WithWriter redirects output, mostly for tests.
func (p *Printer) WithWriter(w io.Writer) *Printer {
	p.out = w
	return p
}

// PrintJSON writes v as indented JSON.
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Print writes v as JSON, or calls render for the human form.
func (p *Printer) Print(v any, render func(out io.Writer) error) error {
	if p.format == OutputTypeJSON {
		return p.PrintJSON(v)
	}
	return render(p.out)
}

// TablePrinter collects rows and renders them as a bordered table.
type TablePrinter struct {
	out     io.Writer
	headers []string
	rows    [][]string
}

// NewTablePrinter returns a TablePrinter writing to out.
func NewTablePrinter(out io.Writer) *TablePrinter {
	return &TablePrinter{out: out}
}

// SetHeaders sets the column titles.
func (t *TablePrinter) SetHeaders(headers ...string) {
	t.headers = headers
}

// AddRow appends one row.
func (t *TablePrinter) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table.
func (t *TablePrinter) Render() error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(t.out, tbl.Render())
	return err
}

// TruncateString shortens s to at most width cells, appending an ellipsis.
func TruncateString(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "...")
}

// PrintError writes msg to stderr in red.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+msg))
}

// PrintSuccess writes msg to stdout in green.
func PrintSuccess(msg string) {
	fmt.Fprintln(os.Stdout, okStyle.Render(msg))
}
