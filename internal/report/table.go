// Package report renders query results as styled console tables or YAML.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrColumnMismatch is returned when a row does not have one value per column.
var ErrColumnMismatch = errors.New("row length does not match column count")

var (
	titleColor  = lipgloss.Color("1")
	headerColor = lipgloss.Color("1")
)

// heavyHeadBorder draws the top edge and the header rule heavy and the
// body light.
var heavyHeadBorder = lipgloss.Border{
	Top:          "━",
	Bottom:       "─",
	Left:         "│",
	Right:        "│",
	TopLeft:      "┏",
	TopRight:     "┓",
	BottomLeft:   "└",
	BottomRight:  "┘",
	MiddleLeft:   "┡",
	MiddleRight:  "┩",
	Middle:       "╇",
	MiddleTop:    "┳",
	MiddleBottom: "┴",
}

// Table is a titled table with a fixed set of columns.
type Table struct {
	title   string
	columns []string
	rows    [][]string
	out     io.Writer
	color   bool
}

// Option configures a Table.
type Option func(*Table)

// WithWriter sets where Render writes to. The default is os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(t *Table) {
		t.out = w
	}
}

// WithColor disables styling when false. When true, styling follows what the
// writer supports.
func WithColor(enabled bool) Option {
	return func(t *Table) {
		t.color = enabled
	}
}

// NewTable creates an empty table with the given title and columns.
func NewTable(title string, columns []string, opts ...Option) *Table {
	t := &Table{
		title:   title,
		columns: append([]string(nil), columns...),
		out:     os.Stdout,
		color:   true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Title returns the table title.
func (t *Table) Title() string {
	return t.title
}

// Columns returns a copy of the column names.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Rows returns a copy of the rows added so far.
func (t *Table) Rows() [][]string {
	rows := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		rows = append(rows, append([]string(nil), row...))
	}
	return rows
}

// AddRow appends a row. Values map onto the columns in order. Braces are
// stripped so nested values such as "{1: 48 KiB, 2: 2 MiB}" read as a flat list.
func (t *Table) AddRow(values ...string) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: table %q expects %d values, got %d", ErrColumnMismatch, t.title, len(t.columns), len(values))
	}
	row := make([]string, 0, len(values))
	for _, v := range values {
		row = append(row, strings.NewReplacer("{", "", "}", "").Replace(v))
	}
	t.rows = append(t.rows, row)
	return nil
}

// Render writes the table to its writer.
func (t *Table) Render() error {
	if _, err := io.WriteString(t.out, t.render(terminalWidth(t.out))+"\n"); err != nil {
		return fmt.Errorf("failed to write table %q: %w", t.title, err)
	}
	return nil
}

// String renders the table without constraining its width.
func (t *Table) String() string {
	return t.render(0)
}

func (t *Table) render(maxWidth int) string {
	r := lipgloss.NewRenderer(t.out)
	if !t.color {
		r.SetColorProfile(termenv.Ascii)
	}
	headerStyle := r.NewStyle().Bold(true).Foreground(headerColor).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(heavyHeadBorder).
		BorderStyle(r.NewStyle()).
		Headers(t.columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, row := range t.rows {
		tbl.Row(row...)
	}

	body := tbl.String()
	width := lipgloss.Width(body)
	if maxWidth > 0 && width > maxWidth {
		tbl.Width(maxWidth)
		body = tbl.String()
		width = maxWidth
	}
	title := r.NewStyle().Bold(true).Foreground(titleColor).Render(t.title)
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.PlaceHorizontal(width, lipgloss.Center, title), body)
}

// terminalWidth returns the width of w when it is a terminal, otherwise 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
