// Package cli provides the command-line interface for the rental client.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// ANSI color codes used across the command output.
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

var ansiStripper = strings.NewReplacer(
	ColorReset, "",
	ColorRed, "",
	ColorGreen, "",
	ColorYellow, "",
	ColorCyan, "",
	ColorBold, "",
	ColorDim, "",
)

// Output writes command results to the terminal, honoring the global
// --json flag and disabling color when stdout is not a tty.
type Output struct {
	w     io.Writer
	json  bool
	color bool
}

// NewOutput builds an Output for the given command invocation.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &Output{
		w:     cmd.OutOrStdout(),
		json:  jsonMode,
		color: !jsonMode && isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// IsJSON reports whether JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.json
}

// JSON writes data as indented JSON.
func (o *Output) JSON(data interface{}) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Println writes its arguments followed by a newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.w, args...)
}

// Printf writes a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.w, format, args...)
}

// Success writes a green line.
func (o *Output) Success(format string, args ...interface{}) {
	o.line(ColorGreen, format, args...)
}

// Error writes a red line.
func (o *Output) Error(format string, args ...interface{}) {
	o.line(ColorRed, format, args...)
}

// Warning writes a yellow line.
func (o *Output) Warning(format string, args ...interface{}) {
	o.line(ColorYellow, format, args...)
}

// Info writes a cyan line.
func (o *Output) Info(format string, args ...interface{}) {
	o.line(ColorCyan, format, args...)
}

// Bold writes a bold line.
func (o *Output) Bold(format string, args ...interface{}) {
	o.line(ColorBold, format, args...)
}

// Dim writes a dimmed line.
func (o *Output) Dim(format string, args ...interface{}) {
	o.line(ColorDim, format, args...)
}

func (o *Output) line(color, format string, args ...interface{}) {
	fmt.Fprintln(o.w, o.ColoredString(color, fmt.Sprintf(format, args...)))
}

// ColoredString wraps text in the given color when color is enabled.
func (o *Output) ColoredString(color, text string) string {
	if !o.color {
		return text
	}
	return color + text + ColorReset
}

// Green returns green colored text.
func (o *Output) Green(text string) string {
	return o.ColoredString(ColorGreen, text)
}

// Red returns red colored text.
func (o *Output) Red(text string) string {
	return o.ColoredString(ColorRed, text)
}

// Yellow returns yellow colored text.
func (o *Output) Yellow(text string) string {
	return o.ColoredString(ColorYellow, text)
}

// StatusColor maps a booking status to its display color.
func (o *Output) StatusColor(status string) string {
	switch status {
	case "accepted":
		return ColorGreen
	case "declined":
		return ColorRed
	case "pending":
		return ColorYellow
	}
	return ColorReset
}

// Table renders aligned columns. Widths are tracked as rows are added.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
	out     *Output
}

// NewTable creates a table with the given column headers.
func NewTable(out *Output, headers ...string) *Table {
	t := &Table{headers: headers, widths: make([]int, len(headers)), out: out}
	t.grow(headers)
	return t
}

// AddRow appends a row. Cells beyond the header count are dropped.
func (t *Table) AddRow(cells ...string) {
	if len(cells) > len(t.headers) {
		cells = cells[:len(t.headers)]
	}
	t.rows = append(t.rows, cells)
	t.grow(cells)
}

func (t *Table) grow(cells []string) {
	for i, cell := range cells {
		if w := visibleLen(cell); w > t.widths[i] {
			t.widths[i] = w
		}
	}
}

// Render writes the header, a separator, and each row.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}
	t.writeRow(t.headers, ColorBold)

	sep := make([]string, len(t.widths))
	for i, w := range t.widths {
		sep[i] = strings.Repeat("─", w)
	}
	t.out.Println(t.out.ColoredString(ColorDim, strings.Join(sep, "──")))

	for _, row := range t.rows {
		t.writeRow(row, "")
	}
}

func (t *Table) writeRow(cells []string, color string) {
	parts := make([]string, 0, len(cells))
	for i, cell := range cells {
		pad := t.widths[i] - visibleLen(cell)
		if pad < 0 {
			pad = 0
		}
		padded := cell + strings.Repeat(" ", pad)
		if color != "" {
			padded = t.out.ColoredString(color, padded)
		}
		parts = append(parts, padded)
	}
	t.out.Println(strings.Join(parts, "  "))
}

// visibleLen measures a cell's printed width, ignoring color codes.
func visibleLen(s string) int {
	return len(ansiStripper.Replace(s))
}
