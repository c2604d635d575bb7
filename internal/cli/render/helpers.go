package render

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	labelStyle     = color.New(color.Faint)
	headerStyle    = color.New(color.Bold, color.FgHiWhite)
	addressStyle   = color.New(color.FgWhite)
	amountStyle    = color.New(color.FgCyan)
	pendingStyle   = color.New(color.FgYellow)
	activeStyle    = color.New(color.FgBlue)
	succeededStyle = color.New(color.FgGreen)
	defeatedStyle  = color.New(color.FgRed)
	executedStyle  = color.New(color.FgMagenta)
)

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// JSON writes v as indented JSON.
func JSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns the borderless table layout every listing uses.
func newTable(out io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Format.Header = text.FormatUpper
	t.Style().Box.PaddingRight = "   "
	if len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}
	return t
}

// kv renders a two column label/value block.
func kv(out io.Writer, rows [][2]string) {
	t := newTable(out)
	t.Style().Options.SeparateHeader = false
	for _, r := range rows {
		t.AppendRow(table.Row{labelStyle.Sprint(r[0]), r[1]})
	}
	t.Render()
}
