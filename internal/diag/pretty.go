package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// PrettyOpts controls Pretty's rendering.
type PrettyOpts struct {
	Color bool
}

// Pretty renders every diagnostic in the bag to w, one block per
// diagnostic: "<span>: <severity> <code>: <message>" followed by any
// notes indented beneath it. Severity is colorized the same way the
// teacher's diagfmt package colorizes its own error/warning/info levels.
func Pretty(w io.Writer, bag *Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	errorColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	noteColor := color.New(color.FgWhite)

	render := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		return c.Sprint(s)
	}

	for _, d := range bag.Items() {
		var sevColor *color.Color
		switch {
		case d.Severity >= SeverityICE:
			sevColor = errorColor
		case d.Severity == SeverityWarning:
			sevColor = warnColor
		default:
			sevColor = infoColor
		}
		fmt.Fprintf(w, "%s: %s %04d: %s\n",
			d.Span, render(sevColor, d.Severity.String()), d.Code, d.Message)
		for _, n := range d.Notes {
			prefix := runewidth.FillRight("note:", 6)
			fmt.Fprintf(w, "  %s %s (%s)\n", render(noteColor, prefix), n.Msg, n.Span)
		}
	}
}
