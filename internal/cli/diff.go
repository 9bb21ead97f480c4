package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffCmd prints a line diff between a file and its reconstruction.
type DiffCmd struct {
	Color    string `long:"color" default:"auto" choice:"auto" choice:"always" choice:"never" description:"Colorize the diff"`
	ExitCode bool   `long:"exit-code" description:"Fail when the reconstruction differs"`
	Args     struct {
		Target string `positional-arg-name:"file" description:"primary, secondary, plugin:<name> or a path"`
	} `positional-args:"yes" required:"yes"`

	app *App
}

// Execute runs the command.
func (c *DiffCmd) Execute(_ []string) error {
	doc, err := c.app.open(c.Args.Target)
	if err != nil {
		return err
	}

	w := c.app.env.Stdout
	useColor := c.Color == "always" || (c.Color == "auto" && c.app.isTerminal(w))

	changed := writeDiff(w, doc.Path, doc.RawContent, c.app.store.Reconstruct(doc), useColor)
	if changed && c.ExitCode {
		return fmt.Errorf("%s: %w", doc.Path, ErrNotFormatted)
	}
	return nil
}

// writeDiff writes the line diff from before to after and reports whether
// they differ. Nothing is written when they are equal.
func writeDiff(w io.Writer, name, before, after string, useColor bool) bool {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changed := false
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			changed = true
			break
		}
	}
	if !changed {
		return false
	}

	header := newColor(useColor, color.Bold)
	del := newColor(useColor, color.FgRed)
	ins := newColor(useColor, color.FgGreen)

	header.Fprintf(w, "--- %s\n", name)
	header.Fprintf(w, "+++ %s (reconstructed)\n", name)
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				del.Fprintln(w, "-"+line)
			case diffmatchpatch.DiffInsert:
				ins.Fprintln(w, "+"+line)
			default:
				fmt.Fprintln(w, " "+line)
			}
		}
	}
	return true
}

func newColor(enabled bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// splitLines splits text into lines without their terminators.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
