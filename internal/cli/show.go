package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/tomlkeeper/internal/config/document"
	"github.com/dshills/tomlkeeper/internal/config/value"
)

// OutputFlags selects the encoding of structured output.
type OutputFlags struct {
	Format string `short:"o" long:"format" default:"json" choice:"json" choice:"yaml" description:"Output format"`
	Query  string `short:"q" long:"query" description:"gjson path selecting part of the output"`
}

// write encodes v as JSON, narrows it with the query if one is set, and
// prints it in the selected format.
func (o OutputFlags) write(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var out any = json.RawMessage(data)
	if o.Query != "" {
		res := gjson.GetBytes(data, o.Query)
		if !res.Exists() {
			return fmt.Errorf("query %q matched nothing", o.Query)
		}
		out = json.RawMessage(res.Raw)
	}

	if o.Format == "yaml" {
		// A query result has no Go type left; re-decode it generically.
		if o.Query != "" {
			var generic any
			if err := json.Unmarshal(out.(json.RawMessage), &generic); err != nil {
				return err
			}
			v = generic
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ShowCmd prints one document.
type ShowCmd struct {
	OutputFlags
	Args struct {
		Target string `positional-arg-name:"file" description:"primary, secondary, plugin:<name> or a path"`
	} `positional-args:"yes" required:"yes"`

	app *App
}

// Execute runs the command.
func (c *ShowCmd) Execute(_ []string) error {
	doc, err := c.app.open(c.Args.Target)
	if err != nil {
		return err
	}
	return c.write(c.app.env.Stdout, doc)
}

// PluginsCmd prints every plugin document.
type PluginsCmd struct {
	OutputFlags
	Names bool `long:"names" description:"Print only plugin names"`

	app *App
}

// Execute runs the command.
func (c *PluginsCmd) Execute(_ []string) error {
	plugins, err := c.app.store.ListPluginDocuments(c.app.ctx)
	if err != nil {
		return err
	}
	if c.Names {
		for _, p := range plugins {
			fmt.Fprintln(c.app.env.Stdout, p.Name)
		}
		return nil
	}
	return c.write(c.app.env.Stdout, plugins)
}

// ListCmd prints a table of every field in a document.
type ListCmd struct {
	Args struct {
		Target string `positional-arg-name:"file" description:"primary, secondary, plugin:<name> or a path"`
	} `positional-args:"yes" required:"yes"`

	app *App
}

// Execute runs the command.
func (c *ListCmd) Execute(_ []string) error {
	doc, err := c.app.open(c.Args.Target)
	if err != nil {
		return err
	}
	writeTable(c.app.env.Stdout, fieldRows(doc))
	return nil
}

func fieldRows(doc *document.Document) [][]string {
	rows := [][]string{{"SECTION", "FIELD", "TYPE", "VALUE", "COMMENT"}}
	for _, s := range doc.Sections {
		for _, f := range s.Fields {
			comment := ""
			if f.Comment != nil {
				comment = strings.ReplaceAll(*f.Comment, "\n", " / ")
			}
			rows = append(rows, []string{
				s.Name,
				f.Name,
				f.TypeTag,
				strings.ReplaceAll(value.Render(f.Value), "\n", `\n`),
				comment,
			})
		}
	}
	return rows
}

// writeTable pads columns by display width so that wide characters, common
// in comments, stay aligned. The last column is not padded.
func writeTable(w io.Writer, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], uniseg.StringWidth(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		b.Reset()
		for i, cell := range row {
			b.WriteString(cell)
			if i == len(row)-1 {
				break
			}
			b.WriteString(strings.Repeat(" ", widths[i]-uniseg.StringWidth(cell)+2))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

// VersionCmd prints build information.
type VersionCmd struct {
	app *App
}

// Execute runs the command.
func (c *VersionCmd) Execute(_ []string) error {
	fmt.Fprintf(c.app.env.Stdout, "tomlkeeper %s\n", Version)
	fmt.Fprintf(c.app.env.Stdout, "Commit: %s\n", Commit)
	fmt.Fprintf(c.app.env.Stdout, "Built: %s\n", Date)
	return nil
}
