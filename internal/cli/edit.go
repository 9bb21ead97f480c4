package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/tomlkeeper/internal/config/comment"
	"github.com/dshills/tomlkeeper/internal/config/document"
	"github.com/dshills/tomlkeeper/internal/config/loader"
	"github.com/dshills/tomlkeeper/internal/config/value"
)

// ErrNotFormatted is returned by fmt --check when a file would change.
var ErrNotFormatted = errors.New("file is not in reconstructed form")

type fieldArgs struct {
	Target  string `positional-arg-name:"file" description:"primary, secondary, plugin:<name> or a path"`
	Section string `positional-arg-name:"section"`
	Field   string `positional-arg-name:"field"`
}

// GetCmd prints one field.
type GetCmd struct {
	Args fieldArgs `positional-args:"yes" required:"yes"`

	app *App
}

// Execute runs the command.
func (c *GetCmd) Execute(_ []string) error {
	doc, err := c.app.open(c.Args.Target)
	if err != nil {
		return err
	}
	f, err := doc.Lookup(c.Args.Section, c.Args.Field)
	if err != nil {
		return err
	}

	w := c.app.env.Stdout
	if f.Comment != nil {
		for _, line := range strings.Split(*f.Comment, "\n") {
			fmt.Fprintf(w, "%s %s\n", comment.Marker, line)
		}
	}
	fmt.Fprintln(w, value.Render(f.Value))
	return nil
}

// SetCmd replaces one field value and saves the document.
type SetCmd struct {
	String bool `short:"s" long:"string" description:"Store the literal as a string instead of parsing it as TOML"`
	Args   struct {
		Target  string `positional-arg-name:"file" description:"primary, secondary, plugin:<name> or a path"`
		Section string `positional-arg-name:"section"`
		Field   string `positional-arg-name:"field"`
		Literal string `positional-arg-name:"value" description:"TOML value such as 42, \"text\" or [1, 2]"`
	} `positional-args:"yes" required:"yes"`

	app *App
}

// Execute runs the command.
func (c *SetCmd) Execute(_ []string) error {
	v := value.String(c.Args.Literal)
	if !c.String {
		parsed, err := value.ParseLiteral(c.Args.Literal)
		if err != nil {
			return err
		}
		v = parsed
	}

	doc, err := c.app.open(c.Args.Target)
	if err != nil {
		return err
	}
	if err := doc.Set(c.Args.Section, c.Args.Field, v); err != nil {
		return err
	}
	return c.app.store.Save(c.app.ctx, doc.Path, doc)
}

// ApplyCmd saves a JSON document, in the form show prints, to a file.
type ApplyCmd struct {
	From   string   `long:"from" description:"JSON document to read, - for stdin; defaults to the file's current document"`
	Patch  []string `long:"patch" description:"path=json edit applied to the document before saving, repeatable"`
	DryRun bool     `long:"dry-run" description:"Print the result instead of saving it"`
	Args   struct {
		Target string `positional-arg-name:"file" description:"primary, secondary, plugin:<name> or a path"`
	} `positional-args:"yes" required:"yes"`

	app *App
}

// Execute runs the command.
func (c *ApplyCmd) Execute(_ []string) error {
	// The current document, when the target exists, restores the nested
	// kinds JSON cannot carry.
	current, openErr := c.app.open(c.Args.Target)

	data, err := c.source(current, openErr)
	if err != nil {
		return err
	}

	for _, p := range c.Patch {
		data, err = applyPatch(data, p)
		if err != nil {
			return err
		}
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	doc.RestoreKinds(current)

	if c.DryRun {
		_, err := io.WriteString(c.app.env.Stdout, c.app.store.Reconstruct(&doc))
		return err
	}
	return c.app.store.Save(c.app.ctx, c.app.resolve(c.Args.Target), &doc)
}

func (c *ApplyCmd) source(current *document.Document, openErr error) ([]byte, error) {
	switch c.From {
	case "":
		if openErr != nil {
			return nil, openErr
		}
		return json.Marshal(current)
	case "-":
		return io.ReadAll(c.app.env.Stdin)
	default:
		return c.app.fileSystem().ReadFile(c.From)
	}
}

// applyPatch sets the JSON value after "=" at the sjson path before it.
// Field values keep their declared type when the new value can be coerced
// to it; see document.Field.UnmarshalJSON.
func applyPatch(data []byte, patch string) ([]byte, error) {
	path, raw, ok := strings.Cut(patch, "=")
	if !ok || path == "" {
		return nil, fmt.Errorf("patch %q: want path=json", patch)
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("patch %q: value is not valid JSON", patch)
	}
	out, err := sjson.SetRawBytes(data, path, []byte(raw))
	if err != nil {
		return nil, fmt.Errorf("patch %q: %w", patch, err)
	}
	return out, nil
}

// FmtCmd rewrites a file in reconstructed form.
type FmtCmd struct {
	Check  bool `long:"check" description:"Fail if the file would change instead of writing it"`
	Stdout bool `long:"stdout" description:"Print the result instead of writing it"`
	Args   struct {
		Target string `positional-arg-name:"file" description:"primary, secondary, plugin:<name> or a path"`
	} `positional-args:"yes" required:"yes"`

	app *App
}

// Execute runs the command.
func (c *FmtCmd) Execute(_ []string) error {
	doc, err := c.app.open(c.Args.Target)
	if err != nil {
		return err
	}

	out := c.app.store.Reconstruct(doc)
	switch {
	case c.Check:
		if out != doc.RawContent {
			return fmt.Errorf("%s: %w", doc.Path, ErrNotFormatted)
		}
		return nil
	case c.Stdout:
		_, err := io.WriteString(c.app.env.Stdout, out)
		return err
	default:
		return c.app.store.Save(c.app.ctx, doc.Path, doc)
	}
}

func (a *App) fileSystem() loader.FileSystem {
	if a.env.FS != nil {
		return a.env.FS
	}
	return loader.DefaultFS()
}
