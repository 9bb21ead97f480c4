package cli

import (
	"fmt"
	"time"

	"github.com/dshills/tomlkeeper/internal/config/document"
	"github.com/dshills/tomlkeeper/internal/config/watcher"
)

// WatchCmd reloads a file on every change until interrupted.
type WatchCmd struct {
	Debounce time.Duration `long:"debounce" default:"100ms" description:"Quiet period before a change is reported"`
	Args     struct {
		Target string `positional-arg-name:"file" description:"primary, secondary, plugin:<name> or a path"`
	} `positional-args:"yes" required:"yes"`

	app *App
}

// Execute runs the command.
func (c *WatchCmd) Execute(_ []string) error {
	path := c.app.resolve(c.Args.Target)
	out := c.app.env.Stdout

	report := func(doc *document.Document, err error) {
		if err != nil {
			c.app.logger.Warn("reload failed", "path", path, "error", err)
			return
		}
		fields := 0
		for _, s := range doc.Sections {
			fields += len(s.Fields)
		}
		fmt.Fprintf(out, "%s reloaded %s: %d sections, %d fields\n",
			time.Now().Format(time.TimeOnly), doc.Filename, len(doc.Sections), fields)
	}

	c.app.logger.Info("watching config file", "path", path)
	return c.app.store.Watch(c.app.ctx, path, report, watcher.WithDebounce(c.Debounce))
}
