package cli

import "github.com/dshills/tomlkeeper/internal/config"

// Options is the root for the CLI. Struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Primary    string `long:"primary" env:"TOMLKEEPER_PRIMARY" description:"Primary configuration file"`
	Secondary  string `long:"secondary" env:"TOMLKEEPER_SECONDARY" description:"Secondary configuration file"`
	PluginsDir string `long:"plugins" env:"TOMLKEEPER_PLUGINS" description:"Directory holding one subdirectory per plugin"`
	PluginFile string `long:"plugin-file" env:"TOMLKEEPER_PLUGIN_FILE" description:"Configuration file name inside each plugin directory"`

	LogLevel      string `long:"log-level" env:"TOMLKEEPER_LOG_LEVEL" default:"warn" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
	PreserveShape bool   `long:"preserve-shape" description:"Write root values, arrays of tables and nested tables in their TOML shape"`
	Concurrency   int    `long:"concurrency" default:"4" description:"Plugin files parsed at once"`

	Show    ShowCmd    `command:"show"    description:"Print a document as JSON or YAML"`
	Plugins PluginsCmd `command:"plugins" description:"Print every plugin document"`
	List    ListCmd    `command:"list"    description:"Print a table of fields with their types and comments"`
	Get     GetCmd     `command:"get"     description:"Print one field value"`
	Set     SetCmd     `command:"set"     description:"Replace one field value and save"`
	Apply   ApplyCmd   `command:"apply"   description:"Save a JSON document to a file"`
	Fmt     FmtCmd     `command:"fmt"     description:"Rewrite a file in reconstructed form"`
	Diff    DiffCmd    `command:"diff"    description:"Show what reconstruction would change"`
	Watch   WatchCmd   `command:"watch"   description:"Reload a file on every change"`
	Version VersionCmd `command:"version" description:"Print version information"`
}

// newOptions returns Options with store defaults and every command bound
// to app.
func newOptions(app *App) *Options {
	defaults := config.DefaultPaths()
	o := &Options{
		Primary:    defaults.Primary,
		Secondary:  defaults.Secondary,
		PluginsDir: defaults.PluginsDir,
		PluginFile: defaults.PluginFile,
	}
	o.Show.app = app
	o.Plugins.app = app
	o.List.app = app
	o.Get.app = app
	o.Set.app = app
	o.Apply.app = app
	o.Fmt.app = app
	o.Diff.app = app
	o.Watch.app = app
	o.Version.app = app
	return o
}

// Version information (set via ldflags during build).
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
