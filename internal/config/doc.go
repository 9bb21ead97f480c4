// Package config provides the document store for the bot's TOML
// configuration files.
//
// The store loads the primary and secondary configuration files and every
// plugin's configuration file into editable documents, and writes edited
// documents back as TOML.
//
// # Architecture
//
// A document passes through the sub-packages in order:
//
//	raw TOML ──► loader ──► document.Extract ──► Document ──► document.Reconstruct ──► TOML
//	                 │              ▲
//	                 └── comment ───┘
//
// # Sub-packages
//
//   - value: the typed value model, its TOML rendering and JSON form
//   - comment: recovery of section and field comments from raw text
//   - loader: TOML decoding, key order recovery and the FileSystem abstraction
//   - document: extraction of sections and fields, and reconstruction
//   - watcher: change notification for live reload
//
// # Basic Usage
//
// Load the primary configuration and save an edit:
//
//	store := config.New(config.DefaultPaths())
//	doc, err := store.LoadPrimary(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := doc.Set("bot", "qq", value.Integer(12345)); err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.Save(ctx, doc.Path, doc); err != nil {
//	    log.Fatal(err)
//	}
//
// # Plugin Configuration
//
// Each immediate subdirectory of the plugins directory that contains the
// plugin configuration file is one plugin:
//
//	plugins/
//	├── weather/config.toml
//	└── echo/config.toml
//
// ListPluginDocuments parses them concurrently. A plugin whose file cannot
// be read or parsed is logged and left out of the result.
//
// # Lossy Reconstruction
//
// Reconstruction writes only sections, fields and the comments the
// extractor recovered. Formatting, blank lines, key quoting and comments
// not attached to a section or field are lost. Top-level values get a
// header named after themselves, nested tables are written as {} and
// array-of-table fields keep their "[i].key" names, which makes such output
// invalid TOML. WithReconstructOptions(document.WithPreserveShape()) trades
// the canonical form for output that keeps those shapes.
//
// # Error Handling
//
// The package defines several error types:
//
//   - ErrRead: a configuration file could not be read
//   - ErrWrite: a configuration file could not be written
//   - ErrSyntax: a configuration file is not valid TOML
//   - PathError: an I/O failure on a specific path, matching ErrRead or ErrWrite
package config
