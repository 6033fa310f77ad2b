package config

import (
	"go.uber.org/multierr"

	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/schema"
)

// Schema names accepted by ViewConfig.Schema.
const (
	SchemaBasic = "basic"
	SchemaNone  = "none"
)

// Config holds all editor settings.
type Config struct {
	History HistoryConfig  `toml:"history" yaml:"history"`
	Log     logging.Config `toml:"log" yaml:"log"`
	View    ViewConfig     `toml:"view" yaml:"view"`
	Marks   MarksConfig    `toml:"marks" yaml:"marks"`
}

// HistoryConfig configures undo.
type HistoryConfig struct {
	// MaxDepth is the number of undo entries kept.
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
}

// ViewConfig configures the editor view.
type ViewConfig struct {
	// IDPrefix is prepended to generated block ids.
	IDPrefix string `toml:"id_prefix" yaml:"id_prefix"`
	// Schema is basic or none.
	Schema string `toml:"schema" yaml:"schema"`
	// SyncSelection pushes the model selection into the DOM after updates.
	SyncSelection bool `toml:"sync_selection" yaml:"sync_selection"`
}

// MarksConfig overrides mark nesting ranks.
type MarksConfig struct {
	Ranks map[string]int `toml:"ranks" yaml:"ranks"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		History: HistoryConfig{MaxDepth: 100},
		Log:     logging.DefaultConfig(),
		View: ViewConfig{
			IDPrefix:      model.DefaultIDPrefix,
			Schema:        SchemaBasic,
			SyncSelection: true,
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	if c.History.MaxDepth <= 0 {
		err = multierr.Append(err, &ValidationError{Path: "history.max_depth", Message: "must be positive", Value: c.History.MaxDepth})
	}
	if _, lerr := logging.ParseLevel(c.Log.Level); lerr != nil {
		err = multierr.Append(err, &ValidationError{Path: "log.level", Message: "must be debug, info, warn or error", Value: c.Log.Level})
	}
	switch c.Log.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		err = multierr.Append(err, &ValidationError{Path: "log.format", Message: "must be console or json", Value: c.Log.Format})
	}
	switch c.View.Schema {
	case SchemaBasic, SchemaNone:
	default:
		err = multierr.Append(err, &ValidationError{Path: "view.schema", Message: "must be basic or none", Value: c.View.Schema})
	}
	for name := range c.Marks.Ranks {
		if _, perr := model.ParseMarkType(name); perr != nil {
			err = multierr.Append(err, &ValidationError{Path: "marks.ranks", Message: "invalid mark type", Value: name})
		}
	}
	return err
}

// Registry returns the schema registry the settings describe, with mark
// rank overrides applied. SchemaNone gives an empty registry.
func (c *Config) Registry() *schema.Registry {
	reg := schema.NewRegistry()
	if c.View.Schema != SchemaNone {
		reg = schema.Basic()
	}
	c.ApplyMarkRanks(reg)
	return reg
}

// ApplyMarkRanks writes the rank overrides into reg.
func (c *Config) ApplyMarkRanks(reg *schema.Registry) {
	for name, rank := range c.Marks.Ranks {
		reg.SetMarkRank(model.MarkType(name), rank)
	}
}

// IDGenerator returns a block id generator using the configured prefix.
func (c *Config) IDGenerator() model.IDGenerator {
	return model.NewULIDGenerator(model.WithPrefix(c.View.IDPrefix))
}
