package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/dom"
	"github.com/dshills/inkwell/internal/fixture"
	"github.com/dshills/inkwell/internal/history"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/view"
)

// options holds the persistent flags.
type options struct {
	configPath string
	logLevel   string
	yamlOut    bool
}

func rootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "inkwell",
		Short:         "Render and replay rich-text editor documents",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pflags := cmd.PersistentFlags()
	pflags.StringVarP(&opts.configPath, "config", "c", "", "Path to a TOML or YAML configuration file")
	pflags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	pflags.BoolVar(&opts.yamlOut, "yaml", false, "Print the resulting document as YAML instead of HTML")

	cmd.AddCommand(renderCmd(&opts))
	cmd.AddCommand(replayCmd(&opts))
	return cmd
}

// session is a mounted view over a document file.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	view   *view.View
}

func openSession(opts *options, docPath string) (*session, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		if _, err := logging.ParseLevel(opts.logLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = opts.logLevel
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	f, err := fixture.ReadDocument(docPath)
	if err != nil {
		return nil, err
	}
	reg := cfg.Registry()
	doc, err := f.Document(cfg.IDGenerator(), reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", docPath, err)
	}
	sel, err := f.InitialSelection(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", docPath, err)
	}

	s := state.Create(state.Config{Doc: doc, Selection: sel, Schema: reg})
	v := view.New(dom.Element("div", "class", "inkwell"), s,
		view.WithLogger(logger),
		view.WithHistory(history.New(cfg.History.MaxDepth)),
		view.WithSelectionAPI(dom.NewHeadless()),
		view.WithSelectionSync(cfg.View.SyncSelection),
	)
	if err := v.Mount(); err != nil {
		return nil, err
	}
	logger.Debug("document loaded", zap.String("path", docPath), zap.Int("blocks", len(doc.Children)))
	return &session{cfg: cfg, logger: logger, view: v}, nil
}

func (s *session) close() {
	s.view.Destroy()
	_ = s.logger.Sync()
}

// write prints the view's document as HTML, or as YAML when asked.
func (s *session) write(cmd *cobra.Command, opts *options) error {
	out := cmd.OutOrStdout()
	if opts.yamlOut {
		st := s.view.State()
		return fixture.Encode(out, fixture.FromDocument(st.Doc(), st.Selection()))
	}
	_, err := fmt.Fprintln(out, dom.RenderChildren(s.view.Root()))
	return err
}
