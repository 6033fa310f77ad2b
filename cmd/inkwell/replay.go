package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/fixture"
	"github.com/dshills/inkwell/internal/plugin/lua"
)

func replayCmd(opts *options) *cobra.Command {
	var caps []string
	cmd := &cobra.Command{
		Use:   "replay <doc.yaml> <script.yaml|script.lua>",
		Short: "Apply a script to a document and print the result",
		Long: `Apply a script to a document through a mounted view and print the result.

YAML scripts list operations (insert_text, delete_text, add_mark, remove_mark,
split_block, set_cursor, toggle_mark, delete_backward, set_block_type, undo,
redo). Lua scripts drive the same editor through require("editor").`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args[0])
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.replay(cmd, args[1], caps); err != nil {
				return err
			}
			if err := s.write(cmd, opts); err != nil {
				return err
			}
			h := s.view.History()
			fmt.Fprintf(cmd.ErrOrStderr(), "undo depth %d, redo depth %d\n", h.UndoDepth(), h.RedoDepth())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&caps, "capabilities", []string{string(lua.CapabilityEditor)}, "Capabilities granted to Lua scripts")
	return cmd
}

func (s *session) replay(cmd *cobra.Command, path string, capNames []string) error {
	if strings.EqualFold(filepath.Ext(path), ".lua") {
		caps := make([]lua.Capability, 0, len(capNames))
		for _, name := range capNames {
			c, err := lua.ParseCapability(name)
			if err != nil {
				return err
			}
			caps = append(caps, c)
		}
		rt, err := lua.NewRuntime(s.view,
			lua.WithCapabilities(caps...),
			lua.WithIDGenerator(s.cfg.IDGenerator()),
			lua.WithLogger(s.logger),
			lua.WithOutput(cmd.ErrOrStderr()),
		)
		if err != nil {
			return err
		}
		defer rt.Close()
		return rt.RunFile(cmd.Context(), path)
	}

	script, err := fixture.ReadScript(path)
	if err != nil {
		return err
	}
	s.logger.Debug("replaying script", zap.String("path", path), zap.Int("ops", len(script.Ops)))
	if err := script.Run(s.view, s.cfg.IDGenerator()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
