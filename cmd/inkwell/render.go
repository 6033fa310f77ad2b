package main

import (
	"github.com/spf13/cobra"
)

func renderCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "render <doc.yaml>",
		Short: "Mount a document and print the rendered HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args[0])
			if err != nil {
				return err
			}
			defer s.close()
			return s.write(cmd, opts)
		},
	}
}
