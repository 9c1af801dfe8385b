package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPrintCmd(root *rootOptions) *cobra.Command {
	var (
		format   string
		capsOnly bool
		reveal   bool
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if !reveal {
				cfg = cfg.Sanitized()
			}

			var out interface{} = cfg
			if capsOnly {
				out = cfg.Caps
			}
			return writeFormatted(cmd.OutOrStdout(), format, out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&capsOnly, "caps", false, "print only the capabilities object")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print credentials instead of redacting them")
	return cmd
}

func writeFormatted(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (allowed: json, yaml)", format)
	}
}
