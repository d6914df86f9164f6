// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/catalog"
	"github.com/jeranaias/rigchat/internal/logging"
)

func newModelsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models installed in Ollama",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.load()
			if err != nil {
				return err
			}

			// Errors are always shown here, whatever catalog.on_error says.
			fetcher := catalog.NewFetcher(newClient(cfg), cfg.Catalog.Timeout.Duration, catalog.PolicyShow, logging.Discard())
			res := fetcher.Fetch(cmd.Context())
			if res.Err != nil {
				return fmt.Errorf("%w (is Ollama running at %s?)", res.Err, cfg.Ollama.URL)
			}

			out := cmd.OutOrStdout()
			if len(res.Models) == 0 {
				fmt.Fprintln(out, "No models installed. Pull one with: ollama pull llama3")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE")
			for _, m := range res.Models {
				fmt.Fprintf(w, "%s\t%s\n", m.Name, m.HumanSize())
			}
			return w.Flush()
		},
	}
}
