package main

import (
	"cart_service/config"
	"cart_service/internal/domain"
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Fetch the catalog once through the configured source and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(os.Stderr)
			cfg := config.LoadConfig(logger)
			applyLogLevel(logger, cfg.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.CatalogTimeout)
			defer cancel()

			source, closeSource, err := newCatalogSource(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeSource()

			products, err := source.FetchProducts(ctx)
			if err != nil {
				return fmt.Errorf("fetch catalog: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "TITLE\tPRICE\t")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t\n", p.Title, domain.FormatAmount(p.Price))
			}
			fmt.Fprintf(w, "%d products\t\t\n", len(products))
			return w.Flush()
		},
	}
}
