package main

import (
	"fmt"
	"github.com/ougirez/amrmap/internal/pkg/metrics"
	"github.com/ougirez/amrmap/internal/service/ingest"
	"github.com/spf13/cobra"
	"os"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a JSON array of samples into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		st, closeStore, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		svc := ingest.NewIngestService(st, ingest.Options{}, nil)
		resp, err := svc.ImportReader(cmd.Context(), f, metrics.SourceFile)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "batch %s: %d received, %d inserted\n", resp.BatchID, resp.Received, resp.Inserted)
		return nil
	},
}
