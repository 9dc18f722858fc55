package main

import (
	"fmt"
	"github.com/bytedance/sonic"
	"github.com/ougirez/amrmap/internal/aggregate"
	"github.com/ougirez/amrmap/internal/domain"
	"github.com/ougirez/amrmap/internal/format"
	"github.com/ougirez/amrmap/internal/service/ingest"
	"github.com/spf13/cobra"
	"os"
)

var aggregateFlags struct {
	file        string
	organism    string
	timeInitial int
	timeFinal   int
	country     string
	mapView     string
}

// aggregateCmd works on a local file and never touches the database.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate a local samples file and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(aggregateFlags.file)
		if err != nil {
			return err
		}
		defer f.Close()

		records, err := ingest.NewIngestService(nil, ingest.Options{}, nil).DecodeRecords(f)
		if err != nil {
			return err
		}

		filters := domain.Filters{
			TimeInitial: aggregateFlags.timeInitial,
			TimeFinal:   aggregateFlags.timeFinal,
			Country:     aggregateFlags.country,
			Organism:    aggregateFlags.organism,
		}
		agg, err := aggregate.New(aggregate.Options{MinSamples: cfg.Dashboard.MinSamples}).Aggregate(records, filters)
		if err != nil {
			return err
		}

		var out interface{} = agg
		if aggregateFlags.mapView != "" {
			view, err := domain.ParseMapView(aggregateFlags.mapView)
			if err != nil {
				return err
			}
			formatter, err := format.New(cfg.Formatter)
			if err != nil {
				return err
			}
			out = formatter.FormatMap(agg, view)
		}

		enc := sonic.ConfigStd.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err = enc.Encode(out); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	},
}

func init() {
	flags := aggregateCmd.Flags()
	flags.StringVarP(&aggregateFlags.file, "file", "f", "", "JSON array of samples")
	flags.StringVar(&aggregateFlags.organism, "organism", "", "organism (all when empty)")
	flags.IntVar(&aggregateFlags.timeInitial, "from", 1900, "first year")
	flags.IntVar(&aggregateFlags.timeFinal, "to", 2100, "last year")
	flags.StringVar(&aggregateFlags.country, "country", domain.AllCountries, "country filter for the graph rows")
	flags.StringVar(&aggregateFlags.mapView, "map-view", "", "print the formatted map view instead of the raw aggregate")
	_ = aggregateCmd.MarkFlagRequired("file")
}
