package main

import (
	"context"
	"fmt"
	"github.com/ougirez/amrmap/internal/pkg/config"
	"github.com/ougirez/amrmap/internal/pkg/logger"
	"github.com/ougirez/amrmap/internal/pkg/store"
	"github.com/ougirez/amrmap/internal/pkg/store/xpgx"
	"github.com/spf13/cobra"
	"os"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "amrmap",
	Short:         "Genomic surveillance dashboard backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		return logger.Init(cfg.Logging.Level)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(tokenCmd)
}

// openStore connects to postgres and makes sure the schema exists.
func openStore(ctx context.Context) (store.Store, func(), error) {
	pool, err := xpgx.NewPool(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("xpgx.NewPool: %w", err)
	}

	st := store.NewStore(pool)
	if err = st.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return st, pool.Close, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
