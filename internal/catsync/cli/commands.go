// Package cli wires the sync engine together and exposes it as commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/config"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/observability"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/orchestrator"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/reconciler"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/satnogs"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/spacetrack"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aetherlinkd",
	Short: "AetherLink catalog synchronization engine",
	Long: `AetherLink keeps a local catalog of Earth-orbiting objects in sync with
public upstream sources. It can run as a long-lived HTTP service or perform
a one-shot synchronization from the command line.`,
	PersistentPreRunE: loadConfigFile,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to configuration file to override defaults")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfigFile(cmd *cobra.Command, args []string) error {
	if err := config.LoadConfig(configFile); err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}
	return nil
}

// setupEngine builds the full sync pipeline: database pool, metrics,
// upstream adapters, reconciler, and orchestrator.
func setupEngine(ctx context.Context) (*orchestrator.Orchestrator, *observability.SyncCollector, error) {
	cfg := config.Config()

	if err := db.Init(ctx, cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("unable to initialize database: %w", err)
	}

	metrics, err := observability.NewSyncCollector(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to register metrics: %w", err)
	}

	store := db.PooledStore{}
	orc := orchestrator.New(orchestrator.Params{
		Reconciler: reconciler.New(store, cfg.Sync.WatermarkPolicy),
		Sources: []reconciler.Source{
			spacetrack.New(&cfg.SpaceTrack),
			satnogs.New(&cfg.SatNOGS),
		},
		Metrics:       metrics,
		Counter:       store,
		RunTimeout:    cfg.Sync.GetRunTimeout(),
		LogBufferSize: cfg.Sync.LogBufferSize,
	})
	return orc, metrics, nil
}
