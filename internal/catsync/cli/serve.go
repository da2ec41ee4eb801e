package cli

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/config"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog service",
	Long:  `Starts the HTTP control surface and serves catalog queries, sync triggers, health, and metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		slog := log.With().Str("state", "init").Logger()

		orc, metrics, err := setupEngine(cmd.Context())
		if err != nil {
			return err
		}
		s, err := server.CreateNewServer(orc, metrics)
		if err != nil {
			return fmt.Errorf("unable to create server: %w", err)
		}
		s.MountHandlers()

		port := config.Config().ServerPort
		slog.Info().Str("port", port).Msg("starting catalog service")
		return http.ListenAndServe(":"+port, s.Router)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
