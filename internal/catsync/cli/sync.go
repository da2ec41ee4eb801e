package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var fullRefresh bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronization cycle and exit",
	Long:  `Fetches from every configured upstream, merges the results into the catalog, and prints a run summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		orc, _, err := setupEngine(cmd.Context())
		if err != nil {
			return err
		}

		if _, err := orc.StartSync(cmd.Context(), fullRefresh); err != nil {
			return err
		}
		orc.Wait()

		status := orc.Status()
		if status.LastSummary == nil {
			return errors.New("sync run produced no summary")
		}
		out, jerr := json.MarshalIndent(status.LastSummary, "", "  ")
		if jerr != nil {
			return jerr
		}
		fmt.Println(string(out))

		if !status.LastSummary.Succeeded {
			return errors.New("sync run failed")
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&fullRefresh, "full", false, "Ignore watermarks and refetch everything")
	rootCmd.AddCommand(syncCmd)
}
