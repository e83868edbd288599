package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tim-martinez/node-form/internal/client"
	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/repository"
)

var submissionsLocal bool

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Print stored submissions as JSON",
	Long: `Prints every stored submission in storage order.

By default the records are fetched from the server. With --local the
configured store is read directly.`,
	Args: cobra.NoArgs,
	RunE: runSubmissions,
}

func init() {
	submissionsCmd.Flags().BoolVar(&submissionsLocal, "local", false, "Read the configured store directly")
}

func runSubmissions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	var (
		subs []models.Submission
		err  error
	)
	if submissionsLocal {
		store, openErr := repository.Open(ctx, cfg.Store, logger)
		if openErr != nil {
			return openErr
		}
		defer store.Close()
		subs, err = store.List(ctx)
	} else {
		subs, err = client.New(cfg.Client.ServerURL, nil).List(ctx)
	}
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	out, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
