package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridbook/gridbook/internal/common"
	"github.com/gridbook/gridbook/internal/config"
)

func noteCmd() *cobra.Command {
	var driverName string

	cmd := &cobra.Command{
		Use:   "note <customer-id> <text>...",
		Short: "Set the free-text note on a driver",
		Long:  `Replace a driver's note. An empty text clears it.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := strconv.Atoi(args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("invalid customer id %q", args[0]), err)
			}
			text := strings.Join(args[1:], " ")

			settings, err := config.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := openStore(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			tr := newTracker(ctx, store, settings)
			rep := tr.SetNotes(customerID, driverName, text)

			if tr.Flush(ctx, true) == 0 {
				return fmt.Errorf("failed to save note for customer id %d", customerID)
			}

			if text == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared note for %s (%d)\n", orDash(rep.UserName), rep.CustomerID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Noted %s (%d): %s\n", orDash(rep.UserName), rep.CustomerID, text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&driverName, "name", "", "driver name to record when annotating someone new")

	return cmd
}
