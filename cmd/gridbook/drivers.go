package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridbook/gridbook/internal/cli"
	"github.com/gridbook/gridbook/internal/common"
	"github.com/gridbook/gridbook/internal/config"
	"github.com/gridbook/gridbook/internal/model"
	"github.com/gridbook/gridbook/internal/service"
)

func driversCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Browse the reputation book",
	}

	cmd.AddCommand(driversListCmd())
	cmd.AddCommand(driversShowCmd())

	return cmd
}

func driversListCmd() *cobra.Command {
	var trustFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every driver on record",
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			renderDriverList(cmd.OutOrStdout(), tr, trustFilter)
			return nil
		},
	}

	cmd.Flags().StringVar(&trustFilter, "trust", "", "only show drivers at this trust level (avoid, caution, neutral, trusted)")

	return cmd
}

func driversShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <customer-id>",
		Short: "Show one driver's full record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid customer id %q", args[0])
			}

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

			rep, err := store.Get(ctx, customerID)
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no record for customer id %d", customerID)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.TitleStyle.Render(fmt.Sprintf("%s (%d)", rep.UserName, rep.CustomerID)))
			fmt.Fprintf(out, "Trust:      %s\n", cli.RenderTrust(rep.TrustLevel))
			fmt.Fprintf(out, "Tags:       %s\n", renderTags(rep))
			fmt.Fprintf(out, "Encounters: %d\n", rep.EncounterCount)
			fmt.Fprintf(out, "Last seen:  %s\n", orDash(rep.LastSeen))
			if !rep.LastUpdated.IsZero() {
				fmt.Fprintf(out, "Updated:    %s\n", rep.LastUpdated.Format("2006-01-02 15:04"))
			}
			if rep.Notes != "" {
				fmt.Fprintf(out, "Notes:      %s\n", rep.Notes)
			}
			return nil
		},
	}
}

func renderDriverList(out io.Writer, src service.ReputationSource, trustFilter string) {
	header := fmt.Sprintf("%-10s %-28s %-8s %-12s %s", "ID", "Driver", "Trust", "Last seen", "Tags")
	fmt.Fprintln(out, cli.TableHeaderStyle.Render(header))

	shown := 0
	for _, rep := range src.Reputations() {
		if trustFilter != "" && !strings.EqualFold(rep.TrustLevel.String(), trustFilter) {
			continue
		}
		fmt.Fprintf(out, "%-10d %-28s %-8s %-12s %s\n",
			rep.CustomerID,
			truncate(rep.UserName, 28),
			cli.RenderTrust(rep.TrustLevel),
			orDash(rep.LastSeen),
			renderTags(rep),
		)
		shown++
	}

	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d driver(s)", shown)))
}

func renderTags(rep *model.Reputation) string {
	behaviors := rep.Behaviors()
	if len(behaviors) == 0 {
		return "-"
	}
	names := make([]string, 0, len(behaviors))
	for _, b := range behaviors {
		names = append(names, b.String())
	}
	return strings.Join(names, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
