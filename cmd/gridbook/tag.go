package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridbook/gridbook/internal/cli"
	"github.com/gridbook/gridbook/internal/common"
	"github.com/gridbook/gridbook/internal/config"
	"github.com/gridbook/gridbook/internal/model"
)

func tagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Add or remove behavior tags",
		Long: `Tag a driver by customer id. Available tags: clean, good-racer,
aggressive, dirty, rammer, blocking, unsafe-rejoin, rookie.`,
	}

	cmd.AddCommand(tagMutationCmd("add"))
	cmd.AddCommand(tagMutationCmd("remove"))

	return cmd
}

func tagMutationCmd(verb string) *cobra.Command {
	var driverName string

	short := "Add a behavior tag to a driver"
	if verb == "remove" {
		short = "Remove a behavior tag from a driver"
	}

	cmd := &cobra.Command{
		Use:   verb + " <customer-id> <tag>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := strconv.Atoi(args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("invalid customer id %q", args[0]), err)
			}
			behavior, ok := model.ParseBehavior(strings.ToLower(args[1]))
			if !ok {
				return common.NewUserError(fmt.Sprintf("unknown tag %q, see 'gridbook tag --help'", args[1]), nil)
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

			tr := newTracker(ctx, store, settings)

			var rep *model.Reputation
			if verb == "add" {
				rep = tr.AddBehavior(customerID, driverName, behavior)
			} else {
				rep = tr.RemoveBehavior(customerID, driverName, behavior)
			}

			if tr.Flush(ctx, true) == 0 {
				return fmt.Errorf("failed to save tag for customer id %d", customerID)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d): %s | trust %s\n",
				orDash(rep.UserName), rep.CustomerID, renderTags(rep), cli.RenderTrust(rep.TrustLevel))
			return nil
		},
	}

	cmd.Flags().StringVar(&driverName, "name", "", "driver name to record when tagging someone new")

	return cmd
}
