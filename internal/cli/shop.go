package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"household-shopping/internal/apperr"
)

// stateDir keeps each user's client-local state apart.
func stateDir(opts *RootOptions) string {
	user := strings.NewReplacer("/", "_", "\\", "_", ":", "-", "..", "_").Replace(opts.User)
	return filepath.Join(opts.StateDir, user)
}

// NewShopCommand groups the commands for shopping one list at a time.
func NewShopCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Shop a ready list",
		Long: `Shop a ready list.

The active list is remembered in --state-dir between invocations. A list
that was deleted or completed elsewhere is forgotten automatically.`,
	}
	cmd.AddCommand(newShopStartCommand(opts))
	cmd.AddCommand(newShopCurrentCommand(opts))
	cmd.AddCommand(newShopCheckCommand(opts))
	cmd.AddCommand(newShopFinishCommand(opts))
	cmd.AddCommand(newShopStopCommand(opts))
	return cmd
}

func newShopStartCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start <listId>",
		Short: "Start shopping a ready list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.userContext(cmd)
			if err != nil {
				return err
			}
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()
			t, err := a.tracker(opts)
			if err != nil {
				return err
			}

			if _, err := t.Begin(ctx, args[0]); err != nil {
				return err
			}
			d, err := a.lists.GetWithProductDetails(ctx, args[0])
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(d, renderDetailedList(d))
		},
	}
}

func newShopCurrentCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the list being shopped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.userContext(cmd)
			if err != nil {
				return err
			}
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()
			t, err := a.tracker(opts)
			if err != nil {
				return err
			}

			l, err := t.Active(ctx)
			if err != nil {
				return err
			}
			if l == nil {
				return opts.formatter(cmd).Success(nil, "No active list.\n")
			}
			d, err := a.lists.GetWithProductDetails(ctx, l.ID)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(d, renderDetailedList(d))
		},
	}
}

func newShopCheckCommand(opts *RootOptions) *cobra.Command {
	var uncheck bool

	cmd := &cobra.Command{
		Use:   "check <productId>",
		Short: "Check off an item of the active list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.userContext(cmd)
			if err != nil {
				return err
			}
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()
			t, err := a.tracker(opts)
			if err != nil {
				return err
			}

			l, err := t.Active(ctx)
			if err != nil {
				return err
			}
			if l == nil {
				return apperr.NotFound("shop.check", "", "active list")
			}
			if _, err := a.lists.SetItemChecked(ctx, l.ID, args[0], !uncheck); err != nil {
				return err
			}
			d, err := a.lists.GetWithProductDetails(ctx, l.ID)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(d, renderDetailedList(d))
		},
	}

	cmd.Flags().BoolVar(&uncheck, "uncheck", false, "clear the check mark instead")

	return cmd
}

func newShopFinishCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "finish",
		Short: "Complete the active list and stop shopping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.userContext(cmd)
			if err != nil {
				return err
			}
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()
			t, err := a.tracker(opts)
			if err != nil {
				return err
			}

			l, err := t.Finish(ctx)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(l, fmt.Sprintf("Completed %s: %d/%d checked\n", l.Name, l.CheckedCount(), len(l.Items)))
		},
	}
}

func newShopStopCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop shopping without completing the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.userContext(cmd); err != nil {
				return err
			}
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()
			t, err := a.tracker(opts)
			if err != nil {
				return err
			}

			if err := t.Stop(cmd.Context()); err != nil {
				return err
			}
			return opts.formatter(cmd).Success(nil, "Stopped shopping.\n")
		},
	}
}
