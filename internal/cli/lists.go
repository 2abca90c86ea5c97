package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"household-shopping/internal/shopping"
)

// NewListsCommand groups the shopping list subcommands.
func NewListsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage your shopping lists",
	}
	cmd.AddCommand(newListsListCommand(opts))
	cmd.AddCommand(newListsShowCommand(opts))
	cmd.AddCommand(newListsCreateCommand(opts))
	cmd.AddCommand(newListsStatusCommand(opts))
	cmd.AddCommand(newListsCheckCommand(opts))
	cmd.AddCommand(newListsRemoveCommand(opts))
	return cmd
}

func newListsListCommand(opts *RootOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your shopping lists, newest first",
		Args:    cobra.NoArgs,
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

			var lists []shopping.ShoppingList
			if status == "" {
				lists, err = a.lists.ListMine(ctx)
			} else {
				var s shopping.Status
				if s, err = shopping.ParseStatus(status); err != nil {
					return NewExitError(ExitCommandError, err.Error())
				}
				lists, err = a.lists.ListByStatus(ctx, s)
			}
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(lists, renderLists(lists))
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only lists with this status (draft|ready|completed)")

	return cmd
}

func newListsShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a list with its products",
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

			d, err := a.lists.GetWithProductDetails(ctx, args[0])
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(d, renderDetailedList(d))
		},
	}
}

// ListCreateOptions holds flags for lists create.
type ListCreateOptions struct {
	*RootOptions
	Name       string
	Items      []string
	Template   string
	Multiplier float64
}

func newListsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a list from items or from a template",
		Long: `Create a list from items or from a template.

Examples:
  shopping lists create --name "Week 1" --template <id> --multiplier 3
  shopping lists create --name Quick --item <milk id>=1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.userContext(cmd)
			if err != nil {
				return err
			}
			a, err := openApp(opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.Close()

			var l *shopping.ShoppingList
			if opts.Template != "" {
				l, err = a.lists.CreateFromTemplate(ctx, opts.Name, opts.Template, opts.Multiplier)
			} else {
				entries, perr := parseEntries(opts.Items)
				if perr != nil {
					return perr
				}
				items := make([]shopping.Item, 0, len(entries))
				for _, e := range entries {
					items = append(items, shopping.Item{ProductID: e.ProductID, Quantity: e.Quantity})
				}
				l, err = a.lists.CreateList(ctx, opts.Name, items)
			}
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(l, fmt.Sprintf("Created list %s\n", l.ID))
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "list name (defaults to the template name)")
	cmd.Flags().StringArrayVarP(&opts.Items, "item", "i", nil, "productId=quantity, repeatable")
	cmd.Flags().StringVarP(&opts.Template, "template", "t", "", "template to derive the items from")
	cmd.Flags().Float64Var(&opts.Multiplier, "multiplier", 1, "quantity multiplier for --template")
	cmd.MarkFlagsMutuallyExclusive("item", "template")

	return cmd
}

func newListsStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <draft|ready|completed>",
		Short: "Move a list to another status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.userContext(cmd)
			if err != nil {
				return err
			}
			to, err := shopping.ParseStatus(args[1])
			if err != nil {
				return NewExitError(ExitCommandError, err.Error())
			}
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			l, err := a.lists.SetStatus(ctx, args[0], to)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(l, renderList(l))
		},
	}
}

func newListsCheckCommand(opts *RootOptions) *cobra.Command {
	var uncheck bool

	cmd := &cobra.Command{
		Use:   "check <id> <productId>",
		Short: "Check off an item",
		Args:  cobra.ExactArgs(2),
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

			l, err := a.lists.SetItemChecked(ctx, args[0], args[1], !uncheck)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(l, renderList(l))
		},
	}

	cmd.Flags().BoolVar(&uncheck, "uncheck", false, "clear the check mark instead")

	return cmd
}

func newListsRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a list",
		Args:    cobra.ExactArgs(1),
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

			if err := a.lists.DeleteList(ctx, args[0]); err != nil {
				return err
			}
			return opts.formatter(cmd).Success(map[string]string{"deleted": args[0]}, fmt.Sprintf("Deleted list %s\n", args[0]))
		},
	}
}
