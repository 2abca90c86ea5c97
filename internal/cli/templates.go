package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"household-shopping/internal/templates"
)

// NewTemplatesCommand groups the template subcommands.
func NewTemplatesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage your templates",
	}
	cmd.AddCommand(newTemplatesListCommand(opts))
	cmd.AddCommand(newTemplatesShowCommand(opts))
	cmd.AddCommand(newTemplatesCreateCommand(opts))
	cmd.AddCommand(newTemplatesRemoveCommand(opts))
	return cmd
}

func newTemplatesListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your templates",
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

			list, err := a.templates.ListTemplates(ctx)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(list, renderTemplates(list))
		},
	}
}

func newTemplatesShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one template",
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

			t, err := a.templates.GetTemplate(ctx, args[0])
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(t, renderTemplate(t))
		},
	}
}

// TemplateCreateOptions holds flags for templates create.
type TemplateCreateOptions struct {
	*RootOptions
	Name        string
	Description string
	Type        string
	Products    []string
}

func newTemplatesCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TemplateCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a template",
		Long: `Create a template.

Example:
  shopping templates create --name Breakfast --type meal \
    --product <milk id>=1 --product <bread id>=1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.userContext(cmd)
			if err != nil {
				return err
			}
			entries, err := parseEntries(opts.Products)
			if err != nil {
				return err
			}
			a, err := openApp(opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.templates.CreateTemplate(ctx, templates.Input{
				Name:        opts.Name,
				Description: opts.Description,
				Type:        opts.Type,
				Products:    entries,
			})
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(t, fmt.Sprintf("Created template %s\n", t.ID))
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "template name")
	cmd.Flags().StringVar(&opts.Description, "description", "", "template description")
	cmd.Flags().StringVar(&opts.Type, "type", string(templates.TypeSet), "template type (meal|set)")
	cmd.Flags().StringArrayVarP(&opts.Products, "product", "p", nil, "productId=quantity, repeatable")

	return cmd
}

func newTemplatesRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a template",
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

			if err := a.templates.DeleteTemplate(ctx, args[0]); err != nil {
				return err
			}
			return opts.formatter(cmd).Success(map[string]string{"deleted": args[0]}, fmt.Sprintf("Deleted template %s\n", args[0]))
		},
	}
}
