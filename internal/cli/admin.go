package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"household-shopping/internal/catalog"
	"household-shopping/internal/config"
	"household-shopping/internal/identity"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return opts.formatter(cmd).Success(map[string]string{"database": opts.Database},
				fmt.Sprintf("Database %s is up to date.\n", opts.Database))
		},
	}
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Load catalog products from a YAML file",
		Long: `Load catalog products from a YAML file.

Products without an id get one derived from their name, so seeding the
same file twice leaves the catalog unchanged.

Example file:
  products:
    - name: Milk
      unit: ml
    - id: bread
      name: Bread
      unit: piece`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := catalog.LoadSeedFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load seed file", err)
			}
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.catalog.Seed(cmd.Context(), products)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(map[string]int{"seeded": n},
				fmt.Sprintf("Seeded %d products.\n", n))
		},
	}
}

// ProductsOptions holds flags for the products command.
type ProductsOptions struct {
	*RootOptions
	Add    string
	Unit   string
	Remove string
}

// NewProductsCommand lists the catalog, or adds/removes one product.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List, add or remove catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.Close()
			out := opts.formatter(cmd)

			switch {
			case opts.Add != "":
				unit, err := catalog.ParseUnit(opts.Unit)
				if err != nil {
					return NewExitError(ExitCommandError, err.Error())
				}
				p, err := a.catalog.AddProduct(cmd.Context(), opts.Add, unit)
				if err != nil {
					return err
				}
				return out.Success(p, fmt.Sprintf("Added %s (%s) as %s\n", p.Name, p.Unit, p.ID))
			case opts.Remove != "":
				if err := a.catalog.RemoveProduct(cmd.Context(), opts.Remove); err != nil {
					return err
				}
				return out.Success(map[string]string{"removed": opts.Remove}, fmt.Sprintf("Removed %s\n", opts.Remove))
			}

			products, err := a.catalog.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			return out.Success(products, renderProducts(products))
		},
	}

	cmd.Flags().StringVar(&opts.Add, "add", "", "name of a product to add")
	cmd.Flags().StringVar(&opts.Unit, "unit", "piece", "unit of the added product (ml|g|piece)")
	cmd.Flags().StringVar(&opts.Remove, "remove", "", "id of a product to remove")
	cmd.MarkFlagsMutuallyExclusive("add", "remove")

	return cmd
}

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	Secret string
	Issuer string
	TTL    time.Duration
}

// NewTokenCommand issues a bearer token for the HTTP API.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token <user>",
		Short: "Issue an API bearer token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Secret == "" {
				return NewExitError(ExitCommandError, "--secret or JWT_SECRET is required")
			}
			token, err := identity.NewJWTVerifier([]byte(opts.Secret), opts.Issuer).Issue(args[0], opts.TTL)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(map[string]string{"token": token}, token+"\n")
		},
	}

	cmd.Flags().StringVar(&opts.Secret, "secret", config.EnvOr("JWT_SECRET", ""), "HMAC signing secret")
	cmd.Flags().StringVar(&opts.Issuer, "issuer", config.EnvOr("JWT_ISSUER", "household-shopping"), "token issuer")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 30*24*time.Hour, "token lifetime")

	return cmd
}

// NewMetricsCleanupCommand deletes old operation metrics.
func NewMetricsCleanupCommand(opts *RootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Delete operation metrics older than --days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return NewExitError(ExitCommandError, "--days must be at least 1")
			}
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.metrics.Cleanup(cmd.Context(), days)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(map[string]int64{"deleted": n},
				fmt.Sprintf("Deleted %d metrics older than %d days.\n", n, days))
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "retention in days")

	return cmd
}
