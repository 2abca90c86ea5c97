package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"household-shopping/internal/config"
	"household-shopping/internal/identity"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Database string
	User     string
	StateDir string
	Verbose  bool
	Format   string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the shopping CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "shopping",
		Short: "Household shopping lists",
		Long:  "Manage the product catalog, templates and shopping lists, and shop a list from the terminal.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", config.EnvOr("DATABASE_PATH", "data/shopping.db"), "path to SQLite database")
	cmd.PersistentFlags().StringVarP(&opts.User, "user", "u", config.EnvOr("SHOPPING_USER", ""), "user id the command acts as")
	cmd.PersistentFlags().StringVar(&opts.StateDir, "state-dir", config.EnvOr("STATE_DIR", "data/state"), "directory for client-local state")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewMetricsCleanupCommand(opts))
	cmd.AddCommand(NewTemplatesCommand(opts))
	cmd.AddCommand(NewListsCommand(opts))
	cmd.AddCommand(NewShopCommand(opts))

	return cmd
}

// Execute runs the CLI and returns the process exit code. Failures are
// reported on errOut in the selected format.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	format := "text"
	if f := cmd.PersistentFlags().Lookup("format"); f != nil && f.Value.String() == "json" {
		format = "json"
	}
	f := &OutputFormatter{Format: format, Writer: errOut}
	_ = f.Error(errorCode(err), err.Error(), nil)
	return GetExitCode(err)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// userContext returns the command context acting as --user.
func (o *RootOptions) userContext(cmd *cobra.Command) (context.Context, error) {
	if o.User == "" {
		return nil, NewExitError(ExitCommandError, "--user is required for this command")
	}
	return identity.WithUserID(cmd.Context(), o.User), nil
}
