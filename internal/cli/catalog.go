package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Misfitd4/b99pack/internal/catalog"
)

// CatalogOptions holds flags shared by the catalog subcommands.
type CatalogOptions struct {
	*RootOptions
	Database string
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the bundle catalog",
		Long:  "List and remove bundle entries recorded with pack --catalog.",
	}

	cmd.AddCommand(newCatalogListCommand(rootOpts))
	cmd.AddCommand(newCatalogRemoveCommand(rootOpts))

	return cmd
}

func newCatalogListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List cataloged bundles, newest first",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the catalog database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func newCatalogRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "rm <id>",
		Short:         "Remove a bundle entry from the catalog",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogRemove(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the catalog database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runCatalogList(opts *CatalogOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cat, err := catalog.Open(opts.Database)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeCatalog, fmt.Sprintf("opening catalog: %v", err))
	}
	defer func() { _ = cat.Close() }()

	entries, err := cat.List(cmd.Context())
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeCatalog, fmt.Sprintf("listing bundles: %v", err))
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "catalog is empty")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%s  %s  %d SSF(s)  %d trigger(s)  %d byte(s)  %s\n",
			e.ID, e.CreatedAt, e.SSFCount, e.TriggerCount, e.SizeBytes, e.Path)
	}
	return nil
}

func runCatalogRemove(opts *CatalogOptions, id string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cat, err := catalog.Open(opts.Database)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeCatalog, fmt.Sprintf("opening catalog: %v", err))
	}
	defer func() { _ = cat.Close() }()

	removed, err := cat.Remove(cmd.Context(), id)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeCatalog, fmt.Sprintf("removing %s: %v", id, err))
	}
	if !removed {
		return reportError(formatter, ExitFailure, ErrCodeCatalog, fmt.Sprintf("no catalog entry %s", id))
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"removed": id})
	}
	fmt.Fprintf(formatter.Writer, "removed %s\n", id)
	return nil
}
