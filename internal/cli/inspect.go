package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Misfitd4/b99pack/internal/b99"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	DumpPath string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <bundle>",
		Short: "Decode a beta99 bundle and summarize its contents",
		Long: `Decode a beta99 bundle and print its SSF and trigger tables.

With --verbose every op is listed with its delta, mnemonic and payload.
With --json the full debug dump is also written to the given path.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DumpPath, "json", "", "also write a debug dump to this path")

	return cmd
}

func runInspect(opts *InspectOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("reading bundle: %v", err))
	}

	bundle, err := b99.DecodeBinary(data)
	if err != nil {
		return reportError(formatter, ExitFailure, ErrCodeBadBundle, fmt.Sprintf("%s: %v", path, err))
	}

	if opts.DumpPath != "" {
		dump, err := bundle.EncodeDump()
		if err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("encoding dump: %v", err))
		}
		if err := os.WriteFile(opts.DumpPath, dump, 0644); err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing dump: %v", err))
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(bundle.Dump())
	}

	printBundle(formatter, path, bundle, len(data))
	return nil
}

// printBundle writes the human-readable bundle summary.
func printBundle(formatter *OutputFormatter, path string, bundle *b99.Bundle, size int) {
	w := formatter.Writer
	fmt.Fprintf(w, "%s: %d byte(s), %d SSF(s), %d trigger(s), %d op(s)\n",
		path, size, len(bundle.SSFs), len(bundle.Triggers), bundle.TotalOps())

	if len(bundle.SSFs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "SSFs:")
		for i, ssf := range bundle.SSFs {
			fmt.Fprintf(w, "  [%d] hash %d: duration %d, %d op(s)\n",
				i, ssf.HashID, ssf.Duration, len(ssf.Ops))
			if !formatter.Verbose {
				continue
			}
			for _, op := range ssf.Ops {
				line := fmt.Sprintf("      +%d %s", op.Delta, op.Code)
				if len(op.Data) > 0 {
					line += fmt.Sprintf(" % x", op.Data)
				}
				fmt.Fprintln(w, line)
			}
		}
	}

	if len(bundle.Triggers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Triggers:")
		for i, tr := range bundle.Triggers {
			fmt.Fprintf(w, "  [%d] +%d ssf %d voice %d\n", i, tr.Delta, tr.SSFIndex, tr.Voice)
		}
	}
}
