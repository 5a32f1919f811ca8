package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Misfitd4/b99pack/internal/b99"
	"github.com/Misfitd4/b99pack/internal/catalog"
	"github.com/Misfitd4/b99pack/internal/desid"
	"github.com/Misfitd4/b99pack/internal/encoder"
)

// PackOptions holds flags for the pack command.
type PackOptions struct {
	*RootOptions
	SSFPath     string
	LogPath     string
	Output      string
	DumpPath    string
	MaxOps      int
	CatalogPath string
}

// PackResult summarizes a written bundle for JSON output.
type PackResult struct {
	Output       string `json:"output"`
	SSFCount     int    `json:"ssf_count"`
	TriggerCount int    `json:"trigger_count"`
	TotalOps     int    `json:"total_ops"`
	SizeBytes    int    `json:"size_bytes"`
	MaxOps       int    `json:"max_ops"`
	DumpPath     string `json:"dump_path,omitempty"`
	CatalogID    string `json:"catalog_id,omitempty"`
}

// NewPackCommand creates the pack command.
func NewPackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PackOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack register rows and a playback log into a beta99 bundle",
		Long: `Pack a desidulate SSF export and playback log into a beta99 bundle.

Register rows are delta-encoded per sound fragment, op streams longer than
--max-ops are split into chunked records, and the playback log becomes the
bundle's trigger stream. The bundle is encoded in memory and written in one
piece, so a failed run leaves no partial output file.

Example:
  b99pack pack --ssf tune.ssf.csv.zst --log tune.log.csv.zst --out tune.b99
  b99pack pack --ssf tune.ssf.csv.zst --log tune.log.csv.zst --out tune.b99 \
    --json tune.json --catalog bundles.db`,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SSFPath, "ssf", "", "path to the SSF register export (csv.zst, required)")
	cmd.Flags().StringVar(&opts.LogPath, "log", "", "path to the playback log (csv.zst, required)")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "output bundle path (required)")
	cmd.Flags().StringVar(&opts.DumpPath, "json", "", "also write a debug dump to this path")
	cmd.Flags().IntVar(&opts.MaxOps, "max-ops", encoder.DefaultMaxOps, "maximum ops per record before chunking")
	cmd.Flags().StringVar(&opts.CatalogPath, "catalog", "", "record the bundle in this catalog database")
	_ = cmd.MarkFlagRequired("ssf")
	_ = cmd.MarkFlagRequired("log")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runPack(opts *PackOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	maxOps := opts.MaxOps
	if maxOps < 1 {
		maxOps = 1 // same floor the builder applies
	}

	slog.Debug("reading SSF export", "path", opts.SSFPath)
	rows, err := desid.ReadSSF(opts.SSFPath)
	if err != nil {
		return reportError(formatter, ExitCommandError, inputErrorCode(err), err.Error())
	}

	slog.Debug("reading playback log", "path", opts.LogPath)
	events, err := desid.ReadLog(opts.LogPath)
	if err != nil {
		return reportError(formatter, ExitCommandError, inputErrorCode(err), err.Error())
	}
	formatter.VerboseLog("Loaded %d register row(s), %d log event(s)", len(rows), len(events))

	bundle, err := encoder.Build(rows, events, maxOps)
	if err != nil {
		return reportError(formatter, ExitFailure, buildErrorCode(err), err.Error())
	}
	slog.Debug("op streams built",
		"ssfs", len(bundle.SSFs),
		"triggers", len(bundle.Triggers),
		"ops", bundle.TotalOps())

	data, err := bundle.EncodeBinary()
	if err != nil {
		return reportError(formatter, ExitFailure, ErrCodeEncodeFailed, err.Error())
	}

	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing bundle: %v", err))
	}

	result := &PackResult{
		Output:       opts.Output,
		SSFCount:     len(bundle.SSFs),
		TriggerCount: len(bundle.Triggers),
		TotalOps:     bundle.TotalOps(),
		SizeBytes:    len(data),
		MaxOps:       maxOps,
	}

	if opts.DumpPath != "" {
		dump, err := bundle.EncodeDump()
		if err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("encoding dump: %v", err))
		}
		if err := os.WriteFile(opts.DumpPath, dump, 0644); err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing dump: %v", err))
		}
		result.DumpPath = opts.DumpPath
	}

	if opts.CatalogPath != "" {
		id, err := recordBundle(cmd.Context(), opts.CatalogPath, bundle, result)
		if err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeCatalog, err.Error())
		}
		result.CatalogID = id
	}

	return outputPackSuccess(formatter, result)
}

// recordBundle stores the bundle's vitals in the catalog and returns
// the fresh entry id.
func recordBundle(ctx context.Context, path string, bundle *b99.Bundle, result *PackResult) (string, error) {
	cat, err := catalog.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening catalog: %w", err)
	}
	defer func() {
		if closeErr := cat.Close(); closeErr != nil {
			slog.Error("error closing catalog", "error", closeErr)
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	entry := catalog.NewEntry(result.Output, bundle, int64(result.SizeBytes), result.MaxOps)
	if err := cat.Record(ctx, entry); err != nil {
		return "", fmt.Errorf("recording bundle: %w", err)
	}
	return entry.ID, nil
}

// outputPackSuccess outputs the pack summary.
func outputPackSuccess(formatter *OutputFormatter, result *PackResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "beta99 bundle written to %s | SSFs: %d | Triggers: %d\n",
		result.Output, result.SSFCount, result.TriggerCount)
	if result.DumpPath != "" {
		fmt.Fprintf(formatter.Writer, "debug dump written to %s\n", result.DumpPath)
	}
	if result.CatalogID != "" {
		fmt.Fprintf(formatter.Writer, "cataloged as %s\n", result.CatalogID)
	}
	formatter.VerboseLog("%d op(s) in %d byte(s), max %d op(s) per record",
		result.TotalOps, result.SizeBytes, result.MaxOps)
	return nil
}
