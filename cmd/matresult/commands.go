package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/matresult/pkg/compression"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/formats"
	"github.com/ajitpratap0/matresult/pkg/observability"
	"github.com/ajitpratap0/matresult/pkg/render"
	"github.com/ajitpratap0/matresult/pkg/result"
)

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := newApp(out, errOut)
	var configPath string

	root := &cobra.Command{
		Use:   "matresult",
		Short: "Load tabular files as materialized query results",
		Long: `matresult reads CSV, Arrow IPC or Parquet files into an in-memory columnar
result and renders, scans or exports it.

Settings come from the YAML file given with --config, then MATRESULT_*
environment variables (e.g. MATRESULT_DISPLAY_MAX_ROWS), then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd, configPath)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.Bool("trace", false, "Export trace spans to stderr")
	pf.Bool("metrics", false, "Print collected metrics to stderr on exit")

	root.AddCommand(newShowCmd(a), newFetchCmd(a), newExportCmd(a), newVersionCmd(out))
	return root
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "Input format (csv, arrow, parquet); inferred from the extension when empty")
	cmd.Flags().Int("chunk-size", 2048, "Maximum rows per chunk")
}

func newShowCmd(a *app) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Render a file as a text or box table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.load(cmd.Context(), args[0])
			defer res.Close()

			var text string
			switch mode {
			case "text":
				text = res.ToString()
			case "box":
				text = res.ToBox(render.Context{TerminalWidth: a.terminalWidth(), Logger: a.log}, a.cfg.Display)
				if text != "" && text[len(text)-1] != '\n' {
					text += "\n"
				}
			default:
				return errors.Newf(errors.ErrorTypeConfig, "unknown mode %q", mode)
			}

			if _, err := io.WriteString(a.out, text); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to write output")
			}
			if res.HasError() {
				return errReported
			}
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringVar(&mode, "mode", "box", "Rendering mode (text, box)")
	cmd.Flags().Int("max-rows", 40, "Rows shown before eliding the middle")
	cmd.Flags().Int("max-width", 0, "Maximum table width; 0 uses the terminal width")
	cmd.Flags().String("border", "normal", "Border style (normal, rounded, ascii)")
	return cmd
}

func newFetchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <file>",
		Short: "Scan a file chunk by chunk and print the chunk sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.load(cmd.Context(), args[0])
			defer res.Close()
			if res.HasError() {
				_, _ = io.WriteString(a.out, res.ToString())
				return errReported
			}
			return observability.Trace(cmd.Context(), "matresult.fetch", func(_ context.Context, span *observability.Span) error {
				return a.fetchAll(res, span)
			})
		},
	}
	addInputFlags(cmd)
	return cmd
}

func (a *app) fetchAll(res *result.MaterializedResult, span *observability.Span) error {
	chunks, rows := 0, 0
	for {
		chunk, err := res.Fetch()
		if err != nil {
			return err
		}
		if chunk == nil {
			break
		}
		fmt.Fprintf(a.out, "chunk %d: %d rows\n", chunks, chunk.Size())
		chunks++
		rows += chunk.Size()
		chunk.Release()
	}
	fmt.Fprintf(a.out, "total: %d rows in %d chunks\n", rows, chunks)
	span.SetAttribute("chunks", chunks)
	span.SetAttribute("rows", rows)
	return nil
}

func newExportCmd(a *app) *cobra.Command {
	var to, output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a file as JSON, Arrow IPC, Parquet or Avro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if to != "" {
				a.cfg.Export.Format = to
			}
			format, err := formats.ParseFormat(a.cfg.Export.Format)
			if err != nil {
				return err
			}

			res := a.load(cmd.Context(), args[0])
			defer res.Close()
			if res.HasError() {
				_, _ = io.WriteString(a.errOut, res.ToString())
				return errReported
			}

			return observability.Trace(cmd.Context(), "matresult.export", func(_ context.Context, span *observability.Span) error {
				span.SetAttribute("format", string(format))
				span.SetAttribute("output", output)
				return a.export(res, format, output)
			})
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringVar(&to, "to", "", "Output format (json, arrow, parquet, avro)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path; stdout when empty")
	cmd.Flags().String("compression", "none", "Compression (none, gzip, zstd, s2, snappy, lz4)")
	cmd.Flags().String("level", "default", "Compression level (fastest, default, better, best)")
	cmd.Flags().Bool("json-lines", false, "Write JSON as one object per line")
	return cmd
}

func (a *app) export(res *result.MaterializedResult, format formats.Format, output string) error {
	algo, err := compression.ParseAlgorithm(a.cfg.Export.Compression)
	if err != nil {
		return err
	}
	level, err := compression.ParseLevel(a.cfg.Export.CompressionLevel)
	if err != nil {
		return err
	}
	opts := formats.WriteOptions{
		Compression: algo,
		Level:       level,
		JSONLines:   a.cfg.Export.JSONLines,
		Indent:      a.cfg.Export.Indent,
		Metrics:     a.stats,
	}

	w := a.out
	if output != "" {
		f, err := os.Create(output) //nolint:gosec // G304: path comes from the command line
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to create output").WithDetail("path", output)
		}
		defer f.Close()
		w = f
	}

	if err := formats.Write(w, res, format, opts); err != nil {
		return err
	}
	a.log.Info("export finished",
		zap.String("format", string(format)),
		zap.String("compression", string(algo)),
		zap.String("output", output),
		zap.Int("rows", res.RowCount()))
	return nil
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "matresult v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
