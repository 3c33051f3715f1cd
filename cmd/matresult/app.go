package main

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ajitpratap0/matresult/pkg/columnar"
	"github.com/ajitpratap0/matresult/pkg/compression"
	"github.com/ajitpratap0/matresult/pkg/config"
	"github.com/ajitpratap0/matresult/pkg/errors"
	"github.com/ajitpratap0/matresult/pkg/formats"
	"github.com/ajitpratap0/matresult/pkg/logger"
	"github.com/ajitpratap0/matresult/pkg/metrics"
	"github.com/ajitpratap0/matresult/pkg/mmap"
	"github.com/ajitpratap0/matresult/pkg/observability"
	"github.com/ajitpratap0/matresult/pkg/render"
	"github.com/ajitpratap0/matresult/pkg/result"
)

var version = "0.1.0"

// errReported marks errors whose text was already written to the output
var errReported = stderrors.New("error reported")

// app holds the state shared by the commands of one invocation
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	log     *zap.Logger
	cmdName string
	reg     *prometheus.Registry
	stats   *metrics.Collector
	out     io.Writer
	errOut  io.Writer

	shutdownTracing func(context.Context) error
}

// overrides maps configuration keys to the command line flags that set them
var overrides = map[string]string{
	"display.max_rows":             "max-rows",
	"display.max_width":            "max-width",
	"display.border":               "border",
	"input.format":                 "input",
	"scan.chunk_size":              "chunk-size",
	"export.compression":           "compression",
	"export.compression_level":     "level",
	"export.json_lines":            "json-lines",
	"observability.log_level":      "log-level",
	"observability.enable_tracing": "trace",
	"observability.enable_metrics": "metrics",
}

func newApp(out, errOut io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix("MATRESULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &app{v: v, out: out, errOut: errOut}
}

// setup loads the config file, applies environment and flag overrides and
// starts logging, metrics and tracing.
func (a *app) setup(cmd *cobra.Command, configPath string) error {
	cfg := config.NewConfig()
	if configPath != "" {
		if err := config.Load(configPath, cfg); err != nil {
			return err
		}
	}

	for key, flag := range overrides {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return errors.Wrap(err, errors.ErrorTypeConfig, "failed to bind flag").WithDetail("flag", flag)
			}
		}
	}
	a.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	err := logger.Init(logger.Config{
		Level:    cfg.Observability.LogLevel,
		Encoding: cfg.Observability.LogEncoding,
		Output:   a.errOut,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to create logger")
	}
	a.cmdName = cmd.Name()
	a.log = logger.With(zap.String("command", a.cmdName))

	a.reg = prometheus.NewRegistry()
	a.stats = metrics.NewCollector(a.reg)

	if cfg.Observability.EnableTracing {
		tc := observability.DefaultTracingConfig()
		tc.ServiceVersion = version
		tc.SamplingRate = cfg.Observability.TracingSampleRate
		tc.Writer = a.errOut
		shutdown, err := observability.InitTracing(tc)
		if err != nil {
			return err
		}
		a.shutdownTracing = shutdown
	}

	logger.Debug("configuration loaded",
		zap.String("config", configPath),
		zap.Int("chunk_size", cfg.Scan.ChunkSize),
		zap.Bool("tracing", cfg.Observability.EnableTracing))
	return nil
}

func (a *app) applyOverrides(cfg *config.Config) {
	v := a.v
	if v.IsSet("display.max_rows") {
		cfg.Display.MaxRows = v.GetInt("display.max_rows")
	}
	if v.IsSet("display.max_width") {
		cfg.Display.MaxWidth = v.GetInt("display.max_width")
	}
	if v.IsSet("display.border") {
		cfg.Display.Border = render.BorderStyle(v.GetString("display.border"))
	}
	if v.IsSet("input.format") {
		cfg.Input.Format = v.GetString("input.format")
	}
	if v.IsSet("scan.chunk_size") {
		cfg.Scan.ChunkSize = v.GetInt("scan.chunk_size")
	}
	if v.IsSet("export.compression") {
		cfg.Export.Compression = v.GetString("export.compression")
	}
	if v.IsSet("export.compression_level") {
		cfg.Export.CompressionLevel = v.GetString("export.compression_level")
	}
	if v.IsSet("export.json_lines") {
		cfg.Export.JSONLines = v.GetBool("export.json_lines")
	}
	if v.IsSet("observability.log_level") {
		cfg.Observability.LogLevel = v.GetString("observability.log_level")
	}
	if v.IsSet("observability.enable_tracing") {
		cfg.Observability.EnableTracing = v.GetBool("observability.enable_tracing")
	}
	if v.IsSet("observability.enable_metrics") {
		cfg.Observability.EnableMetrics = v.GetBool("observability.enable_metrics")
	}
}

// teardown flushes spans, prints metrics when enabled and syncs the logger
func (a *app) teardown(ctx context.Context) error {
	var errs []error
	if a.shutdownTracing != nil {
		errs = append(errs, a.shutdownTracing(ctx))
	}
	if a.cfg != nil && a.cfg.Observability.EnableMetrics && a.reg != nil {
		errs = append(errs, a.writeMetrics())
	}
	_ = logger.Sync()
	return stderrors.Join(errs...)
}

func (a *app) writeMetrics() error {
	families, err := a.reg.Gather()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to gather metrics")
	}
	enc := expfmt.NewEncoder(a.errOut, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode metrics")
		}
	}
	return nil
}

// resultOptions returns the options every result of this invocation uses
func (a *app) resultOptions(log *zap.Logger) []result.Option {
	scan := columnar.DisallowZeroCopy
	if a.cfg.Scan.AllowZeroCopy {
		scan = columnar.AllowZeroCopy
	}
	return []result.Option{
		result.WithLogger(log),
		result.WithMetrics(a.stats),
		result.WithScanProperties(scan),
	}
}

// load reads path into a result. Read errors produce a failed result.
func (a *app) load(ctx context.Context, path string) *result.MaterializedResult {
	ctx = context.WithValue(ctx, logger.SourceKey, path)
	ctx = context.WithValue(ctx, logger.StatementKey, result.StatementSelect.String())
	log := logger.WithContext(ctx).With(zap.String("command", a.cmdName))
	opts := a.resultOptions(log)

	var (
		coll  *columnar.Collection
		names []string
	)
	err := observability.Trace(ctx, "matresult.read", func(ctx context.Context, span *observability.Span) error {
		span.SetAttribute("path", path)
		var err error
		coll, names, err = a.read(path)
		if err == nil {
			span.SetAttribute("rows", coll.Count())
			span.SetAttribute("columns", names)
		}
		return err
	})
	if err != nil {
		log.Warn("failed to read input", zap.Error(err))
		return result.NewFailure(err, opts...)
	}

	res, err := result.NewSuccess(result.StatementSelect,
		result.StatementProperties{ReadOnly: true, ReturnType: result.ReturnQueryResult},
		names, coll, result.ClientProperties{TimeZone: "UTC"}, opts...)
	if err != nil {
		coll.Release()
		return result.NewFailure(err, opts...)
	}
	log.Info("input loaded", zap.Int("rows", res.RowCount()))
	return res
}

func (a *app) read(path string) (*columnar.Collection, []string, error) {
	format := formats.Format(a.cfg.Input.Format)
	if format == "" {
		f, err := formats.FormatFromPath(path)
		if err != nil {
			return nil, nil, err
		}
		format = f
	} else if _, err := formats.ParseFormat(string(format)); err != nil {
		return nil, nil, err
	}

	opts := formats.DefaultReadOptions()
	opts.ChunkSize = a.cfg.Scan.ChunkSize
	opts.Header = a.cfg.Input.CSVHeader
	opts.NullValues = a.cfg.Input.NullValues
	opts.Delimiter = []rune(a.cfg.Input.CSVDelimiter)[0]
	opts.Metrics = a.stats

	algo := compression.FromPath(path)
	if algo == compression.None && (format == formats.Arrow || format == formats.Parquet) {
		// both readers copy what they read into arrow buffers, so the
		// mapping can go away once the collection is built
		m, err := mmap.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer m.Close()
		return formats.Read(m.Reader(), format, opts)
	}

	f, err := os.Open(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input").WithDetail("path", path)
	}
	defer f.Close()

	r, err := compression.NewReader(f, algo)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()
	return formats.Read(r, format, opts)
}

// terminalWidth returns the width of the output terminal, or 0 when the
// output is not a terminal.
func (a *app) terminalWidth() int {
	f, ok := a.out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
